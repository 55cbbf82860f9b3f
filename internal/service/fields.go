package service

// filterFields drops every update that is not on the actor role's
// allow-list. Callers declare one allow-list per resource; anything a role
// is not permitted to touch is silently discarded rather than rejected,
// matching how generic PUT updates behave elsewhere in the API.
func filterFields(role string, allowed map[string]map[string]bool, updates map[string]interface{}) map[string]interface{} {
	permitted := allowed[role]

	filtered := make(map[string]interface{}, len(updates))
	for field, value := range updates {
		if permitted[field] {
			filtered[field] = value
		}
	}

	return filtered
}
