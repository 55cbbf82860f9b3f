package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `json:"user_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	ContactPhone string    `json:"contact_phone"`
	Address      string    `json:"address"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccess is the owner-or-admin rule used by every resource handler:
// admins may touch any record, everyone else only their own.
func (u User) CanAccess(ownerID uint) bool {
	return u.IsAdmin() || u.ID == ownerID
}
