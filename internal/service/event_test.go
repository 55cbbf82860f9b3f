package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tukio-app/tukio-api/internal/domain"
)

func TestEventService_UpdateEvent_SoldCounterNotUpdatable(t *testing.T) {
	repo := newFakeEventRepo(domain.Event{ID: 1, Title: "Jazz Night", TicketsTotal: 100, TicketsSold: 40})
	svc := NewEventService(repo)

	admin := domain.User{ID: 1, Role: domain.RoleAdmin}
	updated, err := svc.UpdateEvent(context.Background(), 1, map[string]interface{}{
		"title":        "Jazz Night II",
		"tickets_sold": 0,
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, "Jazz Night II", updated.Title)
	assert.Equal(t, 40, updated.TicketsSold)
	assert.Equal(t, map[string]interface{}{"title": "Jazz Night II"}, repo.gotFields)
}

func TestEventService_UpdateEvent_NothingPermitted(t *testing.T) {
	repo := newFakeEventRepo(domain.Event{ID: 1, Title: "Jazz Night"})
	svc := NewEventService(repo)

	// Non-admin roles have no allow-list, so every field is dropped and the
	// event comes back untouched.
	updated, err := svc.UpdateEvent(context.Background(), 1, map[string]interface{}{
		"title": "hijacked",
	}, domain.User{ID: 5, Role: domain.RoleUser})
	require.NoError(t, err)

	assert.Equal(t, "Jazz Night", updated.Title)
	assert.Nil(t, repo.gotFields)
}

func TestEventService_UpdateEvent_NotFound(t *testing.T) {
	svc := NewEventService(newFakeEventRepo())

	_, err := svc.UpdateEvent(context.Background(), 9, map[string]interface{}{
		"title": "ghost",
	}, domain.User{ID: 1, Role: domain.RoleAdmin})

	assert.ErrorIs(t, err, ErrEventNotFound)
}
