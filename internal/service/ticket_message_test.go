package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

type fakeTicketRepo struct {
	tickets map[uint]domain.SupportTicket
}

func newFakeTicketRepo(tickets ...domain.SupportTicket) *fakeTicketRepo {
	r := &fakeTicketRepo{tickets: make(map[uint]domain.SupportTicket)}
	for _, t := range tickets {
		r.tickets[t.ID] = t
	}

	return r
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket domain.SupportTicket) (domain.SupportTicket, error) {
	r.tickets[ticket.ID] = ticket
	return ticket, nil
}

func (r *fakeTicketRepo) FindByID(_ context.Context, id uint) (domain.SupportTicket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return domain.SupportTicket{}, repository.ErrTicketNotFound
	}

	return ticket, nil
}

func (r *fakeTicketRepo) FindAll(_ context.Context) ([]domain.SupportTicket, error) {
	return nil, nil
}

func (r *fakeTicketRepo) FindByUserID(_ context.Context, _ uint) ([]domain.SupportTicket, error) {
	return nil, nil
}

func (r *fakeTicketRepo) UpdateFields(_ context.Context, id uint, _ map[string]interface{}) (domain.SupportTicket, error) {
	return r.tickets[id], nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id uint) error {
	delete(r.tickets, id)
	return nil
}

type fakeMessageRepo struct {
	messages  map[uint]domain.TicketMessage
	nextID    uint
	gotFields map[string]interface{}
}

func newFakeMessageRepo(messages ...domain.TicketMessage) *fakeMessageRepo {
	r := &fakeMessageRepo{
		messages: make(map[uint]domain.TicketMessage),
		nextID:   1,
	}
	for _, m := range messages {
		if m.ID >= r.nextID {
			r.nextID = m.ID + 1
		}
		r.messages[m.ID] = m
	}

	return r
}

func (r *fakeMessageRepo) Create(_ context.Context, message domain.TicketMessage) (domain.TicketMessage, error) {
	message.ID = r.nextID
	message.CreatedAt = time.Now()
	r.nextID++
	r.messages[message.ID] = message

	return message, nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id uint) (domain.TicketMessage, error) {
	message, ok := r.messages[id]
	if !ok {
		return domain.TicketMessage{}, repository.ErrMessageNotFound
	}

	return message, nil
}

func (r *fakeMessageRepo) FindByTicketID(_ context.Context, ticketID uint) ([]domain.TicketMessage, error) {
	var messages []domain.TicketMessage
	for id := uint(1); id < r.nextID; id++ {
		if m, ok := r.messages[id]; ok && m.TicketID == ticketID {
			messages = append(messages, m)
		}
	}

	return messages, nil
}

func (r *fakeMessageRepo) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) (domain.TicketMessage, error) {
	message, ok := r.messages[id]
	if !ok {
		return domain.TicketMessage{}, repository.ErrMessageNotFound
	}
	r.gotFields = fields
	if content, ok := fields["content"].(string); ok {
		message.Content = content
	}
	r.messages[id] = message

	return message, nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.messages[id]; !ok {
		return repository.ErrMessageNotFound
	}
	delete(r.messages, id)

	return nil
}

func TestTicketMessageService_CreateMessage(t *testing.T) {
	tickets := newFakeTicketRepo(domain.SupportTicket{ID: 1, UserID: 10})
	svc := NewTicketMessageService(newFakeMessageRepo(), tickets)

	owner := domain.User{ID: 10, Role: domain.RoleUser}
	message, err := svc.CreateMessage(context.Background(), domain.TicketMessage{
		TicketID: 1,
		SenderID: 99, // client-supplied sender must be ignored
		Content:  "still waiting on a refund",
	}, owner)
	require.NoError(t, err)

	assert.Equal(t, uint(10), message.SenderID)
	assert.Equal(t, uint(1), message.TicketID)
}

func TestTicketMessageService_CreateMessage_TicketNotFound(t *testing.T) {
	svc := NewTicketMessageService(newFakeMessageRepo(), newFakeTicketRepo())

	_, err := svc.CreateMessage(context.Background(), domain.TicketMessage{
		TicketID: 42,
		Content:  "hello?",
	}, domain.User{ID: 10, Role: domain.RoleUser})

	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestTicketMessageService_CreateMessage_OtherUsersTicket(t *testing.T) {
	tickets := newFakeTicketRepo(domain.SupportTicket{ID: 1, UserID: 10})
	svc := NewTicketMessageService(newFakeMessageRepo(), tickets)

	_, err := svc.CreateMessage(context.Background(), domain.TicketMessage{
		TicketID: 1,
		Content:  "let me in",
	}, domain.User{ID: 11, Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// An admin may post to anyone's ticket.
	message, err := svc.CreateMessage(context.Background(), domain.TicketMessage{
		TicketID: 1,
		Content:  "we are on it",
	}, domain.User{ID: 2, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, uint(2), message.SenderID)
}

func TestTicketMessageService_GetMessagesByTicketID(t *testing.T) {
	tickets := newFakeTicketRepo(domain.SupportTicket{ID: 1, UserID: 10})
	messages := newFakeMessageRepo(
		domain.TicketMessage{ID: 1, TicketID: 1, SenderID: 10, Content: "first"},
		domain.TicketMessage{ID: 2, TicketID: 2, SenderID: 10, Content: "other thread"},
		domain.TicketMessage{ID: 3, TicketID: 1, SenderID: 2, Content: "second"},
	)
	svc := NewTicketMessageService(messages, tickets)

	got, err := svc.GetMessagesByTicketID(context.Background(), 1, domain.User{ID: 10, Role: domain.RoleUser})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)

	_, err = svc.GetMessagesByTicketID(context.Background(), 1, domain.User{ID: 11, Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestTicketMessageService_UpdateMessage(t *testing.T) {
	messages := newFakeMessageRepo(domain.TicketMessage{ID: 1, TicketID: 1, SenderID: 10, Content: "typo"})
	svc := NewTicketMessageService(messages, newFakeTicketRepo())

	updated, err := svc.UpdateMessage(context.Background(), 1, map[string]interface{}{
		"content":   "fixed",
		"sender_id": 99,
		"ticket_id": 5,
	}, domain.User{ID: 10, Role: domain.RoleUser})
	require.NoError(t, err)

	assert.Equal(t, "fixed", updated.Content)
	assert.Equal(t, map[string]interface{}{"content": "fixed"}, messages.gotFields)
}

func TestTicketMessageService_UpdateMessage_NotSender(t *testing.T) {
	messages := newFakeMessageRepo(domain.TicketMessage{ID: 1, TicketID: 1, SenderID: 10, Content: "mine"})
	svc := NewTicketMessageService(messages, newFakeTicketRepo())

	_, err := svc.UpdateMessage(context.Background(), 1, map[string]interface{}{
		"content": "hijacked",
	}, domain.User{ID: 11, Role: domain.RoleUser})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestTicketMessageService_DeleteMessage(t *testing.T) {
	messages := newFakeMessageRepo(domain.TicketMessage{ID: 1, TicketID: 1, SenderID: 10, Content: "mine"})
	svc := NewTicketMessageService(messages, newFakeTicketRepo())

	err := svc.DeleteMessage(context.Background(), 1, domain.User{ID: 11, Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrAccessDenied)

	require.NoError(t, svc.DeleteMessage(context.Background(), 1, domain.User{ID: 10, Role: domain.RoleUser}))

	err = svc.DeleteMessage(context.Background(), 1, domain.User{ID: 10, Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
