package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

var ErrMessageNotFound = repository.ErrMessageNotFound

// Anyone on the thread may rewrite their own message body; nothing else is
// editable after the fact.
var messageUpdatableFields = map[string]map[string]bool{
	domain.RoleUser: {
		"content": true,
	},
	domain.RoleAdmin: {
		"content": true,
	},
}

type TicketMessageRepository interface {
	Create(ctx context.Context, message domain.TicketMessage) (domain.TicketMessage, error)
	FindByID(ctx context.Context, id uint) (domain.TicketMessage, error)
	FindByTicketID(ctx context.Context, ticketID uint) ([]domain.TicketMessage, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.TicketMessage, error)
	Delete(ctx context.Context, id uint) error
}

type TicketMessageService struct {
	repo    TicketMessageRepository
	tickets SupportTicketRepository
}

func NewTicketMessageService(repo TicketMessageRepository, tickets SupportTicketRepository) *TicketMessageService {
	return &TicketMessageService{
		repo:    repo,
		tickets: tickets,
	}
}

// CreateMessage posts to a ticket's thread. The sender is always the actor;
// only the ticket's owner or an admin may post.
func (s *TicketMessageService) CreateMessage(ctx context.Context, message domain.TicketMessage, actor domain.User) (domain.TicketMessage, error) {
	ticket, err := s.tickets.FindByID(ctx, message.TicketID)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return domain.TicketMessage{}, ErrTicketNotFound
		}

		return domain.TicketMessage{}, fmt.Errorf("s.tickets.FindByID -> %w", err)
	}

	if !actor.CanAccess(ticket.UserID) {
		return domain.TicketMessage{}, ErrAccessDenied
	}

	message.SenderID = actor.ID

	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return domain.TicketMessage{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// GetMessagesByTicketID returns a ticket's thread in posting order.
func (s *TicketMessageService) GetMessagesByTicketID(ctx context.Context, ticketID uint, actor domain.User) ([]domain.TicketMessage, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return nil, ErrTicketNotFound
		}

		return nil, fmt.Errorf("s.tickets.FindByID -> %w", err)
	}

	if !actor.CanAccess(ticket.UserID) {
		return nil, ErrAccessDenied
	}

	messages, err := s.repo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByTicketID -> %w", err)
	}

	return messages, nil
}

func (s *TicketMessageService) UpdateMessage(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.TicketMessage, error) {
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return domain.TicketMessage{}, ErrMessageNotFound
		}

		return domain.TicketMessage{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanAccess(message.SenderID) {
		return domain.TicketMessage{}, ErrAccessDenied
	}

	fields := filterFields(actor.Role, messageUpdatableFields, updates)
	if len(fields) == 0 {
		return message, nil
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.TicketMessage{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	return updated, nil
}

func (s *TicketMessageService) DeleteMessage(ctx context.Context, id uint, actor domain.User) error {
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return ErrMessageNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanAccess(message.SenderID) {
		return ErrAccessDenied
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
