package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

var ErrTicketNotFound = repository.ErrTicketNotFound

// Ticket owners can amend their report; only admins move tickets through the
// support workflow.
var ticketUpdatableFields = map[string]map[string]bool{
	domain.RoleUser: {
		"subject":     true,
		"description": true,
	},
	domain.RoleAdmin: {
		"subject":     true,
		"description": true,
		"status":      true,
	},
}

type SupportTicketRepository interface {
	Create(ctx context.Context, ticket domain.SupportTicket) (domain.SupportTicket, error)
	FindByID(ctx context.Context, id uint) (domain.SupportTicket, error)
	FindAll(ctx context.Context) ([]domain.SupportTicket, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.SupportTicket, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.SupportTicket, error)
	Delete(ctx context.Context, id uint) error
}

type SupportTicketService struct {
	repo SupportTicketRepository
}

func NewSupportTicketService(repo SupportTicketRepository) *SupportTicketService {
	return &SupportTicketService{
		repo: repo,
	}
}

func (s *SupportTicketService) CreateTicket(ctx context.Context, ticket domain.SupportTicket) (domain.SupportTicket, error) {
	ticket.Status = domain.TicketStatusOpen

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *SupportTicketService) GetTicket(ctx context.Context, id uint) (domain.SupportTicket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return ticket, nil
}

func (s *SupportTicketService) GetAllTickets(ctx context.Context) ([]domain.SupportTicket, error) {
	tickets, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return tickets, nil
}

func (s *SupportTicketService) GetTicketsByUserID(ctx context.Context, userID uint) ([]domain.SupportTicket, error) {
	tickets, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return tickets, nil
}

func (s *SupportTicketService) UpdateTicket(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.SupportTicket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return domain.SupportTicket{}, ErrTicketNotFound
		}

		return domain.SupportTicket{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanAccess(ticket.UserID) {
		return domain.SupportTicket{}, ErrAccessDenied
	}

	fields := filterFields(actor.Role, ticketUpdatableFields, updates)
	if len(fields) == 0 {
		return ticket, nil
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	return updated, nil
}

func (s *SupportTicketService) DeleteTicket(ctx context.Context, id uint, actor domain.User) error {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return ErrTicketNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanAccess(ticket.UserID) {
		return ErrAccessDenied
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
