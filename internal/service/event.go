package service

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

var ErrEventNotFound = repository.ErrEventNotFound

// Event mutation is admin-only; the sold counter is owned by the booking
// state machine and is absent from the allow-list, so it can never be set
// through a generic update.
var eventUpdatableFields = map[string]map[string]bool{
	domain.RoleAdmin: {
		"title":         true,
		"description":   true,
		"venue_id":      true,
		"category":      true,
		"date":          true,
		"time":          true,
		"ticket_price":  true,
		"tickets_total": true,
	},
}

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) GetAllEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	fields := filterFields(actor.Role, eventUpdatableFields, updates)
	if len(fields) == 0 {
		return event, nil
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
