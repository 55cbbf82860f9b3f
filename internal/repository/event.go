package repository

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository/dao"
)

var (
	ErrEventNotFound    = dao.ErrEventNotFound
	ErrCapacityExceeded = dao.ErrCapacityExceeded
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (dao.Event, error)
	CommitTickets(ctx context.Context, id uint, qty int) error
	ReleaseTickets(ctx context.Context, id uint, qty int) error
	Delete(ctx context.Context, id uint) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Title:        event.Title,
		Description:  event.Description,
		VenueID:      event.VenueID,
		Category:     event.Category,
		Date:         event.Date,
		Time:         event.Time,
		TicketPrice:  event.TicketPrice,
		TicketsTotal: event.TicketsTotal,
		TicketsSold:  event.TicketsSold,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = r.daoToDomain(e)
	}

	return events, nil
}

func (r *EventRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.Event, error) {
	updated, err := r.dao.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) CommitTickets(ctx context.Context, id uint, qty int) error {
	return r.dao.CommitTickets(ctx, id, qty)
}

func (r *EventRepository) ReleaseTickets(ctx context.Context, id uint, qty int) error {
	return r.dao.ReleaseTickets(ctx, id, qty)
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:           e.EventID,
		Title:        e.Title,
		Description:  e.Description,
		VenueID:      e.VenueID,
		Category:     e.Category,
		Date:         e.Date,
		Time:         e.Time,
		TicketPrice:  e.TicketPrice,
		TicketsTotal: e.TicketsTotal,
		TicketsSold:  e.TicketsSold,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
