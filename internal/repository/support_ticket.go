package repository

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository/dao"
)

var ErrTicketNotFound = dao.ErrTicketNotFound

type SupportTicketDAO interface {
	Insert(ctx context.Context, ticket dao.SupportTicket) (dao.SupportTicket, error)
	FindByID(ctx context.Context, id uint) (dao.SupportTicket, error)
	FindAll(ctx context.Context) ([]dao.SupportTicket, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.SupportTicket, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (dao.SupportTicket, error)
	Delete(ctx context.Context, id uint) error
}

type SupportTicketRepository struct {
	dao SupportTicketDAO
}

func NewSupportTicketRepository(dao SupportTicketDAO) *SupportTicketRepository {
	return &SupportTicketRepository{
		dao: dao,
	}
}

func (r *SupportTicketRepository) Create(ctx context.Context, ticket domain.SupportTicket) (domain.SupportTicket, error) {
	created, err := r.dao.Insert(ctx, dao.SupportTicket{
		UserID:      ticket.UserID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Status:      ticket.Status,
	})
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SupportTicketRepository) FindByID(ctx context.Context, id uint) (domain.SupportTicket, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SupportTicketRepository) FindAll(ctx context.Context) ([]domain.SupportTicket, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *SupportTicketRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.SupportTicket, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *SupportTicketRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.SupportTicket, error) {
	updated, err := r.dao.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.SupportTicket{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *SupportTicketRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *SupportTicketRepository) daoToDomain(t dao.SupportTicket) domain.SupportTicket {
	return domain.SupportTicket{
		ID:          t.TicketID,
		UserID:      t.UserID,
		Subject:     t.Subject,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r *SupportTicketRepository) daosToDomain(found []dao.SupportTicket) []domain.SupportTicket {
	tickets := make([]domain.SupportTicket, len(found))
	for i, t := range found {
		tickets[i] = r.daoToDomain(t)
	}

	return tickets
}
