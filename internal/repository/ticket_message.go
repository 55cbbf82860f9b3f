package repository

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository/dao"
)

var ErrMessageNotFound = dao.ErrMessageNotFound

type TicketMessageDAO interface {
	Insert(ctx context.Context, message dao.TicketMessage) (dao.TicketMessage, error)
	FindByID(ctx context.Context, id uint) (dao.TicketMessage, error)
	FindByTicketID(ctx context.Context, ticketID uint) ([]dao.TicketMessage, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (dao.TicketMessage, error)
	Delete(ctx context.Context, id uint) error
}

type TicketMessageRepository struct {
	dao TicketMessageDAO
}

func NewTicketMessageRepository(dao TicketMessageDAO) *TicketMessageRepository {
	return &TicketMessageRepository{
		dao: dao,
	}
}

func (r *TicketMessageRepository) Create(ctx context.Context, message domain.TicketMessage) (domain.TicketMessage, error) {
	created, err := r.dao.Insert(ctx, dao.TicketMessage{
		TicketID: message.TicketID,
		SenderID: message.SenderID,
		Content:  message.Content,
	})
	if err != nil {
		return domain.TicketMessage{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TicketMessageRepository) FindByID(ctx context.Context, id uint) (domain.TicketMessage, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TicketMessage{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TicketMessageRepository) FindByTicketID(ctx context.Context, ticketID uint) ([]domain.TicketMessage, error) {
	found, err := r.dao.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByTicketID -> %w", err)
	}

	messages := make([]domain.TicketMessage, len(found))
	for i, m := range found {
		messages[i] = r.daoToDomain(m)
	}

	return messages, nil
}

func (r *TicketMessageRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.TicketMessage, error) {
	updated, err := r.dao.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.TicketMessage{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *TicketMessageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *TicketMessageRepository) daoToDomain(m dao.TicketMessage) domain.TicketMessage {
	return domain.TicketMessage{
		ID:        m.MessageID,
		TicketID:  m.TicketID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
