package repository

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository/dao"
)

var (
	ErrPaymentNotFound = dao.ErrPaymentNotFound
	ErrPaymentExists   = dao.ErrPaymentExists
)

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByID(ctx context.Context, id uint) (dao.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uint) (dao.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (dao.Payment, error)
	FindAll(ctx context.Context) ([]dao.Payment, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (dao.Payment, error)
	Delete(ctx context.Context, id uint) error
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, dao.Payment{
		BookingID:     payment.BookingID,
		Amount:        payment.Amount,
		PaymentStatus: string(payment.Status),
		PaymentDate:   payment.PaymentDate,
		PaymentMethod: payment.PaymentMethod,
		TransactionID: payment.TransactionID,
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint) (domain.Payment, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) FindByBookingID(ctx context.Context, bookingID uint) (domain.Payment, error) {
	found, err := r.dao.FindByBookingID(ctx, bookingID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByBookingID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (domain.Payment, error) {
	found, err := r.dao.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByTransactionID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) FindAll(ctx context.Context) ([]domain.Payment, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	payments := make([]domain.Payment, len(found))
	for i, p := range found {
		payments[i] = r.daoToDomain(p)
	}

	return payments, nil
}

func (r *PaymentRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.Payment, error) {
	updated, err := r.dao.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PaymentRepository) daoToDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:            p.PaymentID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Status:        domain.PaymentStatus(p.PaymentStatus),
		PaymentDate:   p.PaymentDate,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
