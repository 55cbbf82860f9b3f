package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

var (
	ErrPaymentNotFound = repository.ErrPaymentNotFound
	ErrPaymentExists   = repository.ErrPaymentExists
)

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindByID(ctx context.Context, id uint) (domain.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uint) (domain.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (domain.Payment, error)
	FindAll(ctx context.Context) ([]domain.Payment, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.Payment, error)
	Delete(ctx context.Context, id uint) error
}

type PaymentService struct {
	repo        PaymentRepository
	bookingRepo BookingRepository
}

func NewPaymentService(repo PaymentRepository, bookingRepo BookingRepository) *PaymentService {
	return &PaymentService{
		repo:        repo,
		bookingRepo: bookingRepo,
	}
}

// CreatePayment opens the payment record for a booking. The one-per-booking
// rule is enforced by the unique constraint on booking_id, not re-checked
// here, so concurrent creates cannot both slip through.
func (s *PaymentService) CreatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	if _, err := s.bookingRepo.FindByID(ctx, payment.BookingID); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return domain.Payment{}, ErrBookingNotFound
		}

		return domain.Payment{}, fmt.Errorf("s.bookingRepo.FindByID -> %w", err)
	}

	if payment.Status == "" {
		payment.Status = domain.PaymentStatusPending
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		if errors.Is(err, ErrPaymentExists) {
			return domain.Payment{}, ErrPaymentExists
		}

		return domain.Payment{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint) (domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return payment, nil
}

func (s *PaymentService) GetPaymentByBookingID(ctx context.Context, bookingID uint) (domain.Payment, error) {
	payment, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.FindByBookingID -> %w", err)
	}

	return payment, nil
}

func (s *PaymentService) GetAllPayments(ctx context.Context) ([]domain.Payment, error) {
	payments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return payments, nil
}

// UpdatePayment is the admin CRUD path. Reconciliation owns payment_status
// and transaction_id transitions driven by the gateway; this only covers
// bookkeeping edits.
func (s *PaymentService) UpdatePayment(ctx context.Context, id uint, fields map[string]interface{}) (domain.Payment, error) {
	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	return updated, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
