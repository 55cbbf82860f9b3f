package repository

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository/dao"
)

var ErrBookingNotFound = dao.ErrBookingNotFound

type BookingDAO interface {
	Insert(ctx context.Context, booking dao.Booking) (dao.Booking, error)
	FindByID(ctx context.Context, id uint) (dao.Booking, error)
	FindAll(ctx context.Context) ([]dao.Booking, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Booking, error)
	UpdateStatus(ctx context.Context, booking dao.Booking, status string, delta int) (dao.Booking, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (dao.Booking, error)
	Delete(ctx context.Context, booking dao.Booking, releaseQty int) error
}

type BookingRepository struct {
	dao BookingDAO
}

func NewBookingRepository(dao BookingDAO) *BookingRepository {
	return &BookingRepository{
		dao: dao,
	}
}

func (r *BookingRepository) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	created, err := r.dao.Insert(ctx, dao.Booking{
		UserID:        booking.UserID,
		EventID:       booking.EventID,
		Quantity:      booking.Quantity,
		TotalAmount:   booking.TotalAmount,
		BookingStatus: string(booking.Status),
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uint) (domain.Booking, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *BookingRepository) FindAll(ctx context.Context) ([]domain.Booking, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *BookingRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Booking, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

// UpdateStatus persists a state transition together with its inventory delta.
// The dao runs both writes in one database transaction.
func (r *BookingRepository) UpdateStatus(ctx context.Context, booking domain.Booking, status domain.BookingStatus, delta int) (domain.Booking, error) {
	updated, err := r.dao.UpdateStatus(ctx, r.domainToDao(booking), string(status), delta)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *BookingRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.Booking, error) {
	updated, err := r.dao.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *BookingRepository) Delete(ctx context.Context, booking domain.Booking, releaseQty int) error {
	if err := r.dao.Delete(ctx, r.domainToDao(booking), releaseQty); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *BookingRepository) domainToDao(b domain.Booking) dao.Booking {
	return dao.Booking{
		BookingID:     b.ID,
		UserID:        b.UserID,
		EventID:       b.EventID,
		Quantity:      b.Quantity,
		TotalAmount:   b.TotalAmount,
		BookingStatus: string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (r *BookingRepository) daoToDomain(b dao.Booking) domain.Booking {
	return domain.Booking{
		ID:          b.BookingID,
		UserID:      b.UserID,
		EventID:     b.EventID,
		Quantity:    b.Quantity,
		TotalAmount: b.TotalAmount,
		Status:      domain.BookingStatus(b.BookingStatus),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (r *BookingRepository) daosToDomain(found []dao.Booking) []domain.Booking {
	bookings := make([]domain.Booking, len(found))
	for i, b := range found {
		bookings[i] = r.daoToDomain(b)
	}

	return bookings
}
