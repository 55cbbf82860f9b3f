package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

var (
	ErrBookingNotFound  = repository.ErrBookingNotFound
	ErrCapacityExceeded = repository.ErrCapacityExceeded
	ErrAccessDenied     = errors.New("access denied")
	ErrInvalidStatus    = errors.New("invalid booking status")
)

// Fields a generic booking update may touch, per actor role. Status changes
// go through UpdateStatus only, and user_id/event_id/quantity are immutable
// after creation because the inventory math depends on them.
var bookingUpdatableFields = map[string]map[string]bool{
	domain.RoleUser:  {"total_amount": true},
	domain.RoleAdmin: {"total_amount": true},
}

type BookingRepository interface {
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	FindByID(ctx context.Context, id uint) (domain.Booking, error)
	FindAll(ctx context.Context) ([]domain.Booking, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, booking domain.Booking, status domain.BookingStatus, delta int) (domain.Booking, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.Booking, error)
	Delete(ctx context.Context, booking domain.Booking, releaseQty int) error
}

type BookingService struct {
	repo      BookingRepository
	eventRepo EventRepository
}

func NewBookingService(repo BookingRepository, eventRepo EventRepository) *BookingService {
	return &BookingService{
		repo:      repo,
		eventRepo: eventRepo,
	}
}

// CreateBooking reserves tickets optimistically: the availability check here
// only rejects obviously impossible requests. Pending bookings hold no
// inventory; the capacity is enforced for real when the booking is confirmed.
func (s *BookingService) CreateBooking(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	event, err := s.eventRepo.FindByID(ctx, booking.EventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Booking{}, ErrEventNotFound
		}

		return domain.Booking{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if booking.Quantity <= 0 {
		return domain.Booking{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidStatus)
	}

	if booking.Quantity > event.AvailableTickets() {
		return domain.Booking{}, fmt.Errorf("%w: %d remaining", ErrCapacityExceeded, event.AvailableTickets())
	}

	booking.Status = domain.BookingStatusPending
	if booking.TotalAmount == 0 {
		booking.TotalAmount = event.TicketPrice * float64(booking.Quantity)
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uint) (domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return booking, nil
}

func (s *BookingService) GetAllBookings(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return bookings, nil
}

func (s *BookingService) GetBookingsByUserID(ctx context.Context, userID uint) ([]domain.Booking, error) {
	bookings, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return bookings, nil
}

// UpdateStatus drives the booking state machine. The inventory delta and the
// status write are committed as one transaction by the repository, so a
// failed capacity re-check leaves both the booking and the event untouched.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint, status domain.BookingStatus, actor domain.User) (domain.Booking, error) {
	if !status.IsValid() {
		return domain.Booking{}, ErrInvalidStatus
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return domain.Booking{}, ErrBookingNotFound
		}

		return domain.Booking{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanAccess(booking.UserID) {
		return domain.Booking{}, ErrAccessDenied
	}

	updated, err := s.repo.UpdateStatus(ctx, booking, status, booking.TicketDelta(status))
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			return domain.Booking{}, s.capacityError(ctx, booking.EventID)
		}

		return domain.Booking{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return domain.Booking{}, ErrBookingNotFound
		}

		return domain.Booking{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanAccess(booking.UserID) {
		return domain.Booking{}, ErrAccessDenied
	}

	fields := filterFields(actor.Role, bookingUpdatableFields, updates)
	if len(fields) == 0 {
		return booking, nil
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	return updated, nil
}

// DeleteBooking removes the booking; deleting a confirmed booking releases
// its tickets, same as a cancellation.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint, actor domain.User) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return ErrBookingNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanAccess(booking.UserID) {
		return ErrAccessDenied
	}

	releaseQty := 0
	if booking.Status == domain.BookingStatusConfirmed {
		releaseQty = booking.Quantity
	}

	if err = s.repo.Delete(ctx, booking, releaseQty); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *BookingService) capacityError(ctx context.Context, eventID uint) error {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return ErrCapacityExceeded
	}

	return fmt.Errorf("%w: %d remaining", ErrCapacityExceeded, event.AvailableTickets())
}
