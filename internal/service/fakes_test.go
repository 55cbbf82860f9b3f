package service

import (
	"context"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

// fakeEventRepo keeps events in memory and mirrors the dao's conditional
// commit semantics so the booking state machine can be exercised end to end.
type fakeEventRepo struct {
	events    map[uint]domain.Event
	nextID    uint
	gotFields map[string]interface{}
}

func newFakeEventRepo(events ...domain.Event) *fakeEventRepo {
	r := &fakeEventRepo{
		events: make(map[uint]domain.Event),
		nextID: 1,
	}
	for _, e := range events {
		if e.ID >= r.nextID {
			r.nextID = e.ID + 1
		}
		r.events[e.ID] = e
	}

	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = r.nextID
	r.nextID++
	r.events[event.ID] = event

	return event, nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (r *fakeEventRepo) FindAll(_ context.Context) ([]domain.Event, error) {
	events := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e)
	}

	return events, nil
}

func (r *fakeEventRepo) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) (domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	r.gotFields = fields
	if title, ok := fields["title"].(string); ok {
		event.Title = title
	}
	r.events[id] = event

	return event, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(r.events, id)

	return nil
}

func (r *fakeEventRepo) apply(eventID uint, delta int) error {
	event, ok := r.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}

	if delta > 0 && event.TicketsSold+delta > event.TicketsTotal {
		return repository.ErrCapacityExceeded
	}

	event.TicketsSold += delta
	if event.TicketsSold < 0 {
		event.TicketsSold = 0
	}
	r.events[eventID] = event

	return nil
}

type fakeBookingRepo struct {
	bookings map[uint]domain.Booking
	events   *fakeEventRepo
	nextID   uint
}

func newFakeBookingRepo(events *fakeEventRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uint]domain.Booking),
		events:   events,
		nextID:   1,
	}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking domain.Booking) (domain.Booking, error) {
	booking.ID = r.nextID
	r.nextID++
	r.bookings[booking.ID] = booking

	return booking, nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uint) (domain.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return domain.Booking{}, repository.ErrBookingNotFound
	}

	return booking, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		bookings = append(bookings, b)
	}

	return bookings, nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uint) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			bookings = append(bookings, b)
		}
	}

	return bookings, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, booking domain.Booking, status domain.BookingStatus, delta int) (domain.Booking, error) {
	if delta != 0 {
		if err := r.events.apply(booking.EventID, delta); err != nil {
			return domain.Booking{}, err
		}
	}

	booking.Status = status
	r.bookings[booking.ID] = booking

	return booking, nil
}

func (r *fakeBookingRepo) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) (domain.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return domain.Booking{}, repository.ErrBookingNotFound
	}
	if amount, ok := fields["total_amount"].(float64); ok {
		booking.TotalAmount = amount
	}
	r.bookings[id] = booking

	return booking, nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, booking domain.Booking, releaseQty int) error {
	if _, ok := r.bookings[booking.ID]; !ok {
		return repository.ErrBookingNotFound
	}

	if releaseQty > 0 {
		if err := r.events.apply(booking.EventID, -releaseQty); err != nil {
			return err
		}
	}
	delete(r.bookings, booking.ID)

	return nil
}

type fakePaymentRepo struct {
	payments  map[uint]domain.Payment
	byBooking map[uint]uint
	nextID    uint
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments:  make(map[uint]domain.Payment),
		byBooking: make(map[uint]uint),
		nextID:    1,
	}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	if _, ok := r.byBooking[payment.BookingID]; ok {
		return domain.Payment{}, repository.ErrPaymentExists
	}

	payment.ID = r.nextID
	r.nextID++
	r.payments[payment.ID] = payment
	r.byBooking[payment.BookingID] = payment.ID

	return payment, nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uint) (domain.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return domain.Payment{}, repository.ErrPaymentNotFound
	}

	return payment, nil
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uint) (domain.Payment, error) {
	id, ok := r.byBooking[bookingID]
	if !ok {
		return domain.Payment{}, repository.ErrPaymentNotFound
	}

	return r.payments[id], nil
}

func (r *fakePaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (domain.Payment, error) {
	for _, p := range r.payments {
		if p.TransactionID == transactionID {
			return p, nil
		}
	}

	return domain.Payment{}, repository.ErrPaymentNotFound
}

func (r *fakePaymentRepo) FindAll(_ context.Context) ([]domain.Payment, error) {
	payments := make([]domain.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		payments = append(payments, p)
	}

	return payments, nil
}

func (r *fakePaymentRepo) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) (domain.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return domain.Payment{}, repository.ErrPaymentNotFound
	}
	if status, ok := fields["payment_status"].(string); ok {
		payment.Status = domain.PaymentStatus(status)
	}
	if method, ok := fields["payment_method"].(string); ok {
		payment.PaymentMethod = method
	}
	if txnID, ok := fields["transaction_id"].(string); ok {
		payment.TransactionID = txnID
	}
	r.payments[id] = payment

	return payment, nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id uint) error {
	payment, ok := r.payments[id]
	if !ok {
		return repository.ErrPaymentNotFound
	}
	delete(r.byBooking, payment.BookingID)
	delete(r.payments, id)

	return nil
}
