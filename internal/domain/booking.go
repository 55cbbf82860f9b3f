package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID          uint          `json:"booking_id"`
	UserID      uint          `json:"user_id"`
	EventID     uint          `json:"event_id"`
	Quantity    int           `json:"quantity"`
	TotalAmount float64       `json:"total_amount"`
	Status      BookingStatus `json:"booking_status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TicketDelta is the inventory side effect of moving a booking from its
// current status to the requested one. Only two transitions move tickets:
// Pending->Confirmed commits the quantity, Confirmed->Cancelled releases it.
// Everything else, including a same-status write, is a zero-delta update.
func (b Booking) TicketDelta(to BookingStatus) int {
	switch {
	case b.Status == BookingStatusPending && to == BookingStatusConfirmed:
		return b.Quantity
	case b.Status == BookingStatusConfirmed && to == BookingStatusCancelled:
		return -b.Quantity
	}
	return 0
}
