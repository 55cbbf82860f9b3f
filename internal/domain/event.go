package domain

import "time"

type Event struct {
	ID           uint      `json:"event_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VenueID      uint      `json:"venue_id"`
	Category     string    `json:"category"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	TicketPrice  float64   `json:"ticket_price"`
	TicketsTotal int       `json:"tickets_total"`
	TicketsSold  int       `json:"tickets_sold"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AvailableTickets is the uncommitted inventory. Pending bookings do not
// hold tickets; only confirmation moves TicketsSold.
func (e Event) AvailableTickets() int {
	return e.TicketsTotal - e.TicketsSold
}
