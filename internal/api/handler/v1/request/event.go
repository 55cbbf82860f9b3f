package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	VenueID      uint    `json:"venue_id"`
	Category     string  `json:"category"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	TicketPrice  float64 `json:"ticket_price"`
	TicketsTotal int     `json:"tickets_total"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.VenueID, validation.Required),
		validation.Field(&req.Category, validation.Length(0, 50)),
		validation.Field(&req.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&req.TicketPrice, validation.Min(0.0)),
		validation.Field(&req.TicketsTotal, validation.Required, validation.Min(1)),
	)
}
