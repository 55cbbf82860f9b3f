package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateBookingRequest struct {
	EventID     uint    `json:"event_id"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"total_amount"`
}

func (req *CreateBookingRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&req.TotalAmount, validation.Min(0.0)),
	)
}

type UpdateBookingStatusRequest struct {
	Status string `json:"booking_status"`
}

func (req *UpdateBookingStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("Pending", "Confirmed", "Cancelled")),
	)
}
