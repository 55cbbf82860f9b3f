package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreatePaymentRequest struct {
	BookingID     uint    `json:"booking_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

func (req *CreatePaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BookingID, validation.Required),
		validation.Field(&req.Amount, validation.Required, validation.Min(0.01)),
		validation.Field(&req.PaymentMethod, validation.Length(0, 50)),
	)
}
