package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type STKPushRequest struct {
	PaymentID   uint    `json:"payment_id"`
	PhoneNumber string  `json:"phone_number"`
	Amount      float64 `json:"amount"`
}

// Validate only checks presence; the gateway client normalizes the phone
// number and rejects anything that cannot become a 2547XXXXXXXX subscriber.
func (req *STKPushRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PaymentID, validation.Required),
		validation.Field(&req.PhoneNumber, validation.Required),
		validation.Field(&req.Amount, validation.Required, validation.Min(1.0)),
	)
}
