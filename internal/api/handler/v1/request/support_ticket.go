package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateSupportTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

func (req *CreateSupportTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 2000)),
	)
}
