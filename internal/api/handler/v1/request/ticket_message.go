package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateTicketMessageRequest struct {
	TicketID uint   `json:"ticket_id"`
	Content  string `json:"content"`
}

func (req *CreateTicketMessageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketID, validation.Required),
		validation.Field(&req.Content, validation.Required, validation.Length(1, 2000)),
	)
}
