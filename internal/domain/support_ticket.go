package domain

import "time"

const (
	TicketStatusOpen       = "Open"
	TicketStatusInProgress = "In Progress"
	TicketStatusClosed     = "Closed"
)

type SupportTicket struct {
	ID          uint      `json:"ticket_id"`
	UserID      uint      `json:"user_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
