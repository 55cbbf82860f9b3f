package domain

import "time"

// TicketMessage is one entry in a support ticket's conversation thread.
type TicketMessage struct {
	ID        uint      `json:"message_id"`
	TicketID  uint      `json:"ticket_id"`
	SenderID  uint      `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
