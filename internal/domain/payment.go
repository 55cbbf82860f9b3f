package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusProcessing PaymentStatus = "Processing"
	PaymentStatusCompleted  PaymentStatus = "Completed"
	PaymentStatusFailed     PaymentStatus = "Failed"
)

// Payment is the single payment record allowed per booking. TransactionID
// carries the gateway's tracking handle while the payment is Processing and
// is overwritten with the receipt number once the callback confirms it.
type Payment struct {
	ID            uint          `json:"payment_id"`
	BookingID     uint          `json:"booking_id"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"payment_status"`
	PaymentDate   time.Time     `json:"payment_date"`
	PaymentMethod string        `json:"payment_method"`
	TransactionID string        `json:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
