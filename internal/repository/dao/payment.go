package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentExists   = errors.New("booking already has a payment")
)

type Payment struct {
	PaymentID     uint    `gorm:"primaryKey"`
	BookingID     uint    `gorm:"uniqueIndex;not null"`
	Amount        float64 `gorm:"type:decimal(10,2);not null"`
	PaymentStatus string  `gorm:"size:20;not null;default:Pending"`
	PaymentDate   time.Time
	PaymentMethod string `gorm:"size:50"`
	TransactionID string `gorm:"size:100"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Payment) TableName() string {
	return "payments"
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Payment{}, ErrPaymentExists
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByBookingID(ctx context.Context, bookingID uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&payment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByTransactionID(ctx context.Context, transactionID string) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindAll(ctx context.Context) ([]Payment, error) {
	var payments []Payment

	result := d.db.WithContext(ctx).Order("payment_id").Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

func (d *PaymentDAO) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (Payment, error) {
	result := d.db.WithContext(ctx).Model(&Payment{}).Where("payment_id = ?", id).Updates(fields)
	if result.Error != nil {
		return Payment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Payment{}, ErrPaymentNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *PaymentDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Payment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}
