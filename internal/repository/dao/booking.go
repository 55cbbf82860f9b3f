package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type Booking struct {
	BookingID     uint    `gorm:"primaryKey"`
	UserID        uint    `gorm:"not null;index"`
	EventID       uint    `gorm:"not null;index"`
	Quantity      int     `gorm:"not null"`
	TotalAmount   float64 `gorm:"type:decimal(10,2);not null"`
	BookingStatus string  `gorm:"size:20;not null;default:Pending"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Booking) TableName() string {
	return "bookings"
}

type BookingDAO struct {
	db *gorm.DB
}

func NewBookingDAO(db *gorm.DB) *BookingDAO {
	return &BookingDAO{
		db: db,
	}
}

func (d *BookingDAO) Insert(ctx context.Context, booking Booking) (Booking, error) {
	result := d.db.WithContext(ctx).Create(&booking)
	if result.Error != nil {
		return Booking{}, result.Error
	}

	return booking, nil
}

func (d *BookingDAO) FindByID(ctx context.Context, id uint) (Booking, error) {
	var booking Booking

	result := d.db.WithContext(ctx).First(&booking, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Booking{}, ErrBookingNotFound
		}

		return Booking{}, result.Error
	}

	return booking, nil
}

func (d *BookingDAO) FindAll(ctx context.Context) ([]Booking, error) {
	var bookings []Booking

	result := d.db.WithContext(ctx).Order("booking_id").Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

func (d *BookingDAO) FindByUserID(ctx context.Context, userID uint) ([]Booking, error) {
	var bookings []Booking

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("booking_id").Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

// UpdateStatus writes the new status and applies the inventory delta in one
// transaction. A positive delta re-checks capacity against the current event
// row; if the conditional update matches nothing the whole transaction rolls
// back and the booking keeps its old status.
func (d *BookingDAO) UpdateStatus(ctx context.Context, booking Booking, status string, delta int) (Booking, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if delta > 0 {
			if err := commitTickets(tx, booking.EventID, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := releaseTickets(tx, booking.EventID, -delta); err != nil {
				return err
			}
		}

		result := tx.Model(&Booking{}).
			Where("booking_id = ?", booking.BookingID).
			Update("booking_status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBookingNotFound
		}

		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	return d.FindByID(ctx, booking.BookingID)
}

func (d *BookingDAO) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (Booking, error) {
	result := d.db.WithContext(ctx).Model(&Booking{}).Where("booking_id = ?", id).Updates(fields)
	if result.Error != nil {
		return Booking{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Booking{}, ErrBookingNotFound
	}

	return d.FindByID(ctx, id)
}

// Delete removes the booking row and, when the booking had committed tickets,
// releases them in the same transaction.
func (d *BookingDAO) Delete(ctx context.Context, booking Booking, releaseQty int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if releaseQty > 0 {
			if err := releaseTickets(tx, booking.EventID, releaseQty); err != nil {
				return err
			}
		}

		result := tx.Delete(&Booking{}, booking.BookingID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBookingNotFound
		}

		return nil
	})
}
