package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrCapacityExceeded = errors.New("not enough tickets available")
)

type Event struct {
	EventID      uint   `gorm:"primaryKey"`
	Title        string `gorm:"size:150;not null"`
	Description  string
	VenueID      uint      `gorm:"not null;index"`
	Category     string    `gorm:"size:50;not null"`
	Date         time.Time `gorm:"not null"`
	Time         string    `gorm:"size:20;not null"`
	TicketPrice  float64   `gorm:"type:decimal(10,2);not null"`
	TicketsTotal int       `gorm:"not null"`
	TicketsSold  int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Event) TableName() string {
	return "events"
}

// commitTickets reserves qty tickets inside the caller's transaction. The
// capacity check and the increment are one conditional UPDATE so that two
// concurrent confirmations cannot both pass a stale availability read.
func commitTickets(tx *gorm.DB, eventID uint, qty int) error {
	result := tx.Model(&Event{}).
		Where("event_id = ? AND tickets_sold + ? <= tickets_total", eventID, qty).
		Update("tickets_sold", gorm.Expr("tickets_sold + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&Event{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrEventNotFound
		}

		return ErrCapacityExceeded
	}

	return nil
}

// releaseTickets returns qty tickets to the pool, floored at zero sold.
func releaseTickets(tx *gorm.DB, eventID uint, qty int) error {
	result := tx.Model(&Event{}).
		Where("event_id = ?", eventID).
		Update("tickets_sold", gorm.Expr("GREATEST(tickets_sold - ?, 0)", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("event_id").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{}).Where("event_id = ?", id).Updates(fields)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *EventDAO) CommitTickets(ctx context.Context, id uint, qty int) error {
	return commitTickets(d.db.WithContext(ctx), id, qty)
}

func (d *EventDAO) ReleaseTickets(ctx context.Context, id uint, qty int) error {
	return releaseTickets(d.db.WithContext(ctx), id, qty)
}

func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
