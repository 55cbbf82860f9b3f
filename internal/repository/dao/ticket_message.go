package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("ticket message not found")

type TicketMessage struct {
	MessageID uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	SenderID  uint   `gorm:"not null"`
	Content   string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TicketMessage) TableName() string {
	return "ticket_messages"
}

type TicketMessageDAO struct {
	db *gorm.DB
}

func NewTicketMessageDAO(db *gorm.DB) *TicketMessageDAO {
	return &TicketMessageDAO{
		db: db,
	}
}

func (d *TicketMessageDAO) Insert(ctx context.Context, message TicketMessage) (TicketMessage, error) {
	result := d.db.WithContext(ctx).Create(&message)
	if result.Error != nil {
		return TicketMessage{}, result.Error
	}

	return message, nil
}

func (d *TicketMessageDAO) FindByID(ctx context.Context, id uint) (TicketMessage, error) {
	var message TicketMessage

	result := d.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TicketMessage{}, ErrMessageNotFound
		}

		return TicketMessage{}, result.Error
	}

	return message, nil
}

// FindByTicketID returns a ticket's thread in posting order.
func (d *TicketMessageDAO) FindByTicketID(ctx context.Context, ticketID uint) ([]TicketMessage, error) {
	var messages []TicketMessage

	result := d.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Order("created_at").Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}

	return messages, nil
}

func (d *TicketMessageDAO) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (TicketMessage, error) {
	result := d.db.WithContext(ctx).Model(&TicketMessage{}).Where("message_id = ?", id).Updates(fields)
	if result.Error != nil {
		return TicketMessage{}, result.Error
	}
	if result.RowsAffected == 0 {
		return TicketMessage{}, ErrMessageNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *TicketMessageDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&TicketMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}
