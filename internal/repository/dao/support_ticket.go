package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrTicketNotFound = errors.New("support ticket not found")

type SupportTicket struct {
	TicketID    uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;index"`
	Subject     string `gorm:"size:150;not null"`
	Description string `gorm:"not null"`
	Status      string `gorm:"size:20;not null;default:Open"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

type SupportTicketDAO struct {
	db *gorm.DB
}

func NewSupportTicketDAO(db *gorm.DB) *SupportTicketDAO {
	return &SupportTicketDAO{
		db: db,
	}
}

func (d *SupportTicketDAO) Insert(ctx context.Context, ticket SupportTicket) (SupportTicket, error) {
	result := d.db.WithContext(ctx).Create(&ticket)
	if result.Error != nil {
		return SupportTicket{}, result.Error
	}

	return ticket, nil
}

func (d *SupportTicketDAO) FindByID(ctx context.Context, id uint) (SupportTicket, error) {
	var ticket SupportTicket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return SupportTicket{}, ErrTicketNotFound
		}

		return SupportTicket{}, result.Error
	}

	return ticket, nil
}

func (d *SupportTicketDAO) FindAll(ctx context.Context) ([]SupportTicket, error) {
	var tickets []SupportTicket

	result := d.db.WithContext(ctx).Order("ticket_id").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *SupportTicketDAO) FindByUserID(ctx context.Context, userID uint) ([]SupportTicket, error) {
	var tickets []SupportTicket

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("ticket_id").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *SupportTicketDAO) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (SupportTicket, error) {
	result := d.db.WithContext(ctx).Model(&SupportTicket{}).Where("ticket_id = ?", id).Updates(fields)
	if result.Error != nil {
		return SupportTicket{}, result.Error
	}
	if result.RowsAffected == 0 {
		return SupportTicket{}, ErrTicketNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *SupportTicketDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&SupportTicket{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}

	return nil
}
