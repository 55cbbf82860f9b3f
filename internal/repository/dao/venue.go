package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrVenueNotFound = errors.New("venue not found")

type Venue struct {
	VenueID   uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Address   string `gorm:"size:255;not null"`
	Capacity  int    `gorm:"not null"`
	ImageURL  string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Venue) TableName() string {
	return "venues"
}

type VenueDAO struct {
	db *gorm.DB
}

func NewVenueDAO(db *gorm.DB) *VenueDAO {
	return &VenueDAO{
		db: db,
	}
}

func (d *VenueDAO) Insert(ctx context.Context, venue Venue) (Venue, error) {
	result := d.db.WithContext(ctx).Create(&venue)
	if result.Error != nil {
		return Venue{}, result.Error
	}

	return venue, nil
}

func (d *VenueDAO) FindByID(ctx context.Context, id uint) (Venue, error) {
	var venue Venue

	result := d.db.WithContext(ctx).First(&venue, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Venue{}, ErrVenueNotFound
		}

		return Venue{}, result.Error
	}

	return venue, nil
}

func (d *VenueDAO) FindAll(ctx context.Context) ([]Venue, error) {
	var venues []Venue

	result := d.db.WithContext(ctx).Order("venue_id").Find(&venues)
	if result.Error != nil {
		return nil, result.Error
	}

	return venues, nil
}

func (d *VenueDAO) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (Venue, error) {
	result := d.db.WithContext(ctx).Model(&Venue{}).Where("venue_id = ?", id).Updates(fields)
	if result.Error != nil {
		return Venue{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Venue{}, ErrVenueNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *VenueDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Venue{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVenueNotFound
	}

	return nil
}
