package repository

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository/dao"
)

var ErrVenueNotFound = dao.ErrVenueNotFound

type VenueDAO interface {
	Insert(ctx context.Context, venue dao.Venue) (dao.Venue, error)
	FindByID(ctx context.Context, id uint) (dao.Venue, error)
	FindAll(ctx context.Context) ([]dao.Venue, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (dao.Venue, error)
	Delete(ctx context.Context, id uint) error
}

type VenueRepository struct {
	dao VenueDAO
}

func NewVenueRepository(dao VenueDAO) *VenueRepository {
	return &VenueRepository{
		dao: dao,
	}
}

func (r *VenueRepository) Create(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	created, err := r.dao.Insert(ctx, dao.Venue{
		Name:     venue.Name,
		Address:  venue.Address,
		Capacity: venue.Capacity,
		ImageURL: venue.ImageURL,
	})
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *VenueRepository) FindByID(ctx context.Context, id uint) (domain.Venue, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *VenueRepository) FindAll(ctx context.Context) ([]domain.Venue, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	venues := make([]domain.Venue, len(found))
	for i, v := range found {
		venues[i] = r.daoToDomain(v)
	}

	return venues, nil
}

func (r *VenueRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.Venue, error) {
	updated, err := r.dao.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.UpdateFields -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *VenueRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *VenueRepository) daoToDomain(v dao.Venue) domain.Venue {
	return domain.Venue{
		ID:        v.VenueID,
		Name:      v.Name,
		Address:   v.Address,
		Capacity:  v.Capacity,
		ImageURL:  v.ImageURL,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
