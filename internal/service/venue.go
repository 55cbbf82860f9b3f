package service

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

var ErrVenueNotFound = repository.ErrVenueNotFound

type VenueRepository interface {
	Create(ctx context.Context, venue domain.Venue) (domain.Venue, error)
	FindByID(ctx context.Context, id uint) (domain.Venue, error)
	FindAll(ctx context.Context) ([]domain.Venue, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.Venue, error)
	Delete(ctx context.Context, id uint) error
}

type VenueService struct {
	repo VenueRepository
}

func NewVenueService(repo VenueRepository) *VenueService {
	return &VenueService{
		repo: repo,
	}
}

func (s *VenueService) CreateVenue(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	created, err := s.repo.Create(ctx, venue)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id uint) (domain.Venue, error) {
	venue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return venue, nil
}

func (s *VenueService) GetAllVenues(ctx context.Context) ([]domain.Venue, error) {
	venues, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return venues, nil
}

func (s *VenueService) UpdateVenue(ctx context.Context, id uint, fields map[string]interface{}) (domain.Venue, error) {
	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	return updated, nil
}

func (s *VenueService) DeleteVenue(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
