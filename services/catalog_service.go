package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/photolab/photolab-api/models"
)

// CatalogService owns the set of purchasable service definitions.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a CatalogService on the given store handle.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateServiceInput carries the fields for a new catalog entry.
type CreateServiceInput struct {
	Name           string
	Description    string
	Price          float64
	ProcessingTime *int
	Category       string
}

// UpdateServiceInput carries optional field updates; nil fields are untouched.
type UpdateServiceInput struct {
	Name           *string
	Description    *string
	Price          *float64
	ProcessingTime *int
	Category       *string
	IsActive       *bool
}

// Create adds a new catalog entry.
func (s *CatalogService) Create(in CreateServiceInput) (*models.Service, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if in.ProcessingTime != nil && *in.ProcessingTime <= 0 {
		return nil, fmt.Errorf("%w: processing time must be positive", ErrInvalidInput)
	}

	service := models.Service{
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		ProcessingTime: in.ProcessingTime,
		IsActive:       true,
		Category:       in.Category,
	}
	if service.Category == "" {
		service.Category = "printing"
	}

	if err := s.db.Create(&service).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	return &service, nil
}

// Update edits a catalog entry; the active flag can be toggled here. There is
// no delete operation, entries are only deactivated.
func (s *CatalogService) Update(id uint, in UpdateServiceInput) (*models.Service, error) {
	var service models.Service
	if err := s.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	if in.Price != nil && *in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if in.ProcessingTime != nil && *in.ProcessingTime <= 0 {
		return nil, fmt.Errorf("%w: processing time must be positive", ErrInvalidInput)
	}

	if in.Name != nil {
		service.Name = *in.Name
	}
	if in.Description != nil {
		service.Description = *in.Description
	}
	if in.Price != nil {
		service.Price = *in.Price
	}
	if in.ProcessingTime != nil {
		service.ProcessingTime = in.ProcessingTime
	}
	if in.Category != nil {
		service.Category = *in.Category
	}
	if in.IsActive != nil {
		service.IsActive = *in.IsActive
	}

	if err := s.db.Save(&service).Error; err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	return &service, nil
}

// List returns catalog entries, optionally restricted to active ones.
func (s *CatalogService) List(activeOnly bool) ([]models.Service, error) {
	query := s.db.Order("id")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var entries []models.Service
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return entries, nil
}
