package service

import (
	"context"
	"fmt"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/repo"
)

// CatalogService serves the read-only vehicle catalog and label dictionaries.
type CatalogService struct {
	catalog repo.CatalogRepo
	dict    repo.DictionaryRepo
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog repo.CatalogRepo, dict repo.DictionaryRepo) *CatalogService {
	return &CatalogService{catalog: catalog, dict: dict}
}

// Brands returns every brand.
func (s *CatalogService) Brands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.catalog.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Brands: %w", err)
	}
	return brands, nil
}

// BrandItems returns every vehicle of one brand, for picking an item to
// place. Returns domain.ErrNotFound if the brand does not exist.
func (s *CatalogService) BrandItems(ctx context.Context, brandID string) ([]domain.Item, error) {
	if _, err := s.catalog.GetBrand(ctx, brandID); err != nil {
		return nil, fmt.Errorf("service.CatalogService.BrandItems: %w", err)
	}
	items, err := s.catalog.ListItemsByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.BrandItems: %w", err)
	}
	return items, nil
}

// Items returns one page of vehicles, optionally limited to a brand.
// Out-of-range page and limit values are clamped to defaults.
func (s *CatalogService) Items(ctx context.Context, brandID string, page, limit int) (domain.Page[domain.Item], domain.PaginationParams, error) {
	p := domain.NewPaginationParams(page, limit)
	items, err := s.catalog.ListItemsPaged(ctx, brandID, p)
	if err != nil {
		return domain.Page[domain.Item]{}, p, fmt.Errorf("service.CatalogService.Items: %w", err)
	}
	return items, p, nil
}

// FeatureLabels returns feature-tag code → label.
func (s *CatalogService) FeatureLabels(ctx context.Context) (map[string]string, error) {
	labels, err := s.dict.FeatureLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.FeatureLabels: %w", err)
	}
	return labels, nil
}

// VehicleTypeLabels returns vehicle-type code → label.
func (s *CatalogService) VehicleTypeLabels(ctx context.Context) (map[string]string, error) {
	labels, err := s.dict.VehicleTypeLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.VehicleTypeLabels: %w", err)
	}
	return labels, nil
}
