package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// sqlDB is the subset of *sql.DB and *sql.Tx used by the SQLite repos.
type sqlDB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CatalogRepo is the read-only vehicle catalog collaborator.
type CatalogRepo interface {
	// ListBrands returns every brand ordered by ID.
	ListBrands(ctx context.Context) ([]domain.Brand, error)

	// GetBrand returns one brand. Returns domain.ErrNotFound if absent.
	GetBrand(ctx context.Context, id string) (domain.Brand, error)

	// ListItemsByBrand returns the brand's vehicles ordered by ID.
	ListItemsByBrand(ctx context.Context, brandID string) ([]domain.Item, error)

	// ListAllItems returns every vehicle ordered by ID.
	ListAllItems(ctx context.Context) ([]domain.Item, error)

	// ListItemsPaged returns one page of vehicles and the total count.
	// An empty brandID matches all brands.
	ListItemsPaged(ctx context.Context, brandID string, p domain.PaginationParams) (domain.Page[domain.Item], error)

	// GetItem returns one vehicle. Returns domain.ErrNotFound if absent.
	GetItem(ctx context.Context, id string) (domain.Item, error)
}

// sqliteCatalogRepo reads the catalog tables of the SQLite catalog file.
type sqliteCatalogRepo struct {
	db sqlDB
}

// NewCatalogRepo constructs a CatalogRepo over a SQLite handle opened with
// the modernc "sqlite" driver.
func NewCatalogRepo(db sqlDB) CatalogRepo {
	return &sqliteCatalogRepo{db: db}
}

const itemColumns = `id, brand_id, vehicle_name, vehicle_name_en, vehicle_type, feature, price, remarks`

func (r *sqliteCatalogRepo) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	const q = `SELECT id, brand_name, brand_name_en FROM vehicle_brand ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.ListBrands: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.NameEn); err != nil {
			return nil, fmt.Errorf("repo.CatalogRepo.ListBrands: scan: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.ListBrands: rows: %w", err)
	}
	return brands, nil
}

func (r *sqliteCatalogRepo) GetBrand(ctx context.Context, id string) (domain.Brand, error) {
	const q = `SELECT id, brand_name, brand_name_en FROM vehicle_brand WHERE id = ?`

	var b domain.Brand
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Name, &b.NameEn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Brand{}, fmt.Errorf("repo.CatalogRepo.GetBrand: %w", domain.ErrNotFound)
		}
		return domain.Brand{}, fmt.Errorf("repo.CatalogRepo.GetBrand: %w", err)
	}
	return b, nil
}

func (r *sqliteCatalogRepo) ListItemsByBrand(ctx context.Context, brandID string) ([]domain.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM vehicle_overview WHERE brand_id = ? ORDER BY id`

	items, err := r.queryItems(ctx, q, brandID)
	if err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.ListItemsByBrand: %w", err)
	}
	return items, nil
}

func (r *sqliteCatalogRepo) ListAllItems(ctx context.Context) ([]domain.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM vehicle_overview ORDER BY id`

	items, err := r.queryItems(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CatalogRepo.ListAllItems: %w", err)
	}
	return items, nil
}

func (r *sqliteCatalogRepo) ListItemsPaged(ctx context.Context, brandID string, p domain.PaginationParams) (domain.Page[domain.Item], error) {
	const where = ` FROM vehicle_overview WHERE (? = '' OR brand_id = ?)`

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+where, brandID, brandID).Scan(&total); err != nil {
		return domain.Page[domain.Item]{}, fmt.Errorf("repo.CatalogRepo.ListItemsPaged: count: %w", err)
	}

	q := `SELECT ` + itemColumns + where + ` ORDER BY id LIMIT ? OFFSET ?`
	items, err := r.queryItems(ctx, q, brandID, brandID, p.Limit, p.Offset())
	if err != nil {
		return domain.Page[domain.Item]{}, fmt.Errorf("repo.CatalogRepo.ListItemsPaged: %w", err)
	}
	return domain.Page[domain.Item]{Items: items, Total: total}, nil
}

func (r *sqliteCatalogRepo) GetItem(ctx context.Context, id string) (domain.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM vehicle_overview WHERE id = ?`

	item, err := scanItem(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, fmt.Errorf("repo.CatalogRepo.GetItem: %w", domain.ErrNotFound)
		}
		return domain.Item{}, fmt.Errorf("repo.CatalogRepo.GetItem: %w", err)
	}
	return item, nil
}

func (r *sqliteCatalogRepo) queryItems(ctx context.Context, q string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

// scanItem maps a vehicle_overview row. Nullable text columns read as "" and
// the comma-separated feature column becomes ordered tag codes.
func scanItem(s scanner) (domain.Item, error) {
	var (
		it                                  domain.Item
		name, nameEn, vType, feature, notes sql.NullString
	)
	err := s.Scan(&it.ID, &it.BrandID, &name, &nameEn, &vType, &feature, &it.Price, &notes)
	if err != nil {
		return domain.Item{}, err
	}
	it.Name = strings.TrimSpace(name.String)
	it.NameEn = strings.TrimSpace(nameEn.String)
	it.Type = strings.TrimSpace(vType.String)
	it.FeatureTags = domain.ParseFeatureTags(feature.String)
	it.Remarks = notes.String
	return it, nil
}
