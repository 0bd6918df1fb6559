// Package repo contains all storage access for the garage inventory.
// Each collaborator has an interface and one or more implementations:
// garages live in Postgres or Redis, the vehicle catalog and label
// dictionaries in a read-only SQLite file.
// No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GarageRepo is the persistence collaborator for garages.
// The service layer depends on this interface, not a concrete store.
type GarageRepo interface {
	// List returns every garage in display order.
	List(ctx context.Context) ([]domain.Garage, error)

	// Create inserts a garage with draft.Capacity empty slots and returns it
	// with its store-assigned ID, display order and timestamps.
	Create(ctx context.Context, draft domain.GarageDraft) (domain.Garage, error)

	// Save overwrites name, remarks, slots and order of an existing garage.
	// Capacity is immutable. Returns domain.ErrNotFound if the ID is unknown.
	Save(ctx context.Context, g domain.Garage) (domain.Garage, error)

	// Delete removes a garage. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgGarageRepo is the Postgres implementation of GarageRepo.
// Slots are stored as a JSONB array, one object per slot; {} is empty.
type pgGarageRepo struct {
	db db
}

// NewGarageRepo constructs a Postgres GarageRepo backed by the provided db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewGarageRepo(db db) GarageRepo {
	return &pgGarageRepo{db: db}
}

const garageColumns = `id, name, capacity, remarks, slots, display_order, created_at, updated_at`

// List returns all garages ordered by display_order, then creation time.
func (r *pgGarageRepo) List(ctx context.Context) ([]domain.Garage, error) {
	const q = `SELECT ` + garageColumns + ` FROM garages ORDER BY display_order, created_at`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.GarageRepo.List: %w", err)
	}
	defer rows.Close()

	var garages []domain.Garage
	for rows.Next() {
		g, err := scanGarage(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.GarageRepo.List: scan: %w", err)
		}
		garages = append(garages, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.GarageRepo.List: rows: %w", err)
	}
	return garages, nil
}

// Create inserts a garage at the end of the display order.
func (r *pgGarageRepo) Create(ctx context.Context, draft domain.GarageDraft) (domain.Garage, error) {
	const q = `
		INSERT INTO garages (name, capacity, remarks, slots, display_order)
		VALUES (@name, @capacity, @remarks, @slots,
		        (SELECT COALESCE(MAX(display_order), 0) + 1 FROM garages))
		RETURNING ` + garageColumns

	slots, err := json.Marshal(domain.NewSlotArray(draft.Capacity))
	if err != nil {
		return domain.Garage{}, fmt.Errorf("repo.GarageRepo.Create: encode slots: %w", err)
	}

	args := pgx.NamedArgs{
		"name":     draft.Name,
		"capacity": draft.Capacity,
		"remarks":  draft.Remarks,
		"slots":    slots,
	}

	result, err := scanGarage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Garage{}, fmt.Errorf("repo.GarageRepo.Create: %w", err)
	}
	return result, nil
}

// Save overwrites the mutable fields of a garage.
// The slots_match_capacity constraint rejects a slot array of the wrong length.
func (r *pgGarageRepo) Save(ctx context.Context, g domain.Garage) (domain.Garage, error) {
	const q = `
		UPDATE garages
		SET name          = @name,
		    remarks       = @remarks,
		    slots         = @slots,
		    display_order = @display_order,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + garageColumns

	slots, err := json.Marshal(g.Slots)
	if err != nil {
		return domain.Garage{}, fmt.Errorf("repo.GarageRepo.Save: encode slots: %w", err)
	}

	args := pgx.NamedArgs{
		"id":            g.ID,
		"name":          g.Name,
		"remarks":       g.Remarks,
		"slots":         slots,
		"display_order": g.Order,
	}

	result, err := scanGarage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Garage{}, fmt.Errorf("repo.GarageRepo.Save: %w", err)
	}
	return result, nil
}

// Delete removes a garage by primary key.
func (r *pgGarageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM garages WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.GarageRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.GarageRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanGarage to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanGarage maps a single database row into a domain.Garage, decoding the
// JSONB slot array.
func scanGarage(s scanner) (domain.Garage, error) {
	var (
		g     domain.Garage
		id    pgtype.UUID
		slots []byte
	)

	err := s.Scan(&id, &g.Name, &g.Capacity, &g.Remarks, &slots, &g.Order, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Garage{}, domain.ErrNotFound
		}
		return domain.Garage{}, err
	}

	g.ID = uuid.UUID(id.Bytes)
	if err := json.Unmarshal(slots, &g.Slots); err != nil {
		return domain.Garage{}, fmt.Errorf("decode slots: %w", err)
	}
	return g, nil
}
