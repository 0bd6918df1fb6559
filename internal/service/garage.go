// Package service contains the application logic around the placement core.
// Services validate inputs, hold the cached inventory store, serialise
// commits and persist them through repo interfaces.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/inventory"
	"github.com/pkordes/garage-inventory/internal/metrics"
	"github.com/pkordes/garage-inventory/internal/repo"
)

// GarageService owns the in-memory inventory store. Every change is planned
// against the current store, persisted garage by garage, and only then
// published. A failed save rolls the store back.
type GarageService struct {
	mu      sync.Mutex
	store   inventory.Store
	repo    repo.GarageRepo
	catalog repo.CatalogRepo
	metrics *metrics.Transfers
	log     *slog.Logger
}

// NewGarageService constructs a GarageService. Call Load before serving.
// m may be nil; log defaults to slog.Default().
func NewGarageService(r repo.GarageRepo, catalog repo.CatalogRepo, m *metrics.Transfers, log *slog.Logger) *GarageService {
	if log == nil {
		log = slog.Default()
	}
	return &GarageService{
		store:   inventory.NewStore(),
		repo:    r,
		catalog: catalog,
		metrics: m,
		log:     log,
	}
}

// DeleteResult reports the outcome of one garage in a bulk delete.
// Err is nil on success.
type DeleteResult struct {
	ID  uuid.UUID
	Err error
}

// Load replaces the cached store with the persisted garages.
func (s *GarageService) Load(ctx context.Context) error {
	garages, err := s.repo.List(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = inventory.NewStore(garages...)
	s.log.Info("garages loaded", "count", len(garages))
	return nil
}

// Store returns the current store. Stores are immutable, so the caller may
// keep it without further locking.
func (s *GarageService) Store() inventory.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// List returns all garages in display order.
func (s *GarageService) List(ctx context.Context) ([]domain.Garage, error) {
	return s.Store().Garages(), nil
}

// Get returns one garage.
func (s *GarageService) Get(ctx context.Context, id uuid.UUID) (domain.Garage, error) {
	g, ok := s.Store().Get(id)
	if !ok {
		return domain.Garage{}, fmt.Errorf("service.GarageService.Get: %w", domain.ErrGarageNotFound)
	}
	return g, nil
}

// Create validates the draft, persists a garage with empty slots and adds it
// to the end of the store.
func (s *GarageService) Create(ctx context.Context, draft domain.GarageDraft) (domain.Garage, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Remarks = strings.TrimSpace(draft.Remarks)
	if draft.Name == "" {
		return domain.Garage{}, fmt.Errorf("service.GarageService.Create: %w: name is required", domain.ErrValidation)
	}
	if draft.Capacity < domain.MinCapacity || draft.Capacity > domain.MaxCapacity {
		return domain.Garage{}, fmt.Errorf("service.GarageService.Create: %w: capacity must be between %d and %d",
			domain.ErrValidation, domain.MinCapacity, domain.MaxCapacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.metrics.PersistenceFailure("create")
		return domain.Garage{}, &domain.PersistenceError{Op: "create", Err: err}
	}
	s.store = s.store.With(g)
	return g.Clone(), nil
}

// UpdateRemarks sets the garage's own remarks.
func (s *GarageService) UpdateRemarks(ctx context.Context, id uuid.UUID, remarks string) (domain.Garage, error) {
	saved, err := s.apply(ctx, "update_remarks", func(store inventory.Store) (inventory.Store, []uuid.UUID, error) {
		g, ok := store.Get(id)
		if !ok {
			return store, nil, domain.ErrGarageNotFound
		}
		g.Remarks = strings.TrimSpace(remarks)
		return store.With(g), []uuid.UUID{id}, nil
	})
	if err != nil {
		return domain.Garage{}, fmt.Errorf("service.GarageService.UpdateRemarks: %w", err)
	}
	return saved[0], nil
}

// SetSlotRemarks edits the remarks of an occupied slot. Blank remarks keep
// the slot occupied; only ClearSlot empties it. Editing an empty slot fails
// with domain.ErrTargetEmpty.
func (s *GarageService) SetSlotRemarks(ctx context.Context, id uuid.UUID, index int, remarks string) (domain.Garage, error) {
	saved, err := s.apply(ctx, "slot_remarks", func(store inventory.Store) (inventory.Store, []uuid.UUID, error) {
		class, err := inventory.ClassifyTarget(store, id, index)
		if err != nil {
			return store, nil, err
		}
		if !class.Occupied {
			return store, nil, domain.ErrTargetEmpty
		}
		snap := class.Current.WithRemarks(strings.TrimSpace(remarks))
		next, err := inventory.PlanReplace(store, id, index, snap)
		if err != nil {
			return store, nil, err
		}
		return next, []uuid.UUID{id}, nil
	})
	if err != nil {
		return domain.Garage{}, fmt.Errorf("service.GarageService.SetSlotRemarks: %w", err)
	}
	return saved[0], nil
}

// ClearSlot empties an occupied slot. Clearing an empty slot fails with
// domain.ErrTargetEmpty.
func (s *GarageService) ClearSlot(ctx context.Context, id uuid.UUID, index int) (domain.Garage, error) {
	saved, err := s.apply(ctx, "clear_slot", func(store inventory.Store) (inventory.Store, []uuid.UUID, error) {
		class, err := inventory.ClassifyTarget(store, id, index)
		if err != nil {
			return store, nil, err
		}
		if !class.Occupied {
			return store, nil, domain.ErrTargetEmpty
		}
		next, err := inventory.PlanReplace(store, id, index, domain.Snapshot{})
		if err != nil {
			return store, nil, err
		}
		return next, []uuid.UUID{id}, nil
	})
	if err != nil {
		return domain.Garage{}, fmt.Errorf("service.GarageService.ClearSlot: %w", err)
	}
	return saved[0], nil
}

// Delete removes a garage and everything placed in it. A garage the store
// no longer has is treated as already deleted.
func (s *GarageService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.delete(ctx, id); err != nil {
		return fmt.Errorf("service.GarageService.Delete: %w", err)
	}
	return nil
}

// DeleteMany deletes each garage independently and reports per-ID results
// in input order. One failure does not stop the others.
func (s *GarageService) DeleteMany(ctx context.Context, ids []uuid.UUID) []DeleteResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]DeleteResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, DeleteResult{ID: id, Err: s.delete(ctx, id)})
	}
	return results
}

// delete must be called with s.mu held.
func (s *GarageService) delete(ctx context.Context, id uuid.UUID) error {
	next, err := s.store.Without(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.metrics.PersistenceFailure("delete")
		return &domain.PersistenceError{Op: "delete", GarageID: id, Err: err}
	}
	s.store = next
	return nil
}

// SyncFeatures refreshes the feature tags of every placed vehicle from the
// catalog and persists the garages that changed. It returns their IDs.
func (s *GarageService) SyncFeatures(ctx context.Context) ([]uuid.UUID, error) {
	items, err := s.catalog.ListAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.GarageService.SyncFeatures: %w", err)
	}
	tags := make(map[string][]string, len(items))
	for _, it := range items {
		tags[it.ID] = it.FeatureTags
	}

	saved, err := s.apply(ctx, "sync_features", func(store inventory.Store) (inventory.Store, []uuid.UUID, error) {
		next, changed := inventory.SyncFeatures(store, tags)
		return next, changed, nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.GarageService.SyncFeatures: %w", err)
	}

	ids := make([]uuid.UUID, len(saved))
	for i, g := range saved {
		ids[i] = g.ID
	}
	s.log.Info("feature tags synced", "garages_changed", len(ids), "catalog_items", len(items))
	return ids, nil
}

// Export returns one row per slot across all garages, in display order.
func (s *GarageService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	garages := s.Store().Garages()

	rows := []domain.ExportRow{}
	for _, g := range garages {
		for i, snap := range g.Slots {
			row := domain.ExportRow{
				GarageID:      g.ID.String(),
				GarageName:    g.Name,
				GarageRemarks: g.Remarks,
				SlotIndex:     i,
				Occupied:      !snap.IsEmpty(),
				ItemID:        snap.ItemID,
				VehicleName:   snap.Name,
				BrandName:     snap.BrandName,
				VehicleType:   snap.VehicleType,
				FeatureTags:   snap.FeatureTags,
				Remarks:       snap.Remarks,
			}
			if snap.Price != nil {
				row.Price = snap.Price.String()
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// planFunc computes the next store from the current one and names the
// garages it touched. Returning no touched IDs means nothing to persist.
type planFunc func(store inventory.Store) (inventory.Store, []uuid.UUID, error)

// apply runs plan against the current store under the lock and commits the
// result. It returns the saved versions of the touched garages.
func (s *GarageService) apply(ctx context.Context, op string, plan planFunc) ([]domain.Garage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.store
	after, touched, err := plan(before)
	if err != nil {
		return nil, err
	}
	if len(touched) == 0 {
		return nil, nil
	}
	return s.commit(ctx, op, before, after, touched)
}

// commit saves every touched garage from after. On the first failure the
// garages already saved are re-saved with their previous version, the store
// stays at before and a *domain.PersistenceError is returned.
// Must be called with s.mu held.
func (s *GarageService) commit(ctx context.Context, op string, before, after inventory.Store, touched []uuid.UUID) ([]domain.Garage, error) {
	saved := make([]domain.Garage, 0, len(touched))
	for _, id := range touched {
		g, ok := after.Get(id)
		if !ok {
			return nil, fmt.Errorf("commit %s: %w", op, domain.ErrGarageNotFound)
		}
		out, err := s.repo.Save(ctx, g)
		if err != nil {
			s.metrics.PersistenceFailure(op)
			s.log.Error("garage save failed, rolling back",
				"op", op, "garage_id", id, "already_saved", len(saved), "error", err)
			s.compensate(ctx, op, before, saved)
			return nil, &domain.PersistenceError{Op: op, GarageID: id, Err: err}
		}
		saved = append(saved, out)
	}
	s.store = after.With(saved...)
	return saved, nil
}

// compensate restores the pre-commit version of garages saved before a
// failure. It is best effort: failures are logged, not returned.
func (s *GarageService) compensate(ctx context.Context, op string, before inventory.Store, saved []domain.Garage) {
	ctx = context.WithoutCancel(ctx)
	for _, g := range saved {
		prev, ok := before.Get(g.ID)
		if !ok {
			continue
		}
		if _, err := s.repo.Save(ctx, prev); err != nil {
			s.log.Error("compensating save failed; store and storage may differ",
				"op", op, "garage_id", g.ID, "error", err)
			continue
		}
		s.log.Warn("compensating save applied", "op", op, "garage_id", g.ID)
	}
}
