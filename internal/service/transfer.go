package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/inventory"
	"github.com/pkordes/garage-inventory/internal/metrics"
	"github.com/pkordes/garage-inventory/internal/repo"
	"github.com/pkordes/garage-inventory/internal/transfer"
)

// TransferService drives the single in-flight transfer and persists its
// commits through GarageService.
type TransferService struct {
	mu      sync.Mutex
	wf      *transfer.Workflow
	garages *GarageService
	catalog repo.CatalogRepo
	metrics *metrics.Transfers
	log     *slog.Logger
}

// NewTransferService constructs an idle TransferService.
// m may be nil; log defaults to slog.Default().
func NewTransferService(garages *GarageService, catalog repo.CatalogRepo, m *metrics.Transfers, log *slog.Logger) *TransferService {
	if log == nil {
		log = slog.Default()
	}
	return &TransferService{
		wf:      transfer.New(),
		garages: garages,
		catalog: catalog,
		metrics: m,
		log:     log,
	}
}

// TransferStatus is the workflow as seen by a caller after each step.
// Kind and Garages are set only when the step committed.
type TransferStatus struct {
	State    transfer.State
	Intent   *transfer.Intent
	Conflict *domain.Snapshot
	Kind     transfer.CommitKind
	Garages  []domain.Garage
}

// Status returns the current workflow state.
func (s *TransferService) Status(ctx context.Context) TransferStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

// BeginFromSlot starts moving the content of a garage slot.
func (s *TransferService) BeginFromSlot(ctx context.Context, garageID uuid.UUID, index int) (TransferStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.wf.Begin(s.garages.Store(), transfer.SlotSource(garageID, index)); err != nil {
		return s.status(), fmt.Errorf("service.TransferService.BeginFromSlot: %w", err)
	}
	return s.status(), nil
}

// BeginFromCatalog starts inserting a snapshot of a catalog item.
// A brand missing from the catalog leaves the brand names blank.
func (s *TransferService) BeginFromCatalog(ctx context.Context, itemID string) (TransferStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wf.State() != transfer.Idle {
		return s.status(), fmt.Errorf("service.TransferService.BeginFromCatalog: %w", domain.ErrWorkflowBusy)
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return s.status(), fmt.Errorf("service.TransferService.BeginFromCatalog: %w", err)
	}
	brand, err := s.catalog.GetBrand(ctx, item.BrandID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return s.status(), fmt.Errorf("service.TransferService.BeginFromCatalog: %w", err)
	}

	src := transfer.CatalogSource(domain.SnapshotFromItem(item, brand))
	if err := s.wf.Begin(s.garages.Store(), src); err != nil {
		return s.status(), fmt.Errorf("service.TransferService.BeginFromCatalog: %w", err)
	}
	return s.status(), nil
}

// ChooseTargetGarage selects the destination garage.
func (s *TransferService) ChooseTargetGarage(ctx context.Context, garageID uuid.UUID) (TransferStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.wf.ChooseTargetGarage(s.garages.Store(), garageID); err != nil {
		return s.status(), fmt.Errorf("service.TransferService.ChooseTargetGarage: %w", err)
	}
	return s.status(), nil
}

// ChooseTargetSlot selects the destination slot. An empty slot commits and
// persists immediately; an occupied one reports the conflict and waits for
// Confirm or Cancel. If the commit cannot be saved the transfer stays at
// slot selection and may be retried.
func (s *TransferService) ChooseTargetSlot(ctx context.Context, index int) (TransferStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkpoint := s.wf.Checkpoint()
	var commit *transfer.Commit
	saved, err := s.garages.apply(ctx, "transfer", func(store inventory.Store) (inventory.Store, []uuid.UUID, error) {
		out, err := s.wf.ChooseTargetSlot(store, index)
		if err != nil {
			return store, nil, err
		}
		if out.Commit == nil {
			return store, nil, nil
		}
		commit = out.Commit
		return out.Commit.Store, out.Commit.Touched, nil
	})
	if err != nil {
		s.wf.Restore(checkpoint)
		return s.status(), fmt.Errorf("service.TransferService.ChooseTargetSlot: %w", err)
	}

	st := s.status()
	if commit == nil {
		s.metrics.Conflict()
		return st, nil
	}
	s.committed(commit, &st, saved)
	return st, nil
}

// Confirm resolves an occupied target: a catalog insert replaces the
// occupant, a slot move swaps with it. If the commit cannot be saved the
// conflict stays pending and Confirm may be retried.
func (s *TransferService) Confirm(ctx context.Context) (TransferStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkpoint := s.wf.Checkpoint()
	var commit transfer.Commit
	saved, err := s.garages.apply(ctx, "transfer", func(store inventory.Store) (inventory.Store, []uuid.UUID, error) {
		c, err := s.wf.ConfirmConflict(store)
		if err != nil {
			return store, nil, err
		}
		commit = c
		return c.Store, c.Touched, nil
	})
	if err != nil {
		s.wf.Restore(checkpoint)
		return s.status(), fmt.Errorf("service.TransferService.Confirm: %w", err)
	}

	st := s.status()
	s.committed(&commit, &st, saved)
	return st, nil
}

// Back returns from slot selection to garage selection.
func (s *TransferService) Back(ctx context.Context) (TransferStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.wf.Back(); err != nil {
		return s.status(), fmt.Errorf("service.TransferService.Back: %w", err)
	}
	return s.status(), nil
}

// Cancel discards the in-flight transfer, if any. It always succeeds.
func (s *TransferService) Cancel(ctx context.Context) TransferStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wf.Cancel(); ok {
		s.metrics.Cancel()
	}
	return s.status()
}

// committed fills the commit fields of st and records it.
func (s *TransferService) committed(c *transfer.Commit, st *TransferStatus, saved []domain.Garage) {
	intent := c.Intent
	st.Intent = &intent
	st.Kind = c.Kind
	st.Garages = saved
	s.metrics.Commit(string(c.Kind))
	s.log.Info("transfer committed", "kind", c.Kind, "garages", c.Touched)
}

// status must be called with s.mu held.
func (s *TransferService) status() TransferStatus {
	st := TransferStatus{State: s.wf.State()}
	if intent, ok := s.wf.Intent(); ok {
		st.Intent = &intent
	}
	if conflict, ok := s.wf.Conflict(); ok {
		st.Conflict = &conflict
	}
	return st
}
