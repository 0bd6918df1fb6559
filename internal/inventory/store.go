// Package inventory holds the in-memory garage store and the placement
// engine that decides how vehicles are inserted, moved and swapped.
//
// Everything here is pure: every operation takes a Store and returns a new
// one, leaving its input untouched. Callers may keep old stores around as
// rollback points.
package inventory

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// Store is an immutable, insertion-ordered set of garages keyed by ID.
// The zero value is an empty store.
type Store struct {
	order   []uuid.UUID
	garages map[uuid.UUID]domain.Garage
}

// NewStore builds a store from garages in display order.
// A repeated ID replaces the earlier garage but keeps its position.
func NewStore(garages ...domain.Garage) Store {
	s := Store{
		order:   make([]uuid.UUID, 0, len(garages)),
		garages: make(map[uuid.UUID]domain.Garage, len(garages)),
	}
	for _, g := range garages {
		if _, ok := s.garages[g.ID]; !ok {
			s.order = append(s.order, g.ID)
		}
		s.garages[g.ID] = g.Clone()
	}
	return s
}

// Len returns the number of garages.
func (s Store) Len() int { return len(s.order) }

// Get returns a copy of the garage with the given ID.
func (s Store) Get(id uuid.UUID) (domain.Garage, bool) {
	g, ok := s.garages[id]
	if !ok {
		return domain.Garage{}, false
	}
	return g.Clone(), true
}

// Garages returns copies of all garages in display order.
func (s Store) Garages() []domain.Garage {
	out := make([]domain.Garage, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.garages[id].Clone())
	}
	return out
}

// With returns a new store containing g, replacing any garage with the same
// ID in place or appending it at the end.
func (s Store) With(garages ...domain.Garage) Store {
	out := s.clone()
	for _, g := range garages {
		if _, ok := out.garages[g.ID]; !ok {
			out.order = append(out.order, g.ID)
		}
		out.garages[g.ID] = g.Clone()
	}
	return out
}

// Without returns a new store with the garage removed.
// Returns domain.ErrGarageNotFound if it is not present.
func (s Store) Without(id uuid.UUID) (Store, error) {
	if _, ok := s.garages[id]; !ok {
		return s, fmt.Errorf("%w: %s", domain.ErrGarageNotFound, id)
	}
	out := s.clone()
	delete(out.garages, id)
	out.order = slices.DeleteFunc(out.order, func(x uuid.UUID) bool { return x == id })
	return out, nil
}

// Equal reports whether both stores hold the same garages, with identical
// metadata and slot contents, in the same order.
func (s Store) Equal(o Store) bool {
	if !slices.Equal(s.order, o.order) {
		return false
	}
	for _, id := range s.order {
		a, b := s.garages[id], o.garages[id]
		if a.Name != b.Name || a.Capacity != b.Capacity || a.Remarks != b.Remarks ||
			a.Order != b.Order || len(a.Slots) != len(b.Slots) {
			return false
		}
		for i := range a.Slots {
			if !a.Slots[i].Equal(b.Slots[i]) {
				return false
			}
		}
	}
	return true
}

// lookup returns the stored garage without copying. Callers must not
// mutate it; use SlotArray.WithSlotSet to derive new slot arrays.
func (s Store) lookup(id uuid.UUID) (domain.Garage, bool) {
	g, ok := s.garages[id]
	return g, ok
}

func (s Store) clone() Store {
	out := Store{
		order:   slices.Clone(s.order),
		garages: make(map[uuid.UUID]domain.Garage, len(s.garages)+1),
	}
	for id, g := range s.garages {
		out.garages[id] = g
	}
	return out
}
