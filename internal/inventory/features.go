package inventory

import (
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// SyncFeatures refreshes the feature tags of every placed snapshot that
// carries a catalog item ID, using tags keyed by item ID. Items absent from
// tags get their stored tags cleared: the catalog is the source of truth.
// Slots without an item ID are left alone.
//
// It returns the new store and the IDs of garages whose slots changed, in
// display order.
func SyncFeatures(store Store, tags map[string][]string) (Store, []uuid.UUID) {
	var (
		updated []domain.Garage
		changed []uuid.UUID
	)
	for _, id := range store.order {
		g := store.garages[id]
		var slots domain.SlotArray
		for i, snap := range g.Slots {
			if snap.ItemID == "" {
				continue
			}
			want := tags[snap.ItemID]
			if slices.Equal(snap.FeatureTags, want) {
				continue
			}
			if slots == nil {
				slots = g.Slots.Clone()
			}
			if len(want) == 0 {
				slots[i].FeatureTags = nil
			} else {
				slots[i].FeatureTags = slices.Clone(want)
			}
		}
		if slots != nil {
			g.Slots = slots
			updated = append(updated, g)
			changed = append(changed, id)
		}
	}
	if len(updated) == 0 {
		return store, nil
	}
	return store.With(updated...), changed
}
