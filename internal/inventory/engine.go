package inventory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// SlotRef addresses one slot of one garage.
type SlotRef struct {
	GarageID uuid.UUID `json:"garage_id"`
	Index    int       `json:"index"`
}

// TargetClass is the result of classifying a placement target.
// Current is the occupying snapshot when Occupied is true.
type TargetClass struct {
	Occupied bool
	Current  domain.Snapshot
}

// ClassifyTarget reports whether the target slot is empty or occupied.
// Callers proceed with PlanInsert/PlanMove on an empty target; an occupied
// target needs explicit confirmation before PlanReplace or PlanSwap.
func ClassifyTarget(store Store, garageID uuid.UUID, index int) (TargetClass, error) {
	_, snap, err := locate(store, SlotRef{GarageID: garageID, Index: index})
	if err != nil {
		return TargetClass{}, err
	}
	if snap.IsEmpty() {
		return TargetClass{}, nil
	}
	return TargetClass{Occupied: true, Current: snap.Clone()}, nil
}

// PlanInsert places snap into an empty slot (the "add to garage" case).
// Returns domain.ErrSlotOccupied if the slot is taken; overwriting is only
// done by PlanReplace after the caller has seen that conflict.
func PlanInsert(store Store, garageID uuid.UUID, index int, snap domain.Snapshot) (Store, error) {
	ref := SlotRef{GarageID: garageID, Index: index}
	_, current, err := locate(store, ref)
	if err != nil {
		return store, err
	}
	if !current.IsEmpty() {
		return store, fmt.Errorf("%w: garage %s index %d", domain.ErrSlotOccupied, garageID, index)
	}
	return PlanReplace(store, garageID, index, snap)
}

// PlanReplace overwrites the slot regardless of its occupancy.
func PlanReplace(store Store, garageID uuid.UUID, index int, snap domain.Snapshot) (Store, error) {
	ref := SlotRef{GarageID: garageID, Index: index}
	g, _, err := locate(store, ref)
	if err != nil {
		return store, err
	}
	slots, err := g.Slots.WithSlotSet(index, snap)
	if err != nil {
		return store, err
	}
	g.Slots = slots
	return store.With(g), nil
}

// PlanMove moves the source slot's snapshot into an empty target slot and
// clears the source. Both edits land together or not at all: on any error
// the input store is returned unchanged.
func PlanMove(store Store, srcGarage uuid.UUID, srcIndex int, dstGarage uuid.UUID, dstIndex int) (Store, error) {
	src := SlotRef{GarageID: srcGarage, Index: srcIndex}
	dst := SlotRef{GarageID: dstGarage, Index: dstIndex}

	_, srcSnap, err := locate(store, src)
	if err != nil {
		return store, err
	}
	_, dstSnap, err := locate(store, dst)
	if err != nil {
		return store, err
	}
	if srcSnap.IsEmpty() {
		return store, fmt.Errorf("%w: garage %s index %d", domain.ErrSourceEmpty, srcGarage, srcIndex)
	}
	if !dstSnap.IsEmpty() {
		return store, fmt.Errorf("%w: garage %s index %d", domain.ErrSlotOccupied, dstGarage, dstIndex)
	}
	return applyPair(store, src, domain.Snapshot{}, dst, srcSnap)
}

// PlanSwap exchanges the contents of two slots. Swapping an occupied slot
// with an empty one behaves like a move. Swapping a slot with itself fails
// with domain.ErrSelfSwap and two empty slots with domain.ErrBothEmpty.
// Applying the same swap twice yields the original store.
func PlanSwap(store Store, srcGarage uuid.UUID, srcIndex int, dstGarage uuid.UUID, dstIndex int) (Store, error) {
	src := SlotRef{GarageID: srcGarage, Index: srcIndex}
	dst := SlotRef{GarageID: dstGarage, Index: dstIndex}
	if src == dst {
		return store, fmt.Errorf("%w: garage %s index %d", domain.ErrSelfSwap, srcGarage, srcIndex)
	}

	_, srcSnap, err := locate(store, src)
	if err != nil {
		return store, err
	}
	_, dstSnap, err := locate(store, dst)
	if err != nil {
		return store, err
	}
	if srcSnap.IsEmpty() && dstSnap.IsEmpty() {
		return store, domain.ErrBothEmpty
	}
	return applyPair(store, src, dstSnap, dst, srcSnap)
}

// applyPair sets a to va and b to vb. When both refs share a garage the two
// edits are applied to one slot array, producing a single updated garage.
func applyPair(store Store, a SlotRef, va domain.Snapshot, b SlotRef, vb domain.Snapshot) (Store, error) {
	ga, _ := store.lookup(a.GarageID)
	slotsA, err := ga.Slots.WithSlotSet(a.Index, va)
	if err != nil {
		return store, err
	}

	if a.GarageID == b.GarageID {
		slotsA, err = slotsA.WithSlotSet(b.Index, vb)
		if err != nil {
			return store, err
		}
		ga.Slots = slotsA
		return store.With(ga), nil
	}

	gb, _ := store.lookup(b.GarageID)
	slotsB, err := gb.Slots.WithSlotSet(b.Index, vb)
	if err != nil {
		return store, err
	}
	ga.Slots = slotsA
	gb.Slots = slotsB
	return store.With(ga, gb), nil
}

// locate resolves a slot reference, validating garage and index.
func locate(store Store, ref SlotRef) (domain.Garage, domain.Snapshot, error) {
	g, ok := store.lookup(ref.GarageID)
	if !ok {
		return domain.Garage{}, domain.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrGarageNotFound, ref.GarageID)
	}
	snap, err := g.Slots.At(ref.Index)
	if err != nil || ref.Index >= g.Capacity {
		return domain.Garage{}, domain.Snapshot{}, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrSlotIndexInvalid, ref.Index, g.Capacity)
	}
	return g, snap, nil
}
