// Package transfer implements the two-step placement workflow: pick a target
// garage, pick a slot, confirm if the slot is taken, commit.
//
// A Workflow is a plain state machine over inventory.Store values. It never
// mutates a store; commits hand back the next store for the caller to
// persist. A Workflow is not safe for concurrent use.
package transfer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/inventory"
)

// State is a workflow state. Committing is transient and never observed
// between calls.
type State int

const (
	Idle State = iota
	SelectingTarget
	SelectingSlot
	AwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SelectingTarget:
		return "selecting_target"
	case SelectingSlot:
		return "selecting_slot"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Resolution records how an intent ended.
type Resolution int

const (
	Pending Resolution = iota
	Confirmed
	Cancelled
)

func (r Resolution) String() string {
	switch r {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// MarshalText renders the resolution name in JSON.
func (r Resolution) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Source is what is being placed: the content of a garage slot (move/swap)
// or a snapshot built from a catalog item (insert).
type Source struct {
	FromSlot bool
	Slot     inventory.SlotRef
	Snapshot domain.Snapshot
}

// SlotSource starts a move/swap from a garage slot.
func SlotSource(garageID uuid.UUID, index int) Source {
	return Source{FromSlot: true, Slot: inventory.SlotRef{GarageID: garageID, Index: index}}
}

// CatalogSource starts an insert of a catalog snapshot.
func CatalogSource(snap domain.Snapshot) Source {
	return Source{Snapshot: snap}
}

// Intent is the in-flight transfer.
type Intent struct {
	Source         Source
	Snapshot       domain.Snapshot
	TargetGarageID *uuid.UUID
	TargetIndex    *int
	Resolution     Resolution
}

// CommitKind names the engine operation a commit used.
type CommitKind string

const (
	KindInsert  CommitKind = "insert"
	KindMove    CommitKind = "move"
	KindReplace CommitKind = "replace"
	KindSwap    CommitKind = "swap"
)

// Commit is the result of a completed transfer.
// Touched lists the garages whose slots changed, source first.
type Commit struct {
	Kind    CommitKind
	Store   inventory.Store
	Touched []uuid.UUID
	Intent  Intent
}

// Outcome is returned by ChooseTargetSlot: exactly one of Commit or
// Conflict is set.
type Outcome struct {
	Commit   *Commit
	Conflict *domain.Snapshot
}

// Workflow drives one transfer at a time.
type Workflow struct {
	state    State
	intent   Intent
	conflict domain.Snapshot
}

// New returns an idle workflow.
func New() *Workflow {
	return &Workflow{}
}

// State returns the current state.
func (w *Workflow) State() State { return w.state }

// Intent returns a copy of the in-flight intent, if any.
func (w *Workflow) Intent() (Intent, bool) {
	if w.state == Idle {
		return Intent{}, false
	}
	return copyIntent(w.intent), true
}

// Conflict returns the snapshot occupying the chosen target while awaiting
// confirmation.
func (w *Workflow) Conflict() (domain.Snapshot, bool) {
	if w.state != AwaitingConfirmation {
		return domain.Snapshot{}, false
	}
	return w.conflict.Clone(), true
}

// Begin starts a transfer. It fails with domain.ErrWorkflowBusy unless idle.
// A slot source must reference an occupied slot of store.
func (w *Workflow) Begin(store inventory.Store, src Source) error {
	if w.state != Idle {
		return fmt.Errorf("%w: currently %s", domain.ErrWorkflowBusy, w.state)
	}

	snap := src.Snapshot
	if src.FromSlot {
		class, err := inventory.ClassifyTarget(store, src.Slot.GarageID, src.Slot.Index)
		if err != nil {
			return err
		}
		if !class.Occupied {
			return fmt.Errorf("%w: garage %s index %d", domain.ErrSourceEmpty, src.Slot.GarageID, src.Slot.Index)
		}
		snap = class.Current
	} else if snap.IsEmpty() {
		return fmt.Errorf("%w: nothing to place", domain.ErrSourceEmpty)
	}

	w.intent = Intent{Source: src, Snapshot: snap.Clone(), Resolution: Pending}
	w.intent.Source.Snapshot = w.intent.Snapshot.Clone()
	w.state = SelectingTarget
	return nil
}

// ChooseTargetGarage records the target garage.
func (w *Workflow) ChooseTargetGarage(store inventory.Store, garageID uuid.UUID) error {
	if w.state != SelectingTarget {
		return w.invalid("choose target garage")
	}
	if _, ok := store.Get(garageID); !ok {
		return fmt.Errorf("%w: %s", domain.ErrGarageNotFound, garageID)
	}
	id := garageID
	w.intent.TargetGarageID = &id
	w.state = SelectingSlot
	return nil
}

// ChooseTargetSlot classifies the target slot. An empty target commits
// immediately and the workflow returns to Idle. An occupied target moves to
// AwaitingConfirmation and reports the occupying snapshot; the store is not
// touched.
func (w *Workflow) ChooseTargetSlot(store inventory.Store, index int) (Outcome, error) {
	if w.state != SelectingSlot {
		return Outcome{}, w.invalid("choose target slot")
	}
	target := *w.intent.TargetGarageID
	src := w.intent.Source

	if src.FromSlot && src.Slot == (inventory.SlotRef{GarageID: target, Index: index}) {
		return Outcome{}, fmt.Errorf("%w: garage %s index %d", domain.ErrSelfSwap, target, index)
	}

	class, err := inventory.ClassifyTarget(store, target, index)
	if err != nil {
		return Outcome{}, err
	}

	if class.Occupied {
		idx := index
		w.intent.TargetIndex = &idx
		w.conflict = class.Current
		w.state = AwaitingConfirmation
		conflict := class.Current.Clone()
		return Outcome{Conflict: &conflict}, nil
	}

	var (
		next inventory.Store
		kind CommitKind
	)
	if src.FromSlot {
		kind = KindMove
		next, err = inventory.PlanMove(store, src.Slot.GarageID, src.Slot.Index, target, index)
	} else {
		kind = KindInsert
		next, err = inventory.PlanInsert(store, target, index, w.intent.Snapshot)
	}
	if err != nil {
		return Outcome{}, err
	}

	idx := index
	w.intent.TargetIndex = &idx
	c := w.commit(kind, next)
	return Outcome{Commit: &c}, nil
}

// ConfirmConflict resolves an occupied target: an insert replaces the
// occupant, a move swaps with it.
func (w *Workflow) ConfirmConflict(store inventory.Store) (Commit, error) {
	if w.state != AwaitingConfirmation {
		return Commit{}, w.invalid("confirm conflict")
	}
	target := *w.intent.TargetGarageID
	index := *w.intent.TargetIndex
	src := w.intent.Source

	var (
		next inventory.Store
		kind CommitKind
		err  error
	)
	if src.FromSlot {
		kind = KindSwap
		next, err = inventory.PlanSwap(store, src.Slot.GarageID, src.Slot.Index, target, index)
	} else {
		kind = KindReplace
		next, err = inventory.PlanReplace(store, target, index, w.intent.Snapshot)
	}
	if err != nil {
		return Commit{}, err
	}
	return w.commit(kind, next), nil
}

// Back returns from slot selection to garage selection, dropping only the
// chosen target garage.
func (w *Workflow) Back() error {
	if w.state != SelectingSlot {
		return w.invalid("back")
	}
	w.intent.TargetGarageID = nil
	w.state = SelectingTarget
	return nil
}

// Cancel discards the in-flight intent from any state. It always succeeds
// and returns the discarded intent, if there was one.
func (w *Workflow) Cancel() (Intent, bool) {
	if w.state == Idle {
		return Intent{}, false
	}
	discarded := copyIntent(w.intent)
	discarded.Resolution = Cancelled
	w.reset()
	return discarded, true
}

// Checkpoint is a saved workflow position.
type Checkpoint struct {
	state    State
	intent   Intent
	conflict domain.Snapshot
}

// Checkpoint saves the current position so a caller whose commit fails to
// persist can Restore it and retry.
func (w *Workflow) Checkpoint() Checkpoint {
	return Checkpoint{state: w.state, intent: copyIntent(w.intent), conflict: w.conflict.Clone()}
}

// Restore returns the workflow to a saved position.
func (w *Workflow) Restore(c Checkpoint) {
	w.state = c.state
	w.intent = copyIntent(c.intent)
	w.conflict = c.conflict.Clone()
}

func (w *Workflow) commit(kind CommitKind, next inventory.Store) Commit {
	intent := copyIntent(w.intent)
	intent.Resolution = Confirmed

	target := *w.intent.TargetGarageID
	touched := []uuid.UUID{target}
	if w.intent.Source.FromSlot && w.intent.Source.Slot.GarageID != target {
		touched = []uuid.UUID{w.intent.Source.Slot.GarageID, target}
	}

	w.reset()
	return Commit{Kind: kind, Store: next, Touched: touched, Intent: intent}
}

func (w *Workflow) reset() {
	w.state = Idle
	w.intent = Intent{}
	w.conflict = domain.Snapshot{}
}

func (w *Workflow) invalid(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", domain.ErrInvalidTransition, op, w.state)
}

func copyIntent(in Intent) Intent {
	out := in
	out.Snapshot = in.Snapshot.Clone()
	out.Source.Snapshot = in.Source.Snapshot.Clone()
	if in.TargetGarageID != nil {
		id := *in.TargetGarageID
		out.TargetGarageID = &id
	}
	if in.TargetIndex != nil {
		idx := *in.TargetIndex
		out.TargetIndex = &idx
	}
	return out
}
