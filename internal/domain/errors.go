package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, capacity out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrGarageNotFound means a garage reference is stale or invalid.
// It wraps ErrNotFound so errors.Is(err, ErrNotFound) also matches.
var ErrGarageNotFound = fmt.Errorf("garage %w", ErrNotFound)

// Placement errors. ErrSlotOccupied is an expected signal that drives the
// conflict-confirmation step; the others describe invalid transfer requests
// that callers surface as a no-op.
var (
	ErrSlotIndexInvalid = errors.New("slot index invalid")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrSlotOccupied     = errors.New("slot occupied")
	ErrSourceEmpty      = errors.New("source slot is empty")
	ErrTargetEmpty      = errors.New("target slot is empty")
	ErrBothEmpty        = errors.New("both slots are empty")
	ErrSelfSwap         = errors.New("cannot swap a slot with itself")
)

// Workflow errors.
var (
	ErrWorkflowBusy      = errors.New("a transfer is already in progress")
	ErrInvalidTransition = errors.New("invalid transfer transition")
)

// PersistenceError wraps a failure of the persistence collaborator so callers
// can tell it apart from placement errors and decide whether to roll back.
type PersistenceError struct {
	Op       string
	GarageID uuid.UUID
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.GarageID == uuid.Nil {
		return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence: %s garage %s: %v", e.Op, e.GarageID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
