// Package domain contains the core data types for the garage inventory.
// It depends only on uuid and decimal and is imported by every other
// internal package (inventory, transfer, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Capacity bounds accepted when creating a garage.
const (
	MinCapacity = 1
	MaxCapacity = 100
)

// Garage is a named, fixed-capacity container of slots.
// Capacity is set at creation and never changes; len(Slots) == Capacity.
type Garage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Remarks   string    `json:"remarks,omitempty"`
	Slots     SlotArray `json:"slots"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of g.
func (g Garage) Clone() Garage {
	out := g
	out.Slots = g.Slots.Clone()
	return out
}

// GarageDraft is the input for creating a garage.
type GarageDraft struct {
	Name     string
	Capacity int
	Remarks  string
}
