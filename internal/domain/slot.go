package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Snapshot is the content of a garage slot: a denormalized copy of a catalog
// Item taken at placement time, plus a free-text remark. It never references
// the catalog, so catalog edits do not alter placed vehicles.
//
// A slot is Empty iff it has no keys (its JSON form is {}). A key counts when
// its value is non-zero or when it was present in the decoded record, so
// {"remarks":""} is Occupied just like {"remarks":"x"}. Price is a pointer so
// that an explicit price of 0 still counts as populated.
type Snapshot struct {
	ItemID      string           `json:"item_id,omitempty"`
	Name        string           `json:"name,omitempty"`
	NameEn      string           `json:"name_en,omitempty"`
	BrandName   string           `json:"brand_name,omitempty"`
	BrandNameEn string           `json:"brand_name_en,omitempty"`
	VehicleType string           `json:"vehicle_type,omitempty"`
	FeatureTags []string         `json:"feature_tags,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Remarks     string           `json:"remarks,omitempty"`

	// blank holds keys that are present with a zero value.
	blank fieldSet
}

// fieldSet is a bit set of snapshot keys.
type fieldSet uint16

const (
	fieldItemID fieldSet = 1 << iota
	fieldName
	fieldNameEn
	fieldBrandName
	fieldBrandNameEn
	fieldVehicleType
	fieldFeatureTags
	fieldPrice
	fieldRemarks
)

// snapshotKeys maps JSON keys to their bit and the literal written for a
// blank value.
var snapshotKeys = []struct {
	key   string
	bit   fieldSet
	blank json.RawMessage
}{
	{"item_id", fieldItemID, json.RawMessage(`""`)},
	{"name", fieldName, json.RawMessage(`""`)},
	{"name_en", fieldNameEn, json.RawMessage(`""`)},
	{"brand_name", fieldBrandName, json.RawMessage(`""`)},
	{"brand_name_en", fieldBrandNameEn, json.RawMessage(`""`)},
	{"vehicle_type", fieldVehicleType, json.RawMessage(`""`)},
	{"feature_tags", fieldFeatureTags, json.RawMessage(`[]`)},
	{"price", fieldPrice, json.RawMessage(`null`)},
	{"remarks", fieldRemarks, json.RawMessage(`""`)},
}

// populated returns the keys holding non-zero values.
func (s Snapshot) populated() fieldSet {
	var f fieldSet
	set := func(bit fieldSet, ok bool) {
		if ok {
			f |= bit
		}
	}
	set(fieldItemID, s.ItemID != "")
	set(fieldName, s.Name != "")
	set(fieldNameEn, s.NameEn != "")
	set(fieldBrandName, s.BrandName != "")
	set(fieldBrandNameEn, s.BrandNameEn != "")
	set(fieldVehicleType, s.VehicleType != "")
	set(fieldFeatureTags, len(s.FeatureTags) > 0)
	set(fieldPrice, s.Price != nil)
	set(fieldRemarks, s.Remarks != "")
	return f
}

// keys returns every key the snapshot carries.
func (s Snapshot) keys() fieldSet { return s.populated() | s.blank }

// IsEmpty reports whether the snapshot is the empty-slot sentinel.
func (s Snapshot) IsEmpty() bool {
	return s.keys() == 0
}

// WithRemarks returns a copy with Remarks set. The remarks key stays present
// even when remarks is blank, so editing never empties an occupied slot.
func (s Snapshot) WithRemarks(remarks string) Snapshot {
	out := s.Clone()
	out.Remarks = remarks
	if remarks == "" {
		out.blank |= fieldRemarks
	} else {
		out.blank &^= fieldRemarks
	}
	return out
}

// snapshotJSON has Snapshot's fields without its methods.
type snapshotJSON Snapshot

// MarshalJSON writes populated fields plus keys that were present but blank.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(snapshotJSON(s))
	if err != nil {
		return nil, err
	}
	extra := s.blank &^ s.populated()
	if extra == 0 {
		return out, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(out, &m); err != nil {
		return nil, err
	}
	for _, k := range snapshotKeys {
		if extra&k.bit != 0 {
			m[k.key] = k.blank
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a slot and remembers keys present with zero values.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return err
	}
	out := Snapshot(raw)
	out.blank = 0
	populated := out.populated()
	for _, k := range snapshotKeys {
		if _, ok := present[k.key]; ok && populated&k.bit == 0 {
			out.blank |= k.bit
		}
	}
	*s = out
	return nil
}

// Clone returns a deep copy so the result shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.FeatureTags != nil {
		out.FeatureTags = slices.Clone(s.FeatureTags)
	}
	if s.Price != nil {
		p := *s.Price
		out.Price = &p
	}
	return out
}

// Equal reports whether two snapshots hold the same keys and values.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.keys() != o.keys() {
		return false
	}
	if s.ItemID != o.ItemID || s.Name != o.Name || s.NameEn != o.NameEn ||
		s.BrandName != o.BrandName || s.BrandNameEn != o.BrandNameEn ||
		s.VehicleType != o.VehicleType || s.Remarks != o.Remarks {
		return false
	}
	if !slices.Equal(s.FeatureTags, o.FeatureTags) {
		return false
	}
	switch {
	case s.Price == nil && o.Price == nil:
		return true
	case s.Price == nil || o.Price == nil:
		return false
	default:
		return s.Price.Equal(*o.Price)
	}
}

// SlotArray is the fixed-length slot sequence of a garage.
// Its length always equals the garage capacity; indices are stable positions.
type SlotArray []Snapshot

// NewSlotArray returns capacity empty slots.
func NewSlotArray(capacity int) SlotArray {
	return make(SlotArray, capacity)
}

// OccupiedCount returns the number of non-empty slots.
func OccupiedCount(a SlotArray) int {
	n := 0
	for _, s := range a {
		if !s.IsEmpty() {
			n++
		}
	}
	return n
}

// At returns a copy of the slot at index i.
func (a SlotArray) At(i int) (Snapshot, error) {
	if i < 0 || i >= len(a) {
		return Snapshot{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(a))
	}
	return a[i].Clone(), nil
}

// Clone returns a deep copy of the array.
func (a SlotArray) Clone() SlotArray {
	if a == nil {
		return nil
	}
	out := make(SlotArray, len(a))
	for i, s := range a {
		out[i] = s.Clone()
	}
	return out
}

// WithSlotSet returns a new array with index i replaced by v.
// The receiver is left untouched.
func (a SlotArray) WithSlotSet(i int, v Snapshot) (SlotArray, error) {
	if i < 0 || i >= len(a) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(a))
	}
	out := a.Clone()
	out[i] = v.Clone()
	return out, nil
}

// WithSlotCleared returns a new array with index i set to the empty sentinel.
func (a SlotArray) WithSlotCleared(i int) (SlotArray, error) {
	return a.WithSlotSet(i, Snapshot{})
}
