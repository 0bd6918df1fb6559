package domain

// ExportRow is a single row in the full inventory export.
// It is a flat, denormalized view: one row per slot, with garage fields
// repeated for every slot of that garage. Empty slots yield a row with
// Occupied=false and zero values for all vehicle fields.
//
// FeatureTags keeps catalog order. Callers that need a joined string
// (e.g. CSV) should join with "|".
type ExportRow struct {
	// Garage fields, repeated for every slot of the garage.
	GarageID      string `json:"garage_id"`
	GarageName    string `json:"garage_name"`
	GarageRemarks string `json:"garage_remarks,omitempty"`

	SlotIndex int  `json:"slot_index"`
	Occupied  bool `json:"occupied"`

	// Vehicle fields, zero values when the slot is empty.
	ItemID      string   `json:"item_id,omitempty"`
	VehicleName string   `json:"vehicle_name,omitempty"`
	BrandName   string   `json:"brand_name,omitempty"`
	VehicleType string   `json:"vehicle_type,omitempty"`
	Price       string   `json:"price,omitempty"`
	FeatureTags []string `json:"feature_tags,omitempty"`
	Remarks     string   `json:"remarks,omitempty"`
}
