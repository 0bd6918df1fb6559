package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Brand is a vehicle manufacturer in the catalog.
type Brand struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameEn string `json:"name_en"`
}

// Item is a catalog vehicle. It is read-only to the inventory core.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	NameEn      string          `json:"name_en"`
	BrandID     string          `json:"brand_id"`
	Type        string          `json:"type"`
	Price       decimal.Decimal `json:"price"`
	FeatureTags []string        `json:"feature_tags"`
	Remarks     string          `json:"remarks,omitempty"`
}

// SnapshotFromItem builds the slot content placed when an item is added to a
// garage. Remarks start empty; they belong to the slot, not the catalog.
func SnapshotFromItem(item Item, brand Brand) Snapshot {
	price := item.Price
	s := Snapshot{
		ItemID:      item.ID,
		Name:        item.Name,
		NameEn:      item.NameEn,
		BrandName:   brand.Name,
		BrandNameEn: brand.NameEn,
		VehicleType: item.Type,
		Price:       &price,
	}
	if len(item.FeatureTags) > 0 {
		s.FeatureTags = append([]string(nil), item.FeatureTags...)
	}
	return s
}

// ParseFeatureTags splits the catalog's comma-separated feature column into
// ordered tag codes, trimming whitespace and dropping empty parts.
func ParseFeatureTags(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
