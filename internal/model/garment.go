package model

import (
	"encoding/json"
	"time"
)

// Fit and category values follow the garments check constraints.
const (
	FitSlim      = "slim"
	FitRegular   = "regular"
	FitOversized = "oversized"
)

// Garment is a catalog item belonging to a brand.  Sizes maps a size label
// to the asset URL for that size; SizeChart maps a size label to its
// measurement table.  Both are stored as JSON.
type Garment struct {
	ID        uint64          // garments.id
	BrandID   uint64          // garments.brand_id
	Name      string          // garments.name
	ProductID *string         // garments.product_id
	Sizes     json.RawMessage // garments.sizes (JSON: size → URL)
	SizeChart json.RawMessage // garments.size_chart (JSON: size → measurements)
	FitType   string          // garments.fit_type
	Category  string          // garments.category
	CreatedAt time.Time       // garments.created_at
	UpdatedAt time.Time       // garments.updated_at
}

// ValidFitType reports whether t is an accepted fit_type value.
func ValidFitType(t string) bool {
	return t == FitSlim || t == FitRegular || t == FitOversized
}

// ValidCategory reports whether c is an accepted category value.
func ValidCategory(c string) bool {
	switch c {
	case "tops", "bottoms", "outerwear", "dresses", "accessories":
		return true
	}
	return false
}
