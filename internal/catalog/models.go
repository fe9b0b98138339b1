package catalog

import (
	"fmt"
	"time"
)

// EntityTypeShade is the entity type recorded when a capture session resolves
// to a catalog shade, whether via barcode or fuzzy match.
const EntityTypeShade = "shade"

// Brand is a product line owner (OPI, Orly, Essie, ...).
type Brand struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Shade is the canonical catalog entity a capture session resolves to.
type Shade struct {
	ID        int64
	BrandID   int64
	BrandName string
	Name      string
	Finish    string
	CreatedAt time.Time
}

// Display renders the shade the way candidates are presented to users.
func (s Shade) Display() string {
	if s.BrandName == "" {
		return s.Name
	}
	return fmt.Sprintf("%s — %s", s.BrandName, s.Name)
}

// SKU is a purchasable barcode-bearing unit of a shade.
type SKU struct {
	ID          int64
	ShadeID     int64
	GTIN        string
	Description string
	CreatedAt   time.Time
}

// BarcodeMatch is the result of an exact GTIN lookup.
type BarcodeMatch struct {
	ShadeID int64
	GTIN    string
	Display string
}

// Candidate is a fuzzy-match proposal with a normalized confidence in [0, 1].
type Candidate struct {
	ShadeID    int64
	Display    string
	Confidence float64
}
