package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// SeedFile is the on-disk shape of a catalog seed document.
type SeedFile struct {
	Brands []SeedBrand `json:"brands"`
}

// SeedBrand groups a brand's shades for import.
type SeedBrand struct {
	Name   string      `json:"name"`
	Shades []SeedShade `json:"shades"`
}

// SeedShade describes one importable shade with its barcodes.
type SeedShade struct {
	Name   string   `json:"name"`
	Finish string   `json:"finish,omitempty"`
	GTINs  []string `json:"gtins,omitempty"`
}

// SeedCounts summarizes an import.
type SeedCounts struct {
	Brands int
	Shades int
	SKUs   int
}

// ImportSeed loads a JSON seed file into the catalog. Existing brands and
// shades are reused, so re-running an import is safe; duplicate GTINs fail
// because barcodes are globally unique.
func (s *Store) ImportSeed(ctx context.Context, path string) (SeedCounts, error) {
	var counts SeedCounts

	data, err := os.ReadFile(path)
	if err != nil {
		return counts, fmt.Errorf("read seed file: %w", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return counts, fmt.Errorf("parse seed file: %w", err)
	}

	for _, sb := range seed.Brands {
		brand, err := s.AddBrand(ctx, sb.Name)
		if err != nil {
			return counts, fmt.Errorf("seed brand %q: %w", sb.Name, err)
		}
		counts.Brands++

		for _, ss := range sb.Shades {
			shade, err := s.AddShade(ctx, brand.ID, ss.Name, ss.Finish)
			if err != nil {
				return counts, fmt.Errorf("seed shade %q/%q: %w", sb.Name, ss.Name, err)
			}
			counts.Shades++

			for _, gtin := range ss.GTINs {
				if existing, err := s.FindByBarcode(ctx, gtin); err != nil {
					return counts, err
				} else if existing != nil {
					continue
				}
				if _, err := s.AddSKU(ctx, shade.ID, gtin, ""); err != nil {
					return counts, fmt.Errorf("seed sku %q: %w", gtin, err)
				}
				counts.SKUs++
			}
		}
	}
	return counts, nil
}
