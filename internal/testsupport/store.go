package testsupport

import (
	"context"
	"testing"

	"lacquer/internal/catalog"
	"lacquer/internal/config"
	"lacquer/internal/db"
)

// MustOpenDB opens the shared database for tests and registers cleanup.
func MustOpenDB(t testing.TB, cfg *config.Config) *db.DB {
	t.Helper()

	database, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

// SeedShade inserts a brand/shade pair and returns the shade id.
func SeedShade(t testing.TB, store *catalog.Store, brand, shade, finish string) int64 {
	t.Helper()

	b, err := store.AddBrand(context.Background(), brand)
	if err != nil {
		t.Fatalf("AddBrand %q: %v", brand, err)
	}
	s, err := store.AddShade(context.Background(), b.ID, shade, finish)
	if err != nil {
		t.Fatalf("AddShade %q: %v", shade, err)
	}
	return s.ID
}

// SeedSKU attaches a barcode to an existing shade.
func SeedSKU(t testing.TB, store *catalog.Store, shadeID int64, gtin string) {
	t.Helper()

	if _, err := store.AddSKU(context.Background(), shadeID, gtin, ""); err != nil {
		t.Fatalf("AddSKU %q: %v", gtin, err)
	}
}
