package inventory_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"lacquer/internal/catalog"
	"lacquer/internal/inventory"
	"lacquer/internal/testsupport"
)

func TestApplyMatchUpsertsByUserAndShade(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	database := testsupport.MustOpenDB(t, cfg)
	shadeID := testsupport.SeedShade(t, catalog.NewStore(database), "OPI", "Bubble Bath", "creme")
	store := inventory.NewStore(database)
	ctx := context.Background()

	apply := func() {
		t.Helper()
		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			return inventory.ApplyMatchTx(tx, "ada", shadeID, "", time.Now().UTC())
		})
		if err != nil {
			t.Fatalf("ApplyMatchTx: %v", err)
		}
	}

	apply()
	apply()

	items, err := store.List(ctx, "ada")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %+v, want a single row per shade", items)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", items[0].Quantity)
	}
	if items[0].Brand != "OPI" || items[0].ShadeName != "Bubble Bath" {
		t.Fatalf("display fields = %+v", items[0])
	}

	other, err := store.List(ctx, "grace")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("inventory leaked across users: %+v", other)
	}
}
