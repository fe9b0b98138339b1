package catalog_test

import (
	"context"
	"testing"

	"lacquer/internal/catalog"
	"lacquer/internal/testsupport"
)

func newStore(t *testing.T) *catalog.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	database := testsupport.MustOpenDB(t, cfg)
	return catalog.NewStore(database)
}

func TestFindByBarcode(t *testing.T) {
	store := newStore(t)
	shadeID := testsupport.SeedShade(t, store, "OPI", "Bubble Bath", "creme")
	testsupport.SeedSKU(t, store, shadeID, "0094100005171")

	ctx := context.Background()
	match, err := store.FindByBarcode(ctx, "0094100005171")
	if err != nil {
		t.Fatalf("FindByBarcode failed: %v", err)
	}
	if match == nil || match.ShadeID != shadeID {
		t.Fatalf("unexpected match: %#v", match)
	}
	if match.Display != "OPI — Bubble Bath" {
		t.Fatalf("unexpected display: %q", match.Display)
	}

	missing, err := store.FindByBarcode(ctx, "0000000000000")
	if err != nil {
		t.Fatalf("FindByBarcode failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected no match, got %#v", missing)
	}
}

func TestSearchShadesExactNameScoresHighest(t *testing.T) {
	store := newStore(t)
	want := testsupport.SeedShade(t, store, "OPI", "Bubble Bath", "creme")
	testsupport.SeedShade(t, store, "OPI", "Bubble Gum", "creme")
	testsupport.SeedShade(t, store, "Essie", "Ballet Slippers", "sheer")

	candidates, err := store.SearchShades(context.Background(), "Bubble Bath", "", 5)
	if err != nil {
		t.Fatalf("SearchShades failed: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}
	if candidates[0].ShadeID != want {
		t.Fatalf("expected exact name first, got %#v", candidates[0])
	}
	if candidates[0].Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0 for exact name, got %v", candidates[0].Confidence)
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Confidence > candidates[i-1].Confidence {
			t.Fatalf("candidates not sorted descending: %#v", candidates)
		}
	}
}

func TestSearchShadesBrandFilter(t *testing.T) {
	store := newStore(t)
	opi := testsupport.SeedShade(t, store, "OPI", "Big Apple Red", "creme")
	testsupport.SeedShade(t, store, "Essie", "Really Red", "creme")

	candidates, err := store.SearchShades(context.Background(), "apple red", "OPI", 5)
	if err != nil {
		t.Fatalf("SearchShades failed: %v", err)
	}
	for _, c := range candidates {
		if c.ShadeID != opi {
			t.Fatalf("brand filter leaked other brands: %#v", candidates)
		}
	}
}

func TestSearchShadesUnknownBrandFallsBack(t *testing.T) {
	store := newStore(t)
	testsupport.SeedShade(t, store, "OPI", "Bubble Bath", "creme")

	candidates, err := store.SearchShades(context.Background(), "Bubble Bath", "No Such Brand", 5)
	if err != nil {
		t.Fatalf("SearchShades failed: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected fallback to the whole catalog")
	}
}

func TestSearchShadesDiacriticsFold(t *testing.T) {
	store := newStore(t)
	want := testsupport.SeedShade(t, store, "Essie", "Crème Brûlée", "creme")

	candidates, err := store.SearchShades(context.Background(), "creme brulee", "", 5)
	if err != nil {
		t.Fatalf("SearchShades failed: %v", err)
	}
	if len(candidates) == 0 || candidates[0].ShadeID != want {
		t.Fatalf("expected folded match, got %#v", candidates)
	}
	if candidates[0].Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", candidates[0].Confidence)
	}
}

func TestSearchShadesEmptyQuery(t *testing.T) {
	store := newStore(t)
	testsupport.SeedShade(t, store, "OPI", "Bubble Bath", "creme")

	candidates, err := store.SearchShades(context.Background(), "   ", "", 5)
	if err != nil {
		t.Fatalf("SearchShades failed: %v", err)
	}
	if candidates != nil {
		t.Fatalf("expected nil candidates for empty query, got %#v", candidates)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bubble Bath", "bubble bath"},
		{"Crème Brûlée", "creme brulee"},
		{"Cajun Shrimp!", "cajun shrimp"},
		{"Black & White", "black and white"},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := catalog.Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
