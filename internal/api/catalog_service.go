package api

import (
	"context"
	"strings"

	"lacquer/internal/capture"
	"lacquer/internal/catalog"
)

// CatalogService exposes catalog search and seeding returning API DTOs.
type CatalogService struct {
	store         *catalog.Store
	maxCandidates int
}

// NewCatalogService constructs a CatalogService around the store.
func NewCatalogService(store *catalog.Store, maxCandidates int) *CatalogService {
	if store == nil {
		return nil
	}
	if maxCandidates <= 0 {
		maxCandidates = 5
	}
	return &CatalogService{store: store, maxCandidates: maxCandidates}
}

// Search resolves a free-text query against the shade catalog.
func (s *CatalogService) Search(ctx context.Context, query, brand string) ([]Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, capture.Wrap(capture.ErrValidation, "api", "catalog search", "query is required", nil)
	}
	candidates, err := s.store.SearchShades(ctx, query, brand, s.maxCandidates)
	if err != nil {
		return nil, err
	}
	return FromCandidates(candidates), nil
}

// ImportSeed loads a catalog seed file, returning the created row counts.
func (s *CatalogService) ImportSeed(ctx context.Context, path string) (catalog.SeedCounts, error) {
	return s.store.ImportSeed(ctx, path)
}
