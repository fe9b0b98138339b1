package api

import (
	"context"
	"strings"

	"lacquer/internal/inventory"
)

// InventoryService exposes read-only inventory queries returning API DTOs.
type InventoryService struct {
	store       *inventory.Store
	defaultUser string
}

// NewInventoryService constructs an InventoryService around the store.
func NewInventoryService(store *inventory.Store, defaultUser string) *InventoryService {
	if store == nil {
		return nil
	}
	return &InventoryService{store: store, defaultUser: defaultUser}
}

// List returns a user's inventory, newest update first.
func (s *InventoryService) List(ctx context.Context, userID string) ([]InventoryItem, error) {
	if strings.TrimSpace(userID) == "" {
		userID = s.defaultUser
	}
	items, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]InventoryItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromInventoryItem(item))
	}
	return out, nil
}
