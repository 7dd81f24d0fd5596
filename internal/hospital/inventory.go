package hospital

import (
	"context"
	"fmt"
	"strings"

	"avicenna.org/internal/ids"
)

// InventoryService owns stock items and quantity adjustments.
type InventoryService struct {
	store Store[InventoryItem]
	seq   *ids.Sequence
}

// NewInventoryService creates the service over the given store.
func NewInventoryService(store Store[InventoryItem]) *InventoryService {
	return &InventoryService{
		store: store,
		seq:   ids.NewSequence("INV", 101),
	}
}

func validateItemFields(item InventoryItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidArgument)
	}
	if item.UnitPrice <= 0 {
		return fmt.Errorf("%w: unit price must be > 0", ErrInvalidArgument)
	}
	return nil
}

// Add validates the item, assigns its ID and stores it.
func (s *InventoryService) Add(ctx context.Context, item InventoryItem) (InventoryItem, error) {
	if err := validateItemFields(item); err != nil {
		return InventoryItem{}, err
	}
	if item.Quantity < 0 {
		return InventoryItem{}, fmt.Errorf("%w: quantity must be >= 0", ErrInvalidArgument)
	}
	item.ID = s.seq.Next()
	if err := s.store.Insert(ctx, item); err != nil {
		return InventoryItem{}, err
	}
	return item, nil
}

// AddStock increases the quantity by amount.
func (s *InventoryService) AddStock(ctx context.Context, id string, amount int64) (InventoryItem, error) {
	if amount <= 0 {
		return InventoryItem{}, fmt.Errorf("%w: amount must be > 0", ErrInvalidArgument)
	}
	return s.store.Mutate(ctx, id, func(item InventoryItem) (InventoryItem, error) {
		item.Quantity += amount
		return item, nil
	})
}

// RemoveStock decreases the quantity by amount. Removing more than is
// available is rejected outright, never clamped; the check and the
// write share one lock so quantity is never observably negative.
func (s *InventoryService) RemoveStock(ctx context.Context, id string, amount int64) (InventoryItem, error) {
	if amount <= 0 {
		return InventoryItem{}, fmt.Errorf("%w: amount must be > 0", ErrInvalidArgument)
	}
	return s.store.Mutate(ctx, id, func(item InventoryItem) (InventoryItem, error) {
		if amount > item.Quantity {
			return InventoryItem{}, fmt.Errorf("%w: cannot remove %d, only %d in stock", ErrInvalidArgument, amount, item.Quantity)
		}
		item.Quantity -= amount
		return item, nil
	})
}

// Update edits name and price. Quantity changes go through AddStock and
// RemoveStock; the stored quantity is preserved.
func (s *InventoryService) Update(ctx context.Context, item InventoryItem) (InventoryItem, error) {
	if err := validateItemFields(item); err != nil {
		return InventoryItem{}, err
	}
	return s.store.Mutate(ctx, item.ID, func(stored InventoryItem) (InventoryItem, error) {
		stored.Name = item.Name
		stored.UnitPrice = item.UnitPrice
		return stored, nil
	})
}

func (s *InventoryService) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

func (s *InventoryService) FindByID(ctx context.Context, id string) (InventoryItem, error) {
	return s.store.FindByID(ctx, id)
}

func (s *InventoryService) FindAll(ctx context.Context) ([]InventoryItem, error) {
	return s.store.FindAll(ctx)
}
