package memstore

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-checkout-service/internal/inventory"
	"github.com/fekuna/omnipos-checkout-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

type Inventory struct{ store *Store }

func NewInventory(store *Store) *Inventory { return &Inventory{store: store} }

var _ inventory.Repository = (*Inventory)(nil)

func sameVariant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (i *Inventory) filter(match func(model.Inventory) bool) []model.Inventory {
	out := []model.Inventory{}
	for _, id := range i.store.inventoryKeys {
		inv := i.store.inventory[id]
		if match(inv) {
			out = append(out, inv)
		}
	}
	return out
}

func (i *Inventory) FindForPricing(ctx context.Context, productID string, variantID *string) ([]model.Inventory, error) {
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()
	return i.filter(func(inv model.Inventory) bool {
		return inv.ProductID == productID && sameVariant(inv.VariantID, variantID)
	}), nil
}

func (i *Inventory) FindAnyByProduct(ctx context.Context, productID string) ([]model.Inventory, error) {
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()
	return i.filter(func(inv model.Inventory) bool {
		return inv.ProductID == productID
	}), nil
}

func (i *Inventory) FindForLine(ctx context.Context, productID string, variantID *string) (*model.Inventory, error) {
	rows, _ := i.FindForPricing(ctx, productID, variantID)
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (i *Inventory) AdjustStockWithMovement(ctx context.Context, inventoryID string, delta int64, movement *model.InventoryMovement) (*model.Inventory, error) {
	i.store.mu.Lock()
	defer i.store.mu.Unlock()

	inv, ok := i.store.inventory[inventoryID]
	if !ok {
		return nil, inventory.ErrNotFound
	}
	next := inv.Quantity + delta
	if next < 0 {
		return nil, inventory.ErrInsufficientStock
	}

	movement.InventoryID = inv.ID
	movement.QuantityChange = delta
	movement.QuantityBefore = inv.Quantity
	movement.QuantityAfter = next

	inv.Quantity = next
	inv.UpdatedAt = i.store.now()
	i.store.inventory[inventoryID] = inv
	i.store.movements = append(i.store.movements, *movement)

	return &inv, nil
}

func (i *Inventory) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()

	out := []model.InventoryMovement{}
	for _, m := range i.store.movements {
		if f.ReferenceID != "" && (m.ReferenceID == nil || *m.ReferenceID != f.ReferenceID) {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.MovementType != "" && string(m.MovementType) != f.MovementType {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	total := len(out)
	return paginate(out, f.Page, f.PageSize), total, nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
