package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-checkout-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("inventory record not found")
)

type Repository interface {
	// Pricing lookups. FindForPricing is scoped to the variant, or to
	// variant-less rows when variantID is nil.
	FindForPricing(ctx context.Context, productID string, variantID *string) ([]model.Inventory, error)
	FindAnyByProduct(ctx context.Context, productID string) ([]model.Inventory, error)

	// FindForLine returns the record stock adjustments apply to, or nil.
	FindForLine(ctx context.Context, productID string, variantID *string) (*model.Inventory, error)

	// AdjustStockWithMovement atomically adds delta to the record's quantity
	// and logs the movement. It fails with ErrInsufficientStock instead of
	// letting quantity go negative.
	AdjustStockWithMovement(ctx context.Context, inventoryID string, delta int64, movement *model.InventoryMovement) (*model.Inventory, error)

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
