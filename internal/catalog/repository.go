package catalog

import (
	"context"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

type Repository interface {
	// FindProductsByIDs returns the products that exist, with Category
	// populated when the product has one.
	FindProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindVariantsByIDs(ctx context.Context, ids []string) ([]model.ProductVariant, error)
}
