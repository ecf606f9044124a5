package catalog

import (
	"context"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

// Guard verifies at commit time that every product in a cart can be sold.
type Guard interface {
	// Check returns the sellable products keyed by id, or a validation error
	// naming the offending products.
	Check(ctx context.Context, productIDs []string) (map[string]model.Product, error)
	// Variants returns the requested variants keyed by id, or a validation
	// error when one is missing, inactive or belongs to another product.
	Variants(ctx context.Context, refs []VariantRef) (map[string]model.ProductVariant, error)
}

// VariantRef is a cart line's (product, variant) pair.
type VariantRef struct {
	ProductID string
	VariantID string
}
