package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartItem is a client-submitted line. UnitPrice is untrusted and only used
// when no inventory record prices the product.
type CartItem struct {
	ProductID string           `json:"productId"`
	VariantID *string          `json:"variantId,omitempty"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
}

type CheckoutInput struct {
	Items      []CartItem      `json:"items"`
	Currency   string          `json:"currency,omitempty"`
	Contact    json.RawMessage `json:"contact,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	DeliveryID *string         `json:"deliveryId,omitempty"`
	CouponCode *string         `json:"couponCode,omitempty"`
}
