package dto

import "github.com/fekuna/omnipos-checkout-service/internal/model"

type StockAdjustment struct {
	InventoryID    string  `json:"inventory_id"`
	ProductID      string  `json:"product_id"`
	VariantID      *string `json:"variant_id,omitempty"`
	QuantityBefore int64   `json:"quantity_before"`
	QuantityAfter  int64   `json:"quantity_after"`
}

// Warning is a non-fatal condition met during a transition, e.g. an order
// line whose inventory row no longer exists.
type Warning struct {
	Code      string  `json:"code"`
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Message   string  `json:"message"`
}

type TransitionResult struct {
	Order       *model.Order      `json:"order"`
	Changed     bool              `json:"changed"`
	Adjustments []StockAdjustment `json:"adjustments"`
	Warnings    []Warning         `json:"warnings"`
}
