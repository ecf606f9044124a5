package dto

import (
	pricingdto "github.com/fekuna/omnipos-checkout-service/internal/pricing/dto"
	"github.com/shopspring/decimal"
)

type PriceSource string

const (
	PriceFromInventory    PriceSource = "inventory"     // variant-scoped or variant-less rows
	PriceFromAnyInventory PriceSource = "inventory_any" // any row for the product
	PriceFromClient       PriceSource = "client"
)

type QuoteLine struct {
	ProductID   string          `json:"product_id"`
	VariantID   *string         `json:"variant_id,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	PriceSource PriceSource     `json:"price_source"`
}

type Quote struct {
	Currency string             `json:"currency"`
	Lines    []QuoteLine        `json:"lines"`
	Totals   *pricingdto.Totals `json:"totals"`
}
