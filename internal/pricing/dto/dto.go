package dto

import (
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/shopspring/decimal"
)

// PricedLine is a cart line whose unit price already comes from
// authoritative data.
type PricedLine struct {
	ProductID  string
	VariantID  *string
	Quantity   int64
	UnitPrice  decimal.Decimal
	UnitWeight decimal.Decimal // grams
}

type TotalsInput struct {
	Lines      []PricedLine
	DeliveryID *string
	CouponCode *string
}

type DeliveryQuote struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	CalcType string          `json:"calc_type"` // weight_rule | flat
	RuleID   *string         `json:"rule_id,omitempty"`
	Weight   decimal.Decimal `json:"weight"`
}

type DiscountQuote struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Amount   decimal.Decimal `json:"amount"`
	CalcType model.CalcType  `json:"calc_type"`
	Value    decimal.Decimal `json:"value"`
}

type ChargeQuote struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Amount   decimal.Decimal  `json:"amount"`
	Type     model.ChargeType `json:"type"`
	CalcType model.CalcType   `json:"calc_type"`
	Value    decimal.Decimal  `json:"value"`
}

// Totals is the only source of truth handed to the order writer.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Weight   decimal.Decimal `json:"weight"`
	Delivery *DeliveryQuote  `json:"delivery,omitempty"`
	Discount *DiscountQuote  `json:"discount,omitempty"`
	Charges  []ChargeQuote   `json:"charges"`
	Total    decimal.Decimal `json:"total"`
}
