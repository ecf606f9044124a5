package model

import "github.com/shopspring/decimal"

type ChargeType string

const (
	ChargeTax      ChargeType = "tax"
	ChargeFee      ChargeType = "fee"
	ChargeCharge   ChargeType = "charge"
	ChargeDiscount ChargeType = "discount"
)

// ChargeOption is a store-wide tax, fee or flat discount applied to every
// order while active.
type ChargeOption struct {
	ID        string          `db:"id" json:"id"`
	Label     string          `db:"label" json:"label"`
	CalcType  CalcType        `db:"calc_type" json:"calc_type"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Type      ChargeType      `db:"type" json:"type"`
	IsActive  bool            `db:"is_active" json:"is_active"`
	SortOrder int             `db:"sort_order" json:"sort_order"`
}
