package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

type Inventory struct {
	ID            string          `db:"id" json:"id"`
	ProductID     string          `db:"product_id" json:"product_id"`
	VariantID     *string         `db:"variant_id" json:"variant_id"`
	Quantity      int64           `db:"quantity" json:"quantity"`
	SalePrice     decimal.Decimal `db:"sale_price" json:"sale_price"`
	DiscountType  DiscountType    `db:"discount_type" json:"discount_type"`
	DiscountValue decimal.Decimal `db:"discount_value" json:"discount_value"`
	Unit          string          `db:"unit" json:"unit"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// FinalPrice is the sale price after the record's own discount, rounded to
// cents and never negative.
func (i *Inventory) FinalPrice() decimal.Decimal {
	price := i.SalePrice
	switch i.DiscountType {
	case DiscountPercent:
		price = price.Sub(price.Mul(i.DiscountValue).Div(decimal.NewFromInt(100)))
	case DiscountAmount:
		price = price.Sub(i.DiscountValue)
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price.Round(2)
}

type MovementType string

const (
	MovementOrderCommit  MovementType = "order_commit"
	MovementOrderRelease MovementType = "order_release"
	MovementCompensation MovementType = "compensation"
)

type InventoryMovement struct {
	ID             string       `db:"id" json:"id"`
	InventoryID    string       `db:"inventory_id" json:"inventory_id"`
	ProductID      string       `db:"product_id" json:"product_id"`
	VariantID      *string      `db:"variant_id" json:"variant_id"`
	MovementType   MovementType `db:"movement_type" json:"movement_type"`
	QuantityChange int64        `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int64        `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int64        `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string      `db:"reference_type" json:"reference_type"`
	ReferenceID    *string      `db:"reference_id" json:"reference_id"`
	Notes          string       `db:"notes" json:"notes"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
