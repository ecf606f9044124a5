package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID *string         `db:"category_id" json:"category_id"` // Nullable
	SKU        string          `db:"sku" json:"sku"`
	Name       string          `db:"name" json:"name"`
	Weight     decimal.Decimal `db:"weight" json:"weight"` // grams per unit
	IsActive   bool            `db:"is_active" json:"is_active"`
	IsDeleted  bool            `db:"is_deleted" json:"is_deleted"`
	Category   *Category       `db:"-" json:"category"` // Joined data
}

// Sellable reports whether the product and its category (if any) may be sold.
func (p *Product) Sellable() bool {
	if !p.IsActive || p.IsDeleted {
		return false
	}
	if p.Category != nil && !p.Category.Sellable() {
		return false
	}
	return true
}

type ProductVariant struct {
	BaseModel
	ProductID   string              `db:"product_id" json:"product_id"`
	SKU         string              `db:"sku" json:"sku"`
	VariantName string              `db:"variant_name" json:"variant_name"`
	Weight      decimal.NullDecimal `db:"weight" json:"weight"` // overrides product weight when set
	IsActive    bool                `db:"is_active" json:"is_active"`
}
