package model

import "github.com/shopspring/decimal"

type DeliveryOption struct {
	ID        string          `db:"id" json:"id"`
	Label     string          `db:"label" json:"label"`
	Amount    decimal.Decimal `db:"amount" json:"amount"` // flat fallback
	IsDefault bool            `db:"is_default" json:"is_default"`
	IsActive  bool            `db:"is_active" json:"is_active"`
}

type RoundingMode string

const (
	RoundFloor RoundingMode = "floor"
	RoundHalf  RoundingMode = "round"
	RoundCeil  RoundingMode = "ceil"
)

type WeightRule struct {
	ID                string              `db:"id" json:"id"`
	DeliveryID        string              `db:"delivery_id" json:"delivery_id"`
	MinWeight         decimal.Decimal     `db:"min_weight" json:"min_weight"`
	MaxWeight         decimal.NullDecimal `db:"max_weight" json:"max_weight"` // null = unbounded
	BaseCharge        decimal.Decimal     `db:"base_charge" json:"base_charge"`
	BaseWeight        decimal.Decimal     `db:"base_weight" json:"base_weight"`
	UnitWeight        decimal.Decimal     `db:"unit_weight" json:"unit_weight"`
	IncrementalCharge decimal.Decimal     `db:"incremental_charge" json:"incremental_charge"`
	Rounding          RoundingMode        `db:"rounding" json:"rounding"`
	SortOrder         int                 `db:"sort_order" json:"sort_order"`
	IsActive          bool                `db:"is_active" json:"is_active"`
}
