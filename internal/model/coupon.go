package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CalcType string

const (
	CalcPercent CalcType = "percent"
	CalcAmount  CalcType = "amount"
)

type Coupon struct {
	ID             string              `db:"id" json:"id"`
	Code           string              `db:"code" json:"code"` // stored upper-case
	CalcType       CalcType            `db:"calc_type" json:"calc_type"`
	Amount         decimal.Decimal     `db:"amount" json:"amount"`
	MinOrderAmount decimal.NullDecimal `db:"min_order_amount" json:"min_order_amount"`
	ValidFrom      *time.Time          `db:"valid_from" json:"valid_from"`
	ValidTo        *time.Time          `db:"valid_to" json:"valid_to"`
	IsActive       bool                `db:"is_active" json:"is_active"`
}
