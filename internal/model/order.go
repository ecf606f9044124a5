package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// rank orders the forward path; cancelled sits outside it.
var statusRank = map[OrderStatus]int{
	StatusPending:   0,
	StatusAccepted:  1,
	StatusShipped:   2,
	StatusCompleted: 3,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusAccepted, StatusShipped, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// HoldsStock reports whether stock for the order's lines is committed
// (decremented) while the order sits in this status.
func (s OrderStatus) HoldsStock() bool {
	return s == StatusAccepted || s == StatusShipped || s == StatusCompleted
}

// CanTransitionTo allows forward moves along pending → accepted → shipped →
// completed (steps may be skipped) and cancellation from any non-terminal
// status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	return ok && to > from
}

type Order struct {
	BaseModel
	Currency       string            `db:"currency" json:"currency"`
	SubtotalAmount decimal.Decimal   `db:"subtotal_amount" json:"subtotal_amount"`
	TotalAmount    decimal.Decimal   `db:"total_amount" json:"total_amount"`
	Status         OrderStatus       `db:"status" json:"status"`
	Contact        types.JSONText    `db:"contact" json:"contact"`
	Notes          string            `db:"notes" json:"notes"`
	Items          []OrderItemLine   `db:"-" json:"items,omitempty"`
	Charges        []OrderChargeLine `db:"-" json:"charges,omitempty"`
}

type ChargeLineType string

const (
	ChargeLineCharge   ChargeLineType = "charge"
	ChargeLineDiscount ChargeLineType = "discount"
)

// OrderChargeLine records one component (shipping, coupon, tax, fee,
// discount) of an order's total. Never updated after insert.
type OrderChargeLine struct {
	ID             string          `db:"id" json:"id"`
	OrderID        string          `db:"order_id" json:"order_id"`
	Type           ChargeLineType  `db:"type" json:"type"`
	CalcType       string          `db:"calc_type" json:"calc_type"`
	BaseAmount     decimal.Decimal `db:"base_amount" json:"base_amount"`
	AppliedAmount  decimal.Decimal `db:"applied_amount" json:"applied_amount"`
	DeliveryID     *string         `db:"delivery_id" json:"delivery_id"`
	CouponID       *string         `db:"coupon_id" json:"coupon_id"`
	ChargeOptionID *string         `db:"charge_option_id" json:"charge_option_id"`
	Metadata       types.JSONText  `db:"metadata" json:"metadata"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// OrderItemLine snapshots what was sold and at what price. Never updated
// after insert.
type OrderItemLine struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	VariantID   *string         `db:"variant_id" json:"variant_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	VariantName *string         `db:"variant_name" json:"variant_name"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
	SKU         *string         `db:"sku" json:"sku"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Contact holds the display fields read from an order's contact snapshot.
// The snapshot itself is stored as an opaque blob.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ContactFromSnapshot extracts display fields, tolerating missing or
// malformed blobs.
func ContactFromSnapshot(raw types.JSONText) Contact {
	var c Contact
	if len(raw) == 0 {
		return c
	}
	_ = json.Unmarshal(raw, &c)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return c
}
