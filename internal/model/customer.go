package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a read-only projection over order contact snapshots, grouped
// by normalized email. There is no customer table.
type Customer struct {
	Email       string          `db:"email" json:"email"`
	Name        string          `db:"name" json:"name"`
	Phone       string          `db:"phone" json:"phone"`
	OrderCount  int             `db:"order_count" json:"order_count"`
	TotalSpent  decimal.Decimal `db:"total_spent" json:"total_spent"`
	LastOrderAt time.Time       `db:"last_order_at" json:"last_order_at"`
}
