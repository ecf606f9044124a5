package dto

import (
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// OrderDraft is a fully priced order ready to be persisted. IDs, order
// references and timestamps are assigned by the writer.
type OrderDraft struct {
	Currency string
	Subtotal decimal.Decimal
	Total    decimal.Decimal
	Contact  types.JSONText
	Notes    string
	Charges  []model.OrderChargeLine
	Items    []model.OrderItemLine
}

type CustomerFilters struct {
	Search   string
	Page     int
	PageSize int
}
