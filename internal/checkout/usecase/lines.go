package usecase

import (
	"encoding/json"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	pricingdto "github.com/fekuna/omnipos-checkout-service/internal/pricing/dto"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// unitWeight is the variant's weight when it has one, else the product's.
func unitWeight(l cartLine, products map[string]model.Product, variants map[string]model.ProductVariant) decimal.Decimal {
	if l.VariantID != nil {
		if v, ok := variants[*l.VariantID]; ok && v.Weight.Valid {
			return v.Weight.Decimal
		}
	}
	if p, ok := products[l.ProductID]; ok {
		return p.Weight
	}
	return decimal.Zero
}

func lineTotal(l cartLine) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)).Round(2)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// itemLines snapshots names and SKUs so the order stays readable after the
// catalog changes.
func itemLines(p *priced) []model.OrderItemLine {
	items := make([]model.OrderItemLine, len(p.lines))
	for i, l := range p.lines {
		product := p.products[l.ProductID]

		item := model.OrderItemLine{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   lineTotal(l),
		}

		sku := product.SKU
		if l.VariantID != nil {
			if v, ok := p.variants[*l.VariantID]; ok {
				item.VariantName = nonEmpty(v.VariantName)
				if v.SKU != "" {
					sku = v.SKU
				}
			}
		}
		if sku == "" {
			sku = l.SKUHint
		}
		item.SKU = nonEmpty(sku)

		items[i] = item
	}
	return items
}

func metadata(fields map[string]any) (types.JSONText, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return types.JSONText(b), nil
}

// chargeLines turns the totals breakdown into the order's audit rows:
// shipping, then the coupon, then store charges in their applied order.
func chargeLines(t *pricingdto.Totals) ([]model.OrderChargeLine, error) {
	lines := []model.OrderChargeLine{}

	if d := t.Delivery; d != nil {
		meta, err := metadata(map[string]any{"label": d.Label, "weight": d.Weight, "rule_id": d.RuleID})
		if err != nil {
			return nil, err
		}
		id := d.ID
		lines = append(lines, model.OrderChargeLine{
			Type:          model.ChargeLineCharge,
			CalcType:      d.CalcType,
			BaseAmount:    d.Amount,
			AppliedAmount: d.Amount,
			DeliveryID:    &id,
			Metadata:      meta,
		})
	}

	if c := t.Discount; c != nil {
		meta, err := metadata(map[string]any{"label": c.Code, "code": c.Code})
		if err != nil {
			return nil, err
		}
		id := c.ID
		lines = append(lines, model.OrderChargeLine{
			Type:          model.ChargeLineDiscount,
			CalcType:      string(c.CalcType),
			BaseAmount:    c.Value,
			AppliedAmount: c.Amount,
			CouponID:      &id,
			Metadata:      meta,
		})
	}

	for _, c := range t.Charges {
		meta, err := metadata(map[string]any{"label": c.Label, "type": c.Type})
		if err != nil {
			return nil, err
		}
		lineType := model.ChargeLineCharge
		if c.Type == model.ChargeDiscount {
			lineType = model.ChargeLineDiscount
		}
		id := c.ID
		lines = append(lines, model.OrderChargeLine{
			Type:           lineType,
			CalcType:       string(c.CalcType),
			BaseAmount:     c.Value,
			AppliedAmount:  c.Amount,
			ChargeOptionID: &id,
			Metadata:       meta,
		})
	}

	return lines, nil
}
