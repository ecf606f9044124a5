package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing"
)

type Pricing struct{ store *Store }

func NewPricing(store *Store) *Pricing { return &Pricing{store: store} }

var _ pricing.Repository = (*Pricing)(nil)

func (p *Pricing) FindDeliveryByID(ctx context.Context, id string) (*model.DeliveryOption, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	d, ok := p.store.deliveries[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (p *Pricing) ListWeightRules(ctx context.Context, deliveryID string) ([]model.WeightRule, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	out := []model.WeightRule{}
	for _, r := range p.store.weightRules {
		if r.DeliveryID == deliveryID && r.IsActive {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].MinWeight.LessThan(out[j].MinWeight)
	})
	return out, nil
}

func (p *Pricing) FindCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	for _, c := range p.store.coupons {
		if strings.ToUpper(c.Code) == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (p *Pricing) ListActiveCharges(ctx context.Context) ([]model.ChargeOption, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	out := []model.ChargeOption{}
	for _, c := range p.store.charges {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}
