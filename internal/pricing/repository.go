package pricing

import (
	"context"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

type Repository interface {
	// Delivery
	FindDeliveryByID(ctx context.Context, id string) (*model.DeliveryOption, error)
	ListWeightRules(ctx context.Context, deliveryID string) ([]model.WeightRule, error)

	// Coupons, looked up by upper-cased code
	FindCouponByCode(ctx context.Context, code string) (*model.Coupon, error)

	// Store-wide taxes, fees and flat discounts, ordered by sort_order
	ListActiveCharges(ctx context.Context) ([]model.ChargeOption, error)
}
