package pricing

import (
	"context"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing/dto"
)

type UseCase interface {
	// LookupCoupon checks that a code exists, is active and is inside its
	// validity window. It does not look at the order amount.
	LookupCoupon(ctx context.Context, code string) (*model.Coupon, error)
	Calculate(ctx context.Context, input *dto.TotalsInput) (*dto.Totals, error)
}
