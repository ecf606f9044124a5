package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (uc *pricingUseCase) LookupCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return nil, apperror.Validation(apperror.CodeInvalidCoupon, "Coupon code is invalid")
	}

	coupon, err := uc.repo.FindCouponByCode(ctx, normalized)
	if err != nil {
		uc.logger.Error("failed to load coupon", zap.String("code", normalized), zap.Error(err))
		return nil, apperror.Internal("failed to load coupon", err)
	}
	if coupon == nil || !coupon.IsActive {
		return nil, apperror.Validationf(apperror.CodeInvalidCoupon, "Coupon code %s is invalid", normalized)
	}

	now := uc.now()
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return nil, apperror.Validationf(apperror.CodeCouponNotYetValid, "Coupon %s is not valid yet", normalized)
	}
	if coupon.ValidTo != nil && now.After(*coupon.ValidTo) {
		return nil, apperror.Validationf(apperror.CodeCouponExpired, "Coupon %s has expired", normalized)
	}

	return coupon, nil
}

// ApplyCoupon computes the discount a valid coupon grants on subtotal. The
// result is never more than the subtotal.
func ApplyCoupon(coupon *model.Coupon, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if coupon.MinOrderAmount.Valid && subtotal.LessThan(coupon.MinOrderAmount.Decimal) {
		return decimal.Zero, apperror.Validationf(apperror.CodeMinimumOrderNotMet,
			"Minimum order of %s is required to use coupon %s",
			coupon.MinOrderAmount.Decimal.StringFixed(2), coupon.Code)
	}

	var discount decimal.Decimal
	if coupon.CalcType == model.CalcPercent {
		discount = subtotal.Mul(coupon.Amount).Div(hundred)
	} else {
		discount = coupon.Amount
	}

	discount = roundMoney(discount)
	if discount.IsNegative() {
		return decimal.Zero, nil
	}
	return decimal.Min(discount, subtotal), nil
}
