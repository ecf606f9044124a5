package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type pricingUseCase struct {
	repo   pricing.Repository
	now    func() time.Time
	logger logger.ZapLogger
}

func NewPricingUseCase(repo pricing.Repository, clock func() time.Time, log logger.ZapLogger) pricing.UseCase {
	if clock == nil {
		clock = time.Now
	}
	return &pricingUseCase{
		repo:   repo,
		now:    clock,
		logger: log,
	}
}

// Calculate composes the order total. The steps run in a fixed order:
// subtotal, coupon, shipping, then charges. Percent charges always use the
// undiscounted subtotal.
func (uc *pricingUseCase) Calculate(ctx context.Context, input *dto.TotalsInput) (*dto.Totals, error) {
	totals := &dto.Totals{
		Subtotal: decimal.Zero,
		Weight:   decimal.Zero,
		Charges:  []dto.ChargeQuote{},
	}

	// 1. Subtotal
	for _, line := range input.Lines {
		qty := decimal.NewFromInt(line.Quantity)
		totals.Subtotal = totals.Subtotal.Add(line.UnitPrice.Mul(qty))
		totals.Weight = totals.Weight.Add(line.UnitWeight.Mul(qty))
	}
	totals.Subtotal = roundMoney(totals.Subtotal)
	running := totals.Subtotal

	// 2. Coupon
	if input.CouponCode != nil && *input.CouponCode != "" {
		coupon, err := uc.LookupCoupon(ctx, *input.CouponCode)
		if err != nil {
			return nil, err
		}
		discount, err := ApplyCoupon(coupon, totals.Subtotal)
		if err != nil {
			return nil, err
		}
		totals.Discount = &dto.DiscountQuote{
			ID:       coupon.ID,
			Code:     coupon.Code,
			Amount:   discount,
			CalcType: coupon.CalcType,
			Value:    coupon.Amount,
		}
		running = running.Sub(discount)
	}

	// 3. Shipping
	if input.DeliveryID != nil && *input.DeliveryID != "" {
		quote, err := uc.quoteDelivery(ctx, *input.DeliveryID, totals.Weight)
		if err != nil {
			return nil, err
		}
		totals.Delivery = quote
		running = running.Add(quote.Amount)
	}

	// 4. Store-wide charges
	charges, err := uc.repo.ListActiveCharges(ctx)
	if err != nil {
		uc.logger.Error("failed to list charge options", zap.Error(err))
		return nil, apperror.Internal("failed to load charges", err)
	}
	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].SortOrder < charges[j].SortOrder
	})
	for _, c := range charges {
		if !c.IsActive {
			continue
		}
		quote := applyCharge(c, totals.Subtotal)
		if c.Type == model.ChargeDiscount {
			running = running.Sub(quote.Amount)
		} else {
			running = running.Add(quote.Amount)
		}
		totals.Charges = append(totals.Charges, quote)
	}

	// 5. Never negative
	if running.IsNegative() {
		running = decimal.Zero
	}
	totals.Total = roundMoney(running)

	return totals, nil
}

func (uc *pricingUseCase) quoteDelivery(ctx context.Context, deliveryID string, weight decimal.Decimal) (*dto.DeliveryQuote, error) {
	option, err := uc.repo.FindDeliveryByID(ctx, deliveryID)
	if err != nil {
		uc.logger.Error("failed to load delivery option", zap.String("delivery_id", deliveryID), zap.Error(err))
		return nil, apperror.Internal("failed to load delivery option", err)
	}
	if option == nil || !option.IsActive {
		return nil, apperror.NotFound(apperror.CodeDeliveryNotFound, "Delivery option not found")
	}

	rules, err := uc.repo.ListWeightRules(ctx, deliveryID)
	if err != nil {
		uc.logger.Error("failed to load weight rules", zap.String("delivery_id", deliveryID), zap.Error(err))
		return nil, apperror.Internal("failed to load weight rules", err)
	}

	quote := ResolveShipping(weight, option, rules)
	return &quote, nil
}

func applyCharge(c model.ChargeOption, subtotal decimal.Decimal) dto.ChargeQuote {
	amount := c.Amount
	if c.CalcType == model.CalcPercent {
		amount = subtotal.Mul(c.Amount).Div(hundred)
	}
	amount = roundMoney(amount)
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return dto.ChargeQuote{
		ID:       c.ID,
		Label:    c.Label,
		Amount:   amount,
		Type:     c.Type,
		CalcType: c.CalcType,
		Value:    c.Amount,
	}
}
