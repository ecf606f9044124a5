package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-checkout-service/internal/memstore"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newCalculator(t *testing.T, seed func(s *memstore.Store)) pricing.UseCase {
	t.Helper()
	store := memstore.New()
	if seed != nil {
		seed(store)
	}
	return NewPricingUseCase(memstore.NewPricing(store), func() time.Time { return fixedNow }, logger.NewNop())
}

func cartOf(price string, qty int64, weight string) []dto.PricedLine {
	return []dto.PricedLine{{ProductID: "P1", Quantity: qty, UnitPrice: d(price), UnitWeight: d(weight)}}
}

func seedSave10(s *memstore.Store) {
	s.PutCoupon(model.Coupon{
		ID: "c-1", Code: "SAVE10", CalcType: model.CalcPercent, Amount: d("10"),
		MinOrderAmount: decimal.NewNullDecimal(d("50")), IsActive: true,
	})
}

func TestCalculateScenarioA(t *testing.T) {
	uc := newCalculator(t, nil)

	totals, err := uc.Calculate(context.Background(), &dto.TotalsInput{Lines: cartOf("50", 2, "1200")})
	require.NoError(t, err)

	assert.True(t, d("100").Equal(totals.Subtotal))
	assert.True(t, d("100").Equal(totals.Total))
	assert.Nil(t, totals.Discount)
	assert.Nil(t, totals.Delivery)
	assert.Empty(t, totals.Charges)
}

func TestCalculateScenarioB(t *testing.T) {
	uc := newCalculator(t, seedSave10)

	totals, err := uc.Calculate(context.Background(), &dto.TotalsInput{
		Lines:      cartOf("50", 2, "1200"),
		CouponCode: strPtr("save10"),
	})
	require.NoError(t, err)

	require.NotNil(t, totals.Discount)
	assert.Equal(t, "SAVE10", totals.Discount.Code)
	assert.True(t, d("10").Equal(totals.Discount.Amount))
	assert.True(t, d("90").Equal(totals.Total))
}

func TestCalculateScenarioC(t *testing.T) {
	uc := newCalculator(t, func(s *memstore.Store) {
		seedSave10(s)
		s.PutDelivery(model.DeliveryOption{ID: "dlv", Label: "Courier", Amount: d("20"), IsActive: true},
			model.WeightRule{
				ID: "r1", MinWeight: d("0"), BaseCharge: d("5"), BaseWeight: d("1000"),
				UnitWeight: d("500"), IncrementalCharge: d("2"), Rounding: model.RoundCeil, IsActive: true,
			})
	})

	totals, err := uc.Calculate(context.Background(), &dto.TotalsInput{
		Lines:      cartOf("50", 2, "1200"),
		CouponCode: strPtr("SAVE10"),
		DeliveryID: strPtr("dlv"),
	})
	require.NoError(t, err)

	assert.True(t, d("2400").Equal(totals.Weight))
	require.NotNil(t, totals.Delivery)
	assert.True(t, d("11").Equal(totals.Delivery.Amount))
	assert.True(t, d("101").Equal(totals.Total))
}

func TestCalculateChargesUseOriginalSubtotal(t *testing.T) {
	uc := newCalculator(t, func(s *memstore.Store) {
		seedSave10(s)
		s.PutDelivery(model.DeliveryOption{ID: "dlv", Label: "Flat", Amount: d("20"), IsActive: true})
		s.PutCharge(model.ChargeOption{ID: "vat", Label: "VAT 11%", CalcType: model.CalcPercent, Amount: d("11"), Type: model.ChargeTax, IsActive: true, SortOrder: 2})
		s.PutCharge(model.ChargeOption{ID: "svc", Label: "Service", CalcType: model.CalcAmount, Amount: d("2.5"), Type: model.ChargeFee, IsActive: true, SortOrder: 1})
		s.PutCharge(model.ChargeOption{ID: "promo", Label: "Store promo", CalcType: model.CalcPercent, Amount: d("5"), Type: model.ChargeDiscount, IsActive: true, SortOrder: 3})
		s.PutCharge(model.ChargeOption{ID: "off", Label: "Disabled", CalcType: model.CalcAmount, Amount: d("99"), Type: model.ChargeFee, IsActive: false})
	})

	totals, err := uc.Calculate(context.Background(), &dto.TotalsInput{
		Lines:      cartOf("50", 2, "0"),
		CouponCode: strPtr("SAVE10"),
		DeliveryID: strPtr("dlv"),
	})
	require.NoError(t, err)

	require.Len(t, totals.Charges, 3)
	assert.Equal(t, "svc", totals.Charges[0].ID)
	assert.Equal(t, "vat", totals.Charges[1].ID)
	assert.True(t, d("11").Equal(totals.Charges[1].Amount), "VAT on 100, not on 90+20")
	assert.True(t, d("5").Equal(totals.Charges[2].Amount))

	// 100 - 10 + 20 + 2.5 + 11 - 5
	assert.True(t, d("118.5").Equal(totals.Total), "got %s", totals.Total)
}

func TestCalculateTotalNeverNegative(t *testing.T) {
	uc := newCalculator(t, func(s *memstore.Store) {
		s.PutCoupon(model.Coupon{ID: "c", Code: "ALLOFF", CalcType: model.CalcAmount, Amount: d("500"), IsActive: true})
		s.PutCharge(model.ChargeOption{ID: "x", Label: "Flat discount", CalcType: model.CalcAmount, Amount: d("30"), Type: model.ChargeDiscount, IsActive: true})
	})

	totals, err := uc.Calculate(context.Background(), &dto.TotalsInput{
		Lines:      cartOf("20", 1, "0"),
		CouponCode: strPtr("alloff"),
	})
	require.NoError(t, err)

	assert.True(t, d("20").Equal(totals.Discount.Amount), "discount clamped to subtotal")
	assert.True(t, totals.Total.IsZero())
}

func TestCalculateUnknownDelivery(t *testing.T) {
	uc := newCalculator(t, func(s *memstore.Store) {
		s.PutDelivery(model.DeliveryOption{ID: "off", Label: "Retired", Amount: d("1"), IsActive: false})
	})

	for _, id := range []string{"missing", "off"} {
		_, err := uc.Calculate(context.Background(), &dto.TotalsInput{Lines: cartOf("10", 1, "0"), DeliveryID: strPtr(id)})
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeDeliveryNotFound, appErr.Code)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
	}
}

func TestLookupCoupon(t *testing.T) {
	from := fixedNow.Add(24 * time.Hour)
	to := fixedNow.Add(-time.Hour)
	uc := newCalculator(t, func(s *memstore.Store) {
		s.PutCoupon(model.Coupon{ID: "1", Code: "SOON", CalcType: model.CalcAmount, Amount: d("5"), ValidFrom: &from, IsActive: true})
		s.PutCoupon(model.Coupon{ID: "2", Code: "OLD", CalcType: model.CalcAmount, Amount: d("5"), ValidTo: &to, IsActive: true})
		s.PutCoupon(model.Coupon{ID: "3", Code: "OFF", CalcType: model.CalcAmount, Amount: d("5"), IsActive: false})
		s.PutCoupon(model.Coupon{ID: "4", Code: "OK", CalcType: model.CalcAmount, Amount: d("5"), IsActive: true})
	})

	tests := []struct {
		code string
		want string
	}{
		{"", apperror.CodeInvalidCoupon},
		{"nope", apperror.CodeInvalidCoupon},
		{"off", apperror.CodeInvalidCoupon},
		{"soon", apperror.CodeCouponNotYetValid},
		{"Old", apperror.CodeCouponExpired},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			_, err := uc.LookupCoupon(context.Background(), tt.code)
			appErr, ok := apperror.As(err)
			require.True(t, ok, "error %v", err)
			assert.Equal(t, tt.want, appErr.Code)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
		})
	}

	coupon, err := uc.LookupCoupon(context.Background(), "  ok ")
	require.NoError(t, err)
	assert.Equal(t, "4", coupon.ID)
}

func TestApplyCoupon(t *testing.T) {
	pct := &model.Coupon{Code: "P", CalcType: model.CalcPercent, Amount: d("12.5"), MinOrderAmount: decimal.NewNullDecimal(d("50"))}

	_, err := ApplyCoupon(pct, d("49.99"))
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeMinimumOrderNotMet, appErr.Code)
	assert.Contains(t, appErr.Message, "50.00")

	discount, err := ApplyCoupon(pct, d("80.10"))
	require.NoError(t, err)
	assert.True(t, d("10.01").Equal(discount), "got %s", discount) // 10.0125

	amt := &model.Coupon{Code: "A", CalcType: model.CalcAmount, Amount: d("15")}
	for _, sub := range []string{"0", "3", "14.99", "15", "1000"} {
		discount, err := ApplyCoupon(amt, d(sub))
		require.NoError(t, err)
		assert.True(t, discount.LessThanOrEqual(d(sub)), "discount %s > subtotal %s", discount, sub)
	}
}
