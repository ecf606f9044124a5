package usecase

import (
	"testing"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func maxW(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

var courier = &model.DeliveryOption{ID: "dlv-1", Label: "Courier", Amount: d("15"), IsActive: true}

func TestResolveShippingTieredCeil(t *testing.T) {
	rules := []model.WeightRule{{
		ID: "r1", MinWeight: d("0"), BaseCharge: d("5"), BaseWeight: d("1000"),
		UnitWeight: d("500"), IncrementalCharge: d("2"), Rounding: model.RoundCeil, IsActive: true,
	}}

	quote := ResolveShipping(d("2400"), courier, rules)

	// extra 1400g -> ceil(2.8) = 3 units -> 5 + 3*2
	assert.True(t, d("11").Equal(quote.Amount), "got %s", quote.Amount)
	require.NotNil(t, quote.RuleID)
	assert.Equal(t, "r1", *quote.RuleID)
	assert.Equal(t, calcWeightRule, quote.CalcType)
}

func TestResolveShippingRoundingModes(t *testing.T) {
	base := model.WeightRule{
		ID: "r1", MinWeight: d("0"), BaseCharge: d("5"), BaseWeight: d("1000"),
		UnitWeight: d("500"), IncrementalCharge: d("2"), IsActive: true,
	}
	tests := []struct {
		mode   model.RoundingMode
		weight string
		want   string
	}{
		{model.RoundFloor, "2400", "9"},  // floor(2.8)=2
		{model.RoundHalf, "2400", "11"},  // round(2.8)=3
		{model.RoundHalf, "2200", "9"},   // round(2.4)=2
		{model.RoundHalf, "2250", "11"},  // round(2.5)=3, half away from zero
		{model.RoundCeil, "1000", "5"},   // no extra weight
		{model.RoundCeil, "400", "5"},    // below base weight
		{model.RoundCeil, "1000.1", "7"}, // any extra starts a unit
	}
	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.weight, func(t *testing.T) {
			rule := base
			rule.Rounding = tt.mode
			quote := ResolveShipping(d(tt.weight), courier, []model.WeightRule{rule})
			assert.True(t, d(tt.want).Equal(quote.Amount), "got %s", quote.Amount)
		})
	}
}

func TestResolveShippingFlatTier(t *testing.T) {
	rules := []model.WeightRule{{
		ID: "flat", MinWeight: d("0"), MaxWeight: maxW("5000"), BaseCharge: d("8.5"),
		UnitWeight: d("0"), IncrementalCharge: d("3"), IsActive: true,
	}}

	quote := ResolveShipping(d("4999"), courier, rules)
	assert.True(t, d("8.5").Equal(quote.Amount))
}

func TestResolveShippingFallsBackToFlatAmount(t *testing.T) {
	rules := []model.WeightRule{
		{ID: "light", MinWeight: d("0"), MaxWeight: maxW("1000"), BaseCharge: d("3"), IsActive: true},
		{ID: "inactive", MinWeight: d("1000"), BaseCharge: d("1"), IsActive: false},
		{ID: "inverted", MinWeight: d("3000"), MaxWeight: maxW("2000"), BaseCharge: d("1"), IsActive: true},
	}

	quote := ResolveShipping(d("2500"), courier, rules)

	assert.Nil(t, quote.RuleID)
	assert.Equal(t, calcFlat, quote.CalcType)
	assert.True(t, d("15").Equal(quote.Amount))
}

func TestResolveShippingIgnoresUnknownRounding(t *testing.T) {
	rules := []model.WeightRule{{
		ID: "odd", MinWeight: d("0"), BaseCharge: d("5"), BaseWeight: d("1000"),
		UnitWeight: d("500"), IncrementalCharge: d("2"), Rounding: "bogus", IsActive: true,
	}}

	quote := ResolveShipping(d("2400"), courier, rules)

	assert.Nil(t, quote.RuleID)
	assert.Equal(t, calcFlat, quote.CalcType)
	assert.True(t, courier.Amount.Equal(quote.Amount), "got %s", quote.Amount)
	assert.Nil(t, MatchWeightRule(d("2400"), rules))
}

func TestResolveShippingHalfOpenBounds(t *testing.T) {
	rules := []model.WeightRule{
		{ID: "a", MinWeight: d("0"), MaxWeight: maxW("1000"), BaseCharge: d("3"), IsActive: true},
		{ID: "b", MinWeight: d("1000"), MaxWeight: maxW("2000"), BaseCharge: d("6"), IsActive: true},
	}

	assert.Equal(t, "a", *ResolveShipping(d("999.99"), courier, rules).RuleID)
	assert.Equal(t, "b", *ResolveShipping(d("1000"), courier, rules).RuleID)
	assert.Nil(t, ResolveShipping(d("2000"), courier, rules).RuleID)
}

func TestMatchWeightRuleOrdering(t *testing.T) {
	rules := []model.WeightRule{
		{ID: "wide", MinWeight: d("0"), BaseCharge: d("9"), SortOrder: 2, IsActive: true},
		{ID: "narrow-high-min", MinWeight: d("500"), BaseCharge: d("4"), SortOrder: 1, IsActive: true},
		{ID: "narrow-low-min", MinWeight: d("100"), BaseCharge: d("5"), SortOrder: 1, IsActive: true},
	}

	rule := MatchWeightRule(d("600"), rules)
	require.NotNil(t, rule)
	assert.Equal(t, "narrow-low-min", rule.ID)
}

func TestResolveShippingMonotonicWithinRule(t *testing.T) {
	rule := model.WeightRule{
		ID: "r", MinWeight: d("0"), BaseCharge: d("5"), BaseWeight: d("1000"),
		UnitWeight: d("250"), IncrementalCharge: d("1.25"), Rounding: model.RoundHalf, IsActive: true,
	}

	prev := decimal.Zero
	for w := int64(0); w <= 20000; w += 37 {
		quote := ResolveShipping(decimal.NewFromInt(w), courier, []model.WeightRule{rule})
		assert.True(t, quote.Amount.GreaterThanOrEqual(prev), "weight %d: %s < %s", w, quote.Amount, prev)
		prev = quote.Amount
	}
}

func TestResolveShippingNegativeWeight(t *testing.T) {
	rules := []model.WeightRule{{ID: "r", MinWeight: d("0"), BaseCharge: d("2"), IsActive: true}}

	quote := ResolveShipping(d("-10"), courier, rules)
	assert.True(t, quote.Weight.IsZero())
	assert.True(t, d("2").Equal(quote.Amount))
}
