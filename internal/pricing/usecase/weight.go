package usecase

import (
	"sort"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing/dto"
	"github.com/shopspring/decimal"
)

const (
	calcWeightRule = "weight_rule"
	calcFlat       = "flat"
)

// roundMoney rounds half away from zero to cents. Only applied to final
// amounts, never to intermediate math.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func wellFormed(r *model.WeightRule) bool {
	if r.MinWeight.IsNegative() || r.BaseCharge.IsNegative() || r.BaseWeight.IsNegative() {
		return false
	}
	if r.MaxWeight.Valid && r.MaxWeight.Decimal.LessThanOrEqual(r.MinWeight) {
		return false
	}
	switch r.Rounding {
	// Empty means the column default.
	case "", model.RoundFloor, model.RoundHalf, model.RoundCeil:
		return true
	default:
		return false
	}
}

// applies uses the half-open interval [min, max); a null max is unbounded.
func applies(r *model.WeightRule, weight decimal.Decimal) bool {
	if weight.LessThan(r.MinWeight) {
		return false
	}
	return !r.MaxWeight.Valid || weight.LessThan(r.MaxWeight.Decimal)
}

// MatchWeightRule returns the authoritative rule for weight: the first
// applicable active rule by sort order, then minimum weight.
func MatchWeightRule(weight decimal.Decimal, rules []model.WeightRule) *model.WeightRule {
	candidates := make([]model.WeightRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive || !wellFormed(&r) || !applies(&r, weight) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].SortOrder != candidates[j].SortOrder {
			return candidates[i].SortOrder < candidates[j].SortOrder
		}
		return candidates[i].MinWeight.LessThan(candidates[j].MinWeight)
	})
	return &candidates[0]
}

func ruleCharge(r *model.WeightRule, weight decimal.Decimal) decimal.Decimal {
	if !r.UnitWeight.IsPositive() || !r.IncrementalCharge.IsPositive() {
		return r.BaseCharge
	}

	extra := weight.Sub(r.BaseWeight)
	if extra.IsNegative() {
		extra = decimal.Zero
	}

	units := extra.Div(r.UnitWeight)
	switch r.Rounding {
	case model.RoundFloor:
		units = units.Floor()
	case model.RoundHalf:
		units = units.Round(0)
	default: // ceil; other modes are rejected by wellFormed
		units = units.Ceil()
	}

	return r.BaseCharge.Add(units.Mul(r.IncrementalCharge))
}

// ResolveShipping prices a delivery option for the total cart weight in
// grams. Without a matching rule the option's flat amount applies.
func ResolveShipping(weight decimal.Decimal, option *model.DeliveryOption, rules []model.WeightRule) dto.DeliveryQuote {
	if weight.IsNegative() {
		weight = decimal.Zero
	}

	quote := dto.DeliveryQuote{
		ID:       option.ID,
		Label:    option.Label,
		Weight:   weight,
		CalcType: calcFlat,
		Amount:   roundMoney(option.Amount),
	}

	rule := MatchWeightRule(weight, rules)
	if rule == nil {
		return quote
	}

	ruleID := rule.ID
	quote.RuleID = &ruleID
	quote.CalcType = calcWeightRule
	quote.Amount = roundMoney(ruleCharge(rule, weight))
	return quote
}
