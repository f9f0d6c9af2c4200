package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/halisidigital/halisi-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeQuote evaluates every active rule against the cart and returns the
// quote carrying the single largest savings. Ties go to the rule appearing
// first in rules order. An empty cart short-circuits to a zero quote without
// evaluating any rule.
func ComputeQuote(items []LineItem, rules []Rule) Quote {
	if len(items) == 0 {
		return Quote{}
	}

	subtotal := 0
	for _, item := range items {
		subtotal += item.UnitPrice
	}

	best := decimal.Zero
	var bestRule *Rule
	for i := range rules {
		if !rules[i].Active {
			continue
		}
		savings := ruleSavings(items, rules[i])
		if savings.GreaterThan(best) {
			best = savings
			bestRule = &rules[i]
		}
	}

	// Clamp before rounding so the discount can never exceed the subtotal.
	subtotalDec := decimal.NewFromInt(int64(subtotal))
	if best.GreaterThan(subtotalDec) {
		best = subtotalDec
	}

	discount := int(best.Round(0).IntPart())
	if discount <= 0 || bestRule == nil {
		return Quote{Subtotal: subtotal, Total: subtotal}
	}

	ruleID := bestRule.ID
	return Quote{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal - discount,
		AppliedRuleID:  &ruleID,
	}
}

// ruleSavings computes the unrounded savings one rule contributes. Malformed
// rules (missing counts, non-positive values) contribute zero rather than
// failing, so one bad promotion never blocks checkout.
func ruleSavings(items []LineItem, rule Rule) decimal.Decimal {
	eligible := eligibleItems(items, rule.Eligibility)
	if len(eligible) == 0 {
		return decimal.Zero
	}

	switch rule.Kind {
	case enums.DiscountKindPercentageOff:
		if rule.Value <= 0 {
			return decimal.Zero
		}
		return sumPrices(eligible).Mul(decimal.NewFromInt(int64(rule.Value))).Div(oneHundred)

	case enums.DiscountKindFixedAmountOff:
		if rule.Value <= 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(int64(rule.Value))

	case enums.DiscountKindBuyXGetYFree:
		if rule.MinCartCount <= 0 || rule.FreeCount <= 0 || rule.Value <= 0 {
			return decimal.Zero
		}
		// The qualifying count looks at the whole cart; the free items are
		// drawn from the eligible subset only.
		if len(items) < rule.MinCartCount {
			return decimal.Zero
		}
		sorted := make([]LineItem, len(eligible))
		copy(sorted, eligible)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].UnitPrice < sorted[j].UnitPrice
		})
		freeCount := rule.FreeCount
		if freeCount > len(sorted) {
			freeCount = len(sorted)
		}
		return sumPrices(sorted[:freeCount]).Mul(decimal.NewFromInt(int64(rule.Value))).Div(oneHundred)
	}

	return decimal.Zero
}

func eligibleItems(items []LineItem, eligibility Eligibility) []LineItem {
	eligible := make([]LineItem, 0, len(items))
	for _, item := range items {
		if eligibility.Matches(item.ID) {
			eligible = append(eligible, item)
		}
	}
	return eligible
}

func sumPrices(items []LineItem) decimal.Decimal {
	total := int64(0)
	for _, item := range items {
		total += int64(item.UnitPrice)
	}
	return decimal.NewFromInt(total)
}
