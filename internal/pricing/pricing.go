// Package pricing computes cart quotes: the subtotal, the single best
// applicable discount across the active rule set, and the payable total.
// The engine is a pure function of its inputs; it never touches storage.
package pricing

import (
	"github.com/google/uuid"

	"github.com/halisidigital/halisi-backend/pkg/enums"
)

// LineItem is the pricing view of one cart entry. A cart holds at most one
// line per ebook id; quantity is always one.
type LineItem struct {
	ID        uuid.UUID
	Title     string
	UnitPrice int
}

// Eligibility scopes a rule to the whole catalog or an explicit id set.
type Eligibility struct {
	all bool
	ids map[uuid.UUID]struct{}
}

// EligibleAll matches every line item.
func EligibleAll() Eligibility {
	return Eligibility{all: true}
}

// EligibleOnly matches line items whose ebook id is in the given set.
func EligibleOnly(ids ...uuid.UUID) Eligibility {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Eligibility{ids: set}
}

// Matches reports whether the item falls under this eligibility.
func (e Eligibility) Matches(id uuid.UUID) bool {
	if e.all {
		return true
	}
	_, ok := e.ids[id]
	return ok
}

// Rule is one discount evaluated by the engine. Use the constructors so each
// kind carries the fields it needs; a rule with missing or nonsensical
// parameters simply evaluates to zero savings rather than erroring.
type Rule struct {
	ID           uuid.UUID
	Name         string
	Kind         enums.DiscountKind
	Value        int
	MinCartCount int
	FreeCount    int
	Eligibility  Eligibility
	Active       bool
}

// PercentageOff builds a rule deducting value percentage points off the
// eligible subset's subtotal.
func PercentageOff(id uuid.UUID, name string, value int, eligibility Eligibility) Rule {
	return Rule{
		ID:          id,
		Name:        name,
		Kind:        enums.DiscountKindPercentageOff,
		Value:       value,
		Eligibility: eligibility,
		Active:      true,
	}
}

// FixedAmountOff builds a rule deducting a flat KSh amount once any eligible
// item is in the cart.
func FixedAmountOff(id uuid.UUID, name string, amount int, eligibility Eligibility) Rule {
	return Rule{
		ID:          id,
		Name:        name,
		Kind:        enums.DiscountKindFixedAmountOff,
		Value:       amount,
		Eligibility: eligibility,
		Active:      true,
	}
}

// BuyXGetYFree builds a rule that, once the cart holds at least minCartCount
// items, discounts the freeCount cheapest eligible items by value percent
// (100 meaning fully free).
func BuyXGetYFree(id uuid.UUID, name string, minCartCount, freeCount, value int, eligibility Eligibility) Rule {
	return Rule{
		ID:           id,
		Name:         name,
		Kind:         enums.DiscountKindBuyXGetYFree,
		Value:        value,
		MinCartCount: minCartCount,
		FreeCount:    freeCount,
		Eligibility:  eligibility,
		Active:       true,
	}
}

// Quote is the engine output. DiscountAmount is clamped to [0, Subtotal] and
// rounded half-up, so Total is never negative.
type Quote struct {
	Subtotal       int        `json:"subtotal"`
	DiscountAmount int        `json:"discount_amount"`
	Total          int        `json:"total"`
	AppliedRuleID  *uuid.UUID `json:"applied_rule_id,omitempty"`
}
