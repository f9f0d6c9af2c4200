package enums

import "fmt"

// DiscountKind identifies how a discount rule computes its savings.
type DiscountKind string

const (
	DiscountKindPercentageOff  DiscountKind = "percentage_off"
	DiscountKindFixedAmountOff DiscountKind = "fixed_amount_off"
	DiscountKindBuyXGetYFree   DiscountKind = "buy_x_get_y_free"
)

var validDiscountKinds = []DiscountKind{
	DiscountKindPercentageOff,
	DiscountKindFixedAmountOff,
	DiscountKindBuyXGetYFree,
}

// String implements fmt.Stringer.
func (d DiscountKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountKind.
func (d DiscountKind) IsValid() bool {
	for _, candidate := range validDiscountKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountKind converts raw input into a DiscountKind.
func ParseDiscountKind(value string) (DiscountKind, error) {
	for _, candidate := range validDiscountKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount kind %q", value)
}
