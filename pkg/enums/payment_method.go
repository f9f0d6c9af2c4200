package enums

// PaymentMethod names the gateway an order was paid through.
type PaymentMethod string

const (
	PaymentMethodPaystack PaymentMethod = "paystack"
	// PaymentMethodFree marks orders whose final total was zero.
	PaymentMethodFree PaymentMethod = "free"
)

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodPaystack || p == PaymentMethodFree
}
