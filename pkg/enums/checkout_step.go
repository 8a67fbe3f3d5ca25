package enums

// CheckoutStep enumerates the customer-facing payment flow.
type CheckoutStep string

const (
	CheckoutStepDetails CheckoutStep = "details"
	CheckoutStepPayment CheckoutStep = "payment"
	CheckoutStepSuccess CheckoutStep = "success"
)

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}
