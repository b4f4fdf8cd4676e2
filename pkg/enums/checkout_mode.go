package enums

import "fmt"

// CheckoutMode mirrors the hosted checkout modes the payment provider accepts.
type CheckoutMode string

const (
	CheckoutModePayment      CheckoutMode = "payment"
	CheckoutModeSubscription CheckoutMode = "subscription"
)

var validCheckoutModes = []CheckoutMode{
	CheckoutModePayment,
	CheckoutModeSubscription,
}

// String implements fmt.Stringer.
func (c CheckoutMode) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutMode.
func (c CheckoutMode) IsValid() bool {
	for _, candidate := range validCheckoutModes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutMode converts raw input into a CheckoutMode.
func ParseCheckoutMode(value string) (CheckoutMode, error) {
	for _, candidate := range validCheckoutModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout mode %q", value)
}
