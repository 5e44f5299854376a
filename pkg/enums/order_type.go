package enums

import "fmt"

// OrderType distinguishes preorders from direct purchases.
type OrderType string

const (
	OrderTypePreorder OrderType = "preorder"
	OrderTypePurchase OrderType = "purchase"
)

// String implements fmt.Stringer.
func (t OrderType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OrderType.
func (t OrderType) IsValid() bool {
	return t == OrderTypePreorder || t == OrderTypePurchase
}

// ParseOrderType converts a raw string into an OrderType.
func ParseOrderType(raw string) (OrderType, error) {
	typ := OrderType(raw)
	if !typ.IsValid() {
		return "", fmt.Errorf("unknown order type %q", raw)
	}
	return typ, nil
}
