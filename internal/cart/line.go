package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Variant distinguishes otherwise-identical products (size/color options).
type Variant struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// Line is one distinct product+variant entry with its own quantity and price.
type Line struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	Variant   Variant         `json:"variant"`
}

// Key returns the identity of a line: productId plus variant options.
func (l Line) Key() string {
	return strings.Join([]string{l.ProductID, l.Variant.Size, l.Variant.Color}, "|")
}

// Matches reports whether the line shares an identity with the given
// product/variant pair.
func (l Line) Matches(productID string, variant Variant) bool {
	return l.ProductID == productID && l.Variant == variant
}

// Subtotal is unit price times quantity, unrounded.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals aggregates the cart: item count and the 2-decimal money total.
type Totals struct {
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}
