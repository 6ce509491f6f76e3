package pricing

import (
	"github.com/angelmondragon/tastetrack-storefront/internal/coupons"
	"github.com/shopspring/decimal"
)

var (
	// DeliveryFee is charged flat on every order.
	DeliveryFee = decimal.RequireFromString("3.99")
	// TaxRate applies to the subtotal. Order tracking uses the same rate.
	TaxRate = decimal.RequireFromString("0.08")

	one = decimal.NewFromInt(1)
)

// Pricer is the cart state pricing reads. *cart.Store satisfies it.
type Pricer interface {
	Subtotal() decimal.Decimal
	TotalItemCount() int
	AppliedCoupon() (coupons.Coupon, bool)
}

// Breakdown is the full bill. Amounts are unrounded.
type Breakdown struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Coupon      *coupons.Coupon
	ItemCount   int
}

// Quote derives the bill from the cart. The total is not floored, so a large
// fixed discount on a tiny order can make it negative.
func Quote(c Pricer) Breakdown {
	subtotal := c.Subtotal()
	b := Breakdown{
		Subtotal:    subtotal,
		Tax:         subtotal.Mul(TaxRate),
		DeliveryFee: DeliveryFee,
		Discount:    decimal.Zero,
		ItemCount:   c.TotalItemCount(),
	}
	if applied, ok := c.AppliedCoupon(); ok {
		b.Coupon = &applied
		b.Discount = applied.DiscountFor(subtotal)
	}
	b.Total = b.Subtotal.Add(b.DeliveryFee).Add(b.Tax).Sub(b.Discount)
	return b
}

// FromOrderTotal reconstructs an approximate breakdown from a stored order
// total, assuming no discount: subtotal = (total - fee) / (1 + TaxRate).
func FromOrderTotal(total decimal.Decimal) Breakdown {
	subtotal := total.Sub(DeliveryFee).Div(one.Add(TaxRate)).Round(2)
	tax := total.Sub(DeliveryFee).Sub(subtotal)
	if subtotal.IsNegative() {
		subtotal, tax = decimal.Zero, decimal.Zero
	}
	return Breakdown{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: DeliveryFee,
		Discount:    decimal.Zero,
		Total:       total,
	}
}

// Display is a Breakdown formatted to cents for presentation.
type Display struct {
	Subtotal    string          `json:"subtotal"`
	Tax         string          `json:"tax"`
	DeliveryFee string          `json:"delivery_fee"`
	Discount    string          `json:"discount"`
	Total       string          `json:"total"`
	Coupon      *coupons.Coupon `json:"coupon,omitempty"`
	ItemCount   int             `json:"item_count"`
}

// Display rounds every amount to two decimals.
func (b Breakdown) Display() Display {
	return Display{
		Subtotal:    cents(b.Subtotal),
		Tax:         cents(b.Tax),
		DeliveryFee: cents(b.DeliveryFee),
		Discount:    cents(b.Discount),
		Total:       cents(b.Total),
		Coupon:      b.Coupon,
		ItemCount:   b.ItemCount,
	}
}

func cents(d decimal.Decimal) string {
	return d.StringFixed(2)
}
