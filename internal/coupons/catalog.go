package coupons

import (
	"strings"

	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Coupon is a named discount rule.
type Coupon struct {
	Code        string              `json:"code"`
	Discount    decimal.Decimal     `json:"discount"`
	Kind        enums.CouponKind    `json:"kind"`
	MinOrder    decimal.NullDecimal `json:"min_order"`
	Description string              `json:"description"`
}

// Eligible reports whether subtotal meets the coupon's minimum order, if any.
func (c Coupon) Eligible(subtotal decimal.Decimal) bool {
	if !c.MinOrder.Valid {
		return true
	}
	return !subtotal.LessThan(c.MinOrder.Decimal)
}

// DiscountFor returns the discount amount against subtotal. Fixed discounts
// are not capped at the subtotal.
func (c Coupon) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case enums.CouponKindPercentage:
		return subtotal.Mul(c.Discount).Div(hundred)
	case enums.CouponKindFixed:
		return c.Discount
	}
	return decimal.Zero
}

// Catalog looks coupons up by code.
type Catalog interface {
	Find(code string) (Coupon, bool)
	All() []Coupon
}

// StaticCatalog is an immutable in-memory Catalog. Lookups ignore case.
type StaticCatalog struct {
	ordered []Coupon
	byCode  map[string]Coupon
}

// NewCatalog indexes the given coupons. A later duplicate code replaces an earlier one.
func NewCatalog(coupons ...Coupon) *StaticCatalog {
	catalog := &StaticCatalog{byCode: make(map[string]Coupon, len(coupons))}
	for _, c := range coupons {
		key := normalizeCode(c.Code)
		if key == "" {
			continue
		}
		c.Code = key
		if _, exists := catalog.byCode[key]; exists {
			for i := range catalog.ordered {
				if catalog.ordered[i].Code == key {
					catalog.ordered[i] = c
				}
			}
		} else {
			catalog.ordered = append(catalog.ordered, c)
		}
		catalog.byCode[key] = c
	}
	return catalog
}

func (s *StaticCatalog) Find(code string) (Coupon, bool) {
	if s == nil {
		return Coupon{}, false
	}
	c, ok := s.byCode[normalizeCode(code)]
	return c, ok
}

// All returns the coupons in definition order.
func (s *StaticCatalog) All() []Coupon {
	if s == nil {
		return nil
	}
	out := make([]Coupon, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Default returns the storefront's built-in coupons.
func Default() *StaticCatalog {
	return NewCatalog(
		percentage("SAVE10", "10", "20", "10% off orders above $20"),
		percentage("SAVE20", "20", "50", "20% off orders above $50"),
		fixed("FLAT5", "5", "15", "$5 off orders above $15"),
		percentage("WELCOME15", "15", "30", "15% off your first order above $30"),
		fixed("FREESHIP", "3.99", "25", "Free delivery on orders above $25"),
	)
}

func percentage(code, discount, minOrder, description string) Coupon {
	return newCoupon(code, enums.CouponKindPercentage, discount, minOrder, description)
}

func fixed(code, discount, minOrder, description string) Coupon {
	return newCoupon(code, enums.CouponKindFixed, discount, minOrder, description)
}

func newCoupon(code string, kind enums.CouponKind, discount, minOrder, description string) Coupon {
	c := Coupon{
		Code:        code,
		Kind:        kind,
		Discount:    decimal.RequireFromString(discount),
		Description: description,
	}
	if minOrder != "" {
		c.MinOrder = decimal.NewNullDecimal(decimal.RequireFromString(minOrder))
	}
	return c
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
