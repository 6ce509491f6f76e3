package enums

import (
	"fmt"
	"strings"
)

// CouponKind selects how a coupon's discount magnitude is interpreted.
type CouponKind string

const (
	CouponKindPercentage CouponKind = "percentage"
	CouponKindFixed      CouponKind = "fixed"
)

var validCouponKinds = []CouponKind{
	CouponKindPercentage,
	CouponKindFixed,
}

// String implements fmt.Stringer.
func (k CouponKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CouponKind.
func (k CouponKind) IsValid() bool {
	for _, candidate := range validCouponKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCouponKind converts raw input into a CouponKind.
func ParseCouponKind(value string) (CouponKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validCouponKinds {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon kind %q", value)
}
