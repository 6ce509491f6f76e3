package cart

import (
	"strings"

	"github.com/angelmondragon/tastetrack-storefront/internal/catalog"
	"github.com/angelmondragon/tastetrack-storefront/internal/coupons"
	"github.com/shopspring/decimal"
)

// Line pairs a menu item with a positive quantity.
type Line struct {
	Item     catalog.MenuItem `json:"item"`
	Quantity int              `json:"quantity"`
}

// Total is the line's unit price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store holds one cart: lines in insertion order and at most one applied
// coupon. It is not safe for concurrent use; Sessions serializes access.
type Store struct {
	catalog coupons.Catalog
	lines   []Line
	coupon  *coupons.Coupon
}

func NewStore(catalog coupons.Catalog) *Store {
	return &Store{catalog: catalog}
}

// AddItem increments the item's line or appends a new one. Non-positive
// quantities are ignored.
func (s *Store) AddItem(item catalog.MenuItem, quantity int) {
	if quantity <= 0 {
		return
	}
	if idx := s.indexOf(item.ID); idx >= 0 {
		s.lines[idx].Quantity += quantity
		return
	}
	s.lines = append(s.lines, Line{Item: item, Quantity: quantity})
}

func (s *Store) RemoveItem(itemID string) {
	idx := s.indexOf(itemID)
	if idx < 0 {
		return
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
}

// UpdateQuantity sets an existing line's quantity. Zero or less removes the line.
func (s *Store) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID)
		return
	}
	if idx := s.indexOf(itemID); idx >= 0 {
		s.lines[idx].Quantity = quantity
	}
}

// Clear empties the cart and drops the applied coupon.
func (s *Store) Clear() {
	s.lines = nil
	s.coupon = nil
}

func (s *Store) TotalItemCount() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

func (s *Store) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range s.lines {
		subtotal = subtotal.Add(line.Total())
	}
	return subtotal
}

// ApplyCoupon attaches the coupon with the given code if it exists and the
// current subtotal meets its minimum. Eligibility is only checked here; later
// edits that drop the subtotal below the minimum keep the coupon applied.
func (s *Store) ApplyCoupon(code string) bool {
	_, ok := s.EvaluateCoupon(code)
	if !ok {
		return false
	}
	c, _ := s.catalog.Find(code)
	s.coupon = &c
	return true
}

// Rejection explains why a coupon was not applied.
type Rejection string

const (
	RejectionNotFound      Rejection = "not_found"
	RejectionMinimumNotMet Rejection = "minimum_not_met"
)

// EvaluateCoupon reports whether code could be applied right now, and why not.
func (s *Store) EvaluateCoupon(code string) (Rejection, bool) {
	if s.catalog == nil {
		return RejectionNotFound, false
	}
	c, found := s.catalog.Find(code)
	if !found {
		return RejectionNotFound, false
	}
	if !c.Eligible(s.Subtotal()) {
		return RejectionMinimumNotMet, false
	}
	return "", true
}

func (s *Store) RemoveCoupon() {
	s.coupon = nil
}

// AppliedCoupon returns the applied coupon, if any.
func (s *Store) AppliedCoupon() (coupons.Coupon, bool) {
	if s.coupon == nil {
		return coupons.Coupon{}, false
	}
	return *s.coupon, true
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// RestaurantIDs returns the distinct owning restaurants in line order.
func (s *Store) RestaurantIDs() []string {
	seen := make(map[string]struct{}, len(s.lines))
	var ids []string
	for _, line := range s.lines {
		id := line.Item.RestaurantID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) indexOf(itemID string) int {
	for i, line := range s.lines {
		if line.Item.ID == itemID {
			return i
		}
	}
	return -1
}

// restoreCoupon re-attaches a previously applied coupon by code without
// re-checking eligibility. It reports false when the code no longer exists.
func (s *Store) restoreCoupon(code string) bool {
	if strings.TrimSpace(code) == "" || s.catalog == nil {
		return false
	}
	c, ok := s.catalog.Find(code)
	if !ok {
		return false
	}
	s.coupon = &c
	return true
}
