package cart

import (
	"testing"

	"github.com/angelmondragon/tastetrack-storefront/internal/catalog"
	"github.com/angelmondragon/tastetrack-storefront/internal/coupons"
	"github.com/shopspring/decimal"
)

func menuItem(id, price string) catalog.MenuItem {
	return catalog.MenuItem{
		ID:           id,
		Name:         "item " + id,
		Price:        decimal.RequireFromString(price),
		RestaurantID: "r1",
	}
}

func TestAddItemMergesLines(t *testing.T) {
	store := NewStore(coupons.Default())
	pizza := menuItem("pizza", "12.99")

	for _, qty := range []int{1, 2, 3} {
		store.AddItem(pizza, qty)
	}

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
	if lines[0].Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", lines[0].Quantity)
	}
	if store.TotalItemCount() != 6 {
		t.Fatalf("expected item count 6, got %d", store.TotalItemCount())
	}
}

func TestAddItemIgnoresNonPositiveQuantity(t *testing.T) {
	store := NewStore(coupons.Default())
	store.AddItem(menuItem("a", "1"), 0)
	store.AddItem(menuItem("a", "1"), -3)
	if !store.IsEmpty() {
		t.Fatalf("expected cart to stay empty, got %+v", store.Lines())
	}
}

func TestLinesKeepInsertionOrderAndAreCopies(t *testing.T) {
	store := NewStore(coupons.Default())
	store.AddItem(menuItem("b", "2"), 1)
	store.AddItem(menuItem("a", "1"), 1)
	store.AddItem(menuItem("b", "2"), 1)

	lines := store.Lines()
	if lines[0].Item.ID != "b" || lines[1].Item.ID != "a" {
		t.Fatalf("unexpected order %+v", lines)
	}
	lines[0].Quantity = 99
	if store.Lines()[0].Quantity != 2 {
		t.Fatal("mutating the returned slice must not touch the cart")
	}
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -100} {
		viaUpdate := NewStore(coupons.Default())
		viaRemove := NewStore(coupons.Default())
		for _, s := range []*Store{viaUpdate, viaRemove} {
			s.AddItem(menuItem("a", "3"), 2)
			s.AddItem(menuItem("b", "4"), 1)
		}

		viaUpdate.UpdateQuantity("a", q)
		viaRemove.RemoveItem("a")

		if len(viaUpdate.Lines()) != len(viaRemove.Lines()) || viaUpdate.Lines()[0].Item.ID != "b" {
			t.Fatalf("q=%d: update %+v differs from remove %+v", q, viaUpdate.Lines(), viaRemove.Lines())
		}
	}
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	store := NewStore(coupons.Default())
	store.AddItem(menuItem("a", "3"), 2)
	store.UpdateQuantity("a", 5)
	if store.TotalItemCount() != 5 {
		t.Fatalf("expected absolute set to 5, got %d", store.TotalItemCount())
	}
	store.UpdateQuantity("missing", 3)
	if len(store.Lines()) != 1 {
		t.Fatal("updating an absent item must be a no-op")
	}
	store.RemoveItem("missing")
	if len(store.Lines()) != 1 {
		t.Fatal("removing an absent item must be a no-op")
	}
}

func TestSubtotalIsSumOfLineTotals(t *testing.T) {
	store := NewStore(coupons.Default())
	store.AddItem(menuItem("a", "12.99"), 2)
	store.AddItem(menuItem("b", "0.10"), 3)

	want := decimal.RequireFromString("26.28")
	if !store.Subtotal().Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, store.Subtotal())
	}
	lines := store.Lines()
	lines[0].Quantity = 50
	if !store.Subtotal().Equal(want) {
		t.Fatalf("editing a copied line changed the subtotal to %s", store.Subtotal())
	}
}

func TestApplyCouponAcceptsEligibleCode(t *testing.T) {
	store := NewStore(coupons.Default())
	store.AddItem(menuItem("pizza", "12.99"), 2)

	if !store.ApplyCoupon("save10") {
		t.Fatal("expected SAVE10 to apply to a 25.98 subtotal")
	}
	applied, ok := store.AppliedCoupon()
	if !ok || applied.Code != "SAVE10" {
		t.Fatalf("unexpected applied coupon %+v", applied)
	}

	if !store.ApplyCoupon("FLAT5") {
		t.Fatal("expected FLAT5 to apply")
	}
	if applied, _ := store.AppliedCoupon(); applied.Code != "FLAT5" {
		t.Fatalf("expected FLAT5 to replace SAVE10, got %s", applied.Code)
	}
}

func TestApplyCouponRejectsUnknownAndIneligible(t *testing.T) {
	store := NewStore(coupons.Default())
	store.AddItem(menuItem("a", "10.00"), 1)

	if store.ApplyCoupon("SAVE20") {
		t.Fatal("SAVE20 requires a 50.00 minimum")
	}
	if _, ok := store.AppliedCoupon(); ok {
		t.Fatal("rejected coupon must leave the cart without a coupon")
	}
	if reason, ok := store.EvaluateCoupon("SAVE20"); ok || reason != RejectionMinimumNotMet {
		t.Fatalf("unexpected evaluation %q %v", reason, ok)
	}

	store.ApplyCoupon("FLAT5")
	if store.ApplyCoupon("DOESNOTEXIST") {
		t.Fatal("unknown code must be rejected")
	}
	if applied, ok := store.AppliedCoupon(); !ok || applied.Code != "FLAT5" {
		t.Fatal("a rejected code must not replace the applied coupon")
	}
	if reason, _ := store.EvaluateCoupon("nope"); reason != RejectionNotFound {
		t.Fatalf("expected not_found, got %q", reason)
	}
}

func TestCouponStaysAppliedAfterSubtotalDrops(t *testing.T) {
	store := NewStore(coupons.Default())
	store.AddItem(menuItem("a", "15.00"), 2)
	if !store.ApplyCoupon("SAVE10") {
		t.Fatal("expected SAVE10 to apply at 30.00")
	}

	store.UpdateQuantity("a", 1)
	if _, ok := store.AppliedCoupon(); !ok {
		t.Fatal("coupon eligibility is only checked when applying")
	}
}

func TestRemoveCouponAndClear(t *testing.T) {
	store := NewStore(coupons.Default())
	store.RemoveCoupon()

	store.AddItem(menuItem("a", "30"), 1)
	store.ApplyCoupon("SAVE10")
	store.RemoveCoupon()
	if _, ok := store.AppliedCoupon(); ok {
		t.Fatal("expected coupon removed")
	}

	store.ApplyCoupon("SAVE10")
	store.Clear()
	if !store.IsEmpty() || store.TotalItemCount() != 0 || !store.Subtotal().IsZero() {
		t.Fatal("expected empty cart after clear")
	}
	if _, ok := store.AppliedCoupon(); ok {
		t.Fatal("clear must drop the applied coupon")
	}
}

func TestRestaurantIDs(t *testing.T) {
	store := NewStore(coupons.Default())
	a := menuItem("a", "1")
	b := menuItem("b", "1")
	b.RestaurantID = "r2"
	store.AddItem(a, 1)
	store.AddItem(b, 1)
	store.AddItem(menuItem("c", "1"), 1)

	ids := store.RestaurantIDs()
	if len(ids) != 2 || ids[0] != "r1" || ids[1] != "r2" {
		t.Fatalf("unexpected restaurant ids %v", ids)
	}
}

func TestStoreWithoutCatalogRejectsCoupons(t *testing.T) {
	store := NewStore(nil)
	store.AddItem(menuItem("a", "100"), 1)
	if store.ApplyCoupon("SAVE10") {
		t.Fatal("expected rejection without a catalog")
	}
}
