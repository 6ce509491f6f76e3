package enums

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":    RoleAdmin,
		" vendor ": RoleVendor,
		"Customer": RoleCustomer,
	}
	for raw, want := range cases {
		got, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %s, want %s", raw, got, want)
		}
	}
	if _, err := ParseRole("owner"); err == nil {
		t.Fatal("expected unknown role to fail")
	}
}

func TestOrderStatusHelpers(t *testing.T) {
	if _, err := ParseOrderStatus("out_for_delivery"); err != nil {
		t.Fatalf("expected lower-case status to parse: %v", err)
	}
	if !OrderStatusCancelled.IsTerminal() || OrderStatusPreparing.IsTerminal() {
		t.Fatal("unexpected terminal classification")
	}
	statuses := OrderStatuses()
	if len(statuses) != 6 || statuses[0] != OrderStatusPending {
		t.Fatalf("unexpected statuses %v", statuses)
	}
	statuses[0] = OrderStatusDelivered
	if OrderStatuses()[0] != OrderStatusPending {
		t.Fatal("OrderStatuses must return a copy")
	}
}

func TestPaymentMethodAndCouponKind(t *testing.T) {
	method, err := ParsePaymentMethod("cash_on_delivery")
	if err != nil || method != PaymentMethodCashOnDelivery {
		t.Fatalf("unexpected payment method %q err=%v", method, err)
	}
	if method.RequiresCard() || !PaymentMethodCard.RequiresCard() {
		t.Fatal("only CARD requires card fields")
	}
	kind, err := ParseCouponKind("PERCENTAGE")
	if err != nil || kind != CouponKindPercentage {
		t.Fatalf("unexpected coupon kind %q err=%v", kind, err)
	}
	if CouponKind("bogo").IsValid() {
		t.Fatal("unknown coupon kind should be invalid")
	}
}
