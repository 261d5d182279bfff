package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"24.975", "24.98"}, // half rounds away from zero
		{"24.974", "24.97"},
		{"-24.975", "-24.98"},
		{"10", "10.00"},
		{"0.005", "0.01"},
		{"0", "0.00"},
	}
	for _, tc := range cases {
		got := RoundMoney(decimal.RequireFromString(tc.in)).StringFixed(2)
		if got != tc.want {
			t.Fatalf("RoundMoney(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestItemKindIsValid(t *testing.T) {
	for _, k := range []ItemKind{KindProduct, KindService} {
		if !k.IsValid() {
			t.Fatalf("%q should be valid", k)
		}
	}
	for _, k := range []ItemKind{"", "category", "Product"} {
		if k.IsValid() {
			t.Fatalf("%q should be invalid", k)
		}
	}
}
