package checkout

import (
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

func TestShippingFee(t *testing.T) {
	cases := []struct {
		method string
		want   string
		ok     bool
	}{
		{constants.ShippingMethodFree, "0.00", true},
		{constants.ShippingMethodStandard, "9.99", true},
		{constants.ShippingMethodExpress, "20.99", true},
		{"overnight", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		fee, ok := ShippingFee(tc.method)
		if ok != tc.ok {
			t.Fatalf("method %q ok want %v got %v", tc.method, tc.ok, ok)
		}
		if ok && fee.String() != tc.want {
			t.Fatalf("method %q fee want %s got %s", tc.method, tc.want, fee.String())
		}
	}
}

func TestFreeShippingEligible(t *testing.T) {
	if FreeShippingEligible(models.MustMoney("74.99")) {
		t.Fatalf("74.99 should not qualify for free shipping")
	}
	if !FreeShippingEligible(models.MustMoney("75.00")) {
		t.Fatalf("75.00 should qualify for free shipping")
	}
	if !FreeShippingEligible(models.MustMoney("80.00")) {
		t.Fatalf("80.00 should qualify for free shipping")
	}
}

func TestShippingMethodsAvailability(t *testing.T) {
	options := ShippingMethods(models.MustMoney("40.00"))
	if len(options) != 3 {
		t.Fatalf("want 3 options got %d", len(options))
	}
	for _, option := range options {
		if option.Method == constants.ShippingMethodFree && option.Available {
			t.Fatalf("free shipping should be unavailable under threshold")
		}
		if option.Method != constants.ShippingMethodFree && !option.Available {
			t.Fatalf("%s should be available", option.Method)
		}
	}
}
