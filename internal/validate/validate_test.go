package validate_test

import (
	"testing"

	"growlokal/internal/validate"
)

func TestEmail(t *testing.T) {
	if _, ok := validate.Email("maria@growlokal.test"); !ok {
		t.Fatal("valid email rejected")
	}
	for _, bad := range []string{"", "not-an-email", "a@b", "maria@", "@growlokal.test"} {
		if _, ok := validate.Email(bad); ok {
			t.Fatalf("accepted bad email %q", bad)
		}
	}
}

func TestQtyClamps(t *testing.T) {
	cases := map[string]int{"": 1, "0": 1, "-3": 1, "abc": 1, "5": 5, "500": 99}
	for in, want := range cases {
		if got := validate.Qty(in); got != want {
			t.Fatalf("Qty(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestShippingAllFieldsRequired(t *testing.T) {
	errs := validate.Shipping(validate.ShippingForm{})
	for _, field := range []string{"fullName", "email", "phone", "address", "city", "province", "postalCode"} {
		if errs[field] == "" {
			t.Fatalf("missing error for empty %s", field)
		}
	}
}

func TestShippingValidFormPasses(t *testing.T) {
	errs := validate.Shipping(validate.ShippingForm{
		FullName:   "Maria Santos",
		Email:      "maria@growlokal.test",
		Phone:      "+63 917 555 0101",
		Address:    "12 Mabini St",
		City:       "Vigan",
		Province:   "Ilocos Sur",
		PostalCode: "2700",
	})
	if len(errs) != 0 {
		t.Fatalf("valid form rejected: %v", errs)
	}
}

func TestShippingBadPhone(t *testing.T) {
	errs := validate.Shipping(validate.ShippingForm{
		FullName:   "Maria Santos",
		Email:      "maria@growlokal.test",
		Phone:      "12345",
		Address:    "12 Mabini St",
		City:       "Vigan",
		Province:   "Ilocos Sur",
		PostalCode: "2700",
	})
	if errs["phone"] == "" {
		t.Fatal("short phone accepted")
	}
}
