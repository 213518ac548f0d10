package services_test

import (
	"strings"
	"testing"

	"growlokal/internal/repos"
	"growlokal/internal/services"
	"growlokal/internal/validate"
)

func goodShipping() validate.ShippingForm {
	return validate.ShippingForm{
		FullName:   "Maria Santos",
		Email:      "maria@growlokal.test",
		Phone:      "+63 917 555 0101",
		Address:    "12 Mabini St",
		City:       "Vigan",
		Province:   "Ilocos Sur",
		PostalCode: "2700",
	}
}

func newOrderStack(t *testing.T) (*services.CartService, *services.OrderService) {
	t.Helper()
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	return services.NewCartService(cartRepo, prodRepo),
		services.NewOrderService(cartRepo, prodRepo, orderRepo)
}

func TestPlaceOrderRecomputesTotals(t *testing.T) {
	cartSvc, orderSvc := newOrderStack(t)
	sid := "sid-order-1"

	// 2 x 259.00 + 1 x 429.00 = 947.00, below the free-shipping threshold
	if _, err := cartSvc.Add(sid, "basket-abaca-001", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.Add(sid, "banig-ilocano-001", 1); err != nil {
		t.Fatal(err)
	}

	o, err := orderSvc.Place(sid, services.PlaceOrderInput{
		Shipping:      goodShipping(),
		PaymentMethod: "card",
		Subtotal:      947.00,
		ShippingFee:   100.00,
		Total:         1047.00,
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.Subtotal != 947.00 || o.ShippingFee != 100.00 || o.Total != 1047.00 {
		t.Fatalf("bad totals: %+v", o)
	}
	if o.Subtotal+o.ShippingFee != o.Total {
		t.Fatalf("total invariant broken: %v + %v != %v", o.Subtotal, o.ShippingFee, o.Total)
	}
	if !strings.HasPrefix(o.OrderID, "GL-") {
		t.Fatalf("unexpected order id %q", o.OrderID)
	}
	if len(o.Items) != 2 {
		t.Fatalf("want 2 order lines, got %d", len(o.Items))
	}

	// the order reads back with its items
	got, err := orderSvc.Get(o.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 1047.00 || len(got.Items) != 2 {
		t.Fatalf("readback mismatch: %+v", got)
	}
}

func TestPlaceOrderRejectsTotalMismatch(t *testing.T) {
	cartSvc, orderSvc := newOrderStack(t)
	sid := "sid-order-2"
	if _, err := cartSvc.Add(sid, "basket-abaca-001", 1); err != nil {
		t.Fatal(err)
	}

	_, err := orderSvc.Place(sid, services.PlaceOrderInput{
		Shipping:      goodShipping(),
		PaymentMethod: "cod",
		Subtotal:      259.00,
		ShippingFee:   100.00,
		Total:         259.00, // stale client total
	})
	if err != services.ErrTotalMismatch {
		t.Fatalf("want ErrTotalMismatch, got %v", err)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	_, orderSvc := newOrderStack(t)
	_, err := orderSvc.Place("sid-order-3", services.PlaceOrderInput{
		Shipping:      goodShipping(),
		PaymentMethod: "card",
		Total:         100.00,
	})
	if err != services.ErrCartEmpty {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}
}

func TestPlaceOrderValidatesShipping(t *testing.T) {
	cartSvc, orderSvc := newOrderStack(t)
	sid := "sid-order-4"
	if _, err := cartSvc.Add(sid, "basket-abaca-001", 1); err != nil {
		t.Fatal(err)
	}

	bad := goodShipping()
	bad.Email = "not-an-email"
	bad.PostalCode = ""
	_, err := orderSvc.Place(sid, services.PlaceOrderInput{
		Shipping:      bad,
		PaymentMethod: "card",
		Total:         359.00,
	})
	fieldErrs, ok := err.(services.FieldErrors)
	if !ok {
		t.Fatalf("want FieldErrors, got %v", err)
	}
	if fieldErrs["email"] == "" || fieldErrs["postalCode"] == "" {
		t.Fatalf("missing field messages: %v", fieldErrs)
	}
}

func TestPlaceOrderRejectsUnknownMethod(t *testing.T) {
	cartSvc, orderSvc := newOrderStack(t)
	sid := "sid-order-5"
	if _, err := cartSvc.Add(sid, "basket-abaca-001", 1); err != nil {
		t.Fatal(err)
	}
	_, err := orderSvc.Place(sid, services.PlaceOrderInput{
		Shipping:      goodShipping(),
		PaymentMethod: "bitcoin",
		Total:         359.00,
	})
	if _, ok := err.(services.FieldErrors); !ok {
		t.Fatalf("want FieldErrors for bad method, got %v", err)
	}
}

func TestFreeShippingOverThreshold(t *testing.T) {
	cartSvc, orderSvc := newOrderStack(t)
	sid := "sid-order-6"

	// 2 x 650.00 = 1300.00 clears the free-shipping threshold
	if _, err := cartSvc.Add(sid, "jar-burnay-001", 2); err != nil {
		t.Fatal(err)
	}
	o, err := orderSvc.Place(sid, services.PlaceOrderInput{
		Shipping:      goodShipping(),
		PaymentMethod: "gcash",
		Subtotal:      1300.00,
		ShippingFee:   0,
		Total:         1300.00,
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.ShippingFee != 0 || o.Total != 1300.00 {
		t.Fatalf("want free shipping, got %+v", o)
	}
}
