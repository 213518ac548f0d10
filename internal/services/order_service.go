package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"growlokal/internal/domain"
	"growlokal/internal/repos"
	"growlokal/internal/validate"
)

var (
	ErrCartEmpty     = errors.New("cart is empty")
	ErrTotalMismatch = errors.New("order totals do not match the cart")
)

// FieldErrors carries per-field validation messages for a rejected checkout.
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "invalid shipping address" }

type PlaceOrderInput struct {
	Shipping      validate.ShippingForm
	PaymentMethod string
	Subtotal      float64
	ShippingFee   float64
	Total         float64
}

type OrderService struct {
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders}
}

// newOrderID builds the human-readable id shown to customers.
func newOrderID() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return fmt.Sprintf("GL-%s-%s", time.Now().Format("20060102"), strings.ToUpper(hex.EncodeToString(b)))
}

// Place creates an order from the session's cart snapshot. Amounts are
// recomputed server-side; the client-submitted total must agree with the
// recomputation or the order is rejected. Stock is checked for sufficiency
// but not reserved here — reservation belongs to fulfillment.
func (s *OrderService) Place(sessionID string, in PlaceOrderInput) (domain.Order, error) {
	if errs := validate.Shipping(in.Shipping); len(errs) > 0 {
		return domain.Order{}, FieldErrors(errs)
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return domain.Order{}, FieldErrors{"paymentMethod": "Select a payment method"}
	}

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return domain.Order{}, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, ErrCartEmpty
	}

	// Stock sufficiency check against live availability.
	for _, it := range items {
		stock, err := s.Prods.Stock(it.ProductID)
		if err != nil && err != sql.ErrNoRows {
			return domain.Order{}, err
		}
		if stock < it.Qty {
			return domain.Order{}, fmt.Errorf("insufficient stock for %s (need %d, have %d)", it.ProductID, it.Qty, stock)
		}
	}

	subtotal := 0.0
	for _, it := range items {
		subtotal += it.Price * float64(it.Qty)
	}
	subtotal = Round2(subtotal)
	fee := ShippingFee(subtotal)
	total := Round2(subtotal + fee)

	// The client precomputes amounts for display; the server recomputation
	// is authoritative and a disagreement means a stale cart.
	if diff := in.Total - total; diff > 0.009 || diff < -0.009 {
		return domain.Order{}, ErrTotalMismatch
	}

	o := domain.Order{
		ID:          uuid.NewString(),
		OrderID:     newOrderID(),
		SessionID:   sessionID,
		Method:      domain.PaymentMethod(in.PaymentMethod),
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       total,
		PayStatus:   domain.PaymentPending,
		Status:      domain.OrderPending,
		Shipping: domain.ShippingAddress{
			FullName:   strings.TrimSpace(in.Shipping.FullName),
			Email:      strings.TrimSpace(in.Shipping.Email),
			Phone:      strings.TrimSpace(in.Shipping.Phone),
			Address:    strings.TrimSpace(in.Shipping.Address),
			City:       strings.TrimSpace(in.Shipping.City),
			Province:   strings.TrimSpace(in.Shipping.Province),
			PostalCode: strings.TrimSpace(in.Shipping.PostalCode),
		},
	}
	if err := s.Orders.Create(o); err != nil {
		return domain.Order{}, err
	}
	for _, it := range items {
		oi := domain.OrderItem{
			ProductID:  it.ProductID,
			Name:       it.Name,
			ArtistName: it.ArtistName,
			ImageURL:   it.ImageURL,
			Qty:        it.Qty,
			Price:      it.Price,
		}
		if err := s.Orders.InsertItem(o.ID, oi); err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, oi)
	}
	// The cart is not cleared here; the client clears it after navigating
	// to payment. A crash in between leaves the cart intact by design.
	return o, nil
}

func (s *OrderService) Get(ref string) (domain.Order, error) {
	return s.Orders.Get(ref)
}
