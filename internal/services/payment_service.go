package services

import (
	"context"
	"errors"
	"net/url"

	"growlokal/internal/domain"
	"growlokal/internal/paymongo"
	"growlokal/internal/repos"
)

var ErrAlreadyPaid = errors.New("order is already paid")

// PaymentService bridges orders to the payment gateway: intent/source
// creation on one side, status reconciliation on the other. All transitions
// of an order's payment status flow through domain.NextPaymentStatus.
type PaymentService struct {
	Orders    *repos.OrderRepo
	Gateway   *paymongo.Client
	PublicKey string
	BaseURL   string
}

func NewPaymentService(orders *repos.OrderRepo, gw *paymongo.Client, publicKey, baseURL string) *PaymentService {
	return &PaymentService{Orders: orders, Gateway: gw, PublicKey: publicKey, BaseURL: baseURL}
}

// IntentResult is the method-specific payload of create-intent.
type IntentResult struct {
	Method domain.PaymentMethod `json:"paymentMethod"`

	// card
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	ClientKey       string `json:"clientKey,omitempty"`
	PublicKey       string `json:"publicKey,omitempty"`

	// gcash
	SourceID    string `json:"sourceId,omitempty"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`

	// cod
	Message string `json:"message,omitempty"`
}

// CreateIntent sizes a gateway payment to the order total in minor units.
// An order may accumulate intents across retries; only the most recent is
// tracked on the order row.
func (s *PaymentService) CreateIntent(ctx context.Context, orderRef string, method domain.PaymentMethod) (IntentResult, error) {
	o, err := s.Orders.Get(orderRef)
	if err != nil {
		return IntentResult{}, err
	}
	if o.PayStatus == domain.PaymentPaid {
		return IntentResult{}, ErrAlreadyPaid
	}

	switch method {
	case domain.PayCard:
		intent, err := s.Gateway.CreateIntent(ctx, paymongo.CreateIntentParams{
			Amount:              MinorUnits(o.Total),
			Currency:            "PHP",
			Description:         "Order " + o.OrderID,
			StatementDescriptor: "GrowLokal",
			Metadata:            map[string]string{"orderId": o.OrderID},
		})
		if err != nil {
			return IntentResult{}, err
		}
		if err := s.Orders.SetIntent(o.ID, intent.ID); err != nil {
			return IntentResult{}, err
		}
		return IntentResult{
			Method:          domain.PayCard,
			PaymentIntentID: intent.ID,
			ClientKey:       intent.ClientKey,
			PublicKey:       s.PublicKey,
		}, nil

	case domain.PayGCash:
		src, err := s.Gateway.CreateSource(ctx, paymongo.CreateSourceParams{
			Amount:       MinorUnits(o.Total),
			Currency:     "PHP",
			SuccessURL:   s.BaseURL + "/payment/success?orderId=" + url.QueryEscape(o.OrderID),
			FailedURL:    s.BaseURL + "/payment/failed?orderId=" + url.QueryEscape(o.OrderID),
			BillingName:  o.Shipping.FullName,
			BillingEmail: o.Shipping.Email,
			BillingPhone: o.Shipping.Phone,
		})
		if err != nil {
			return IntentResult{}, err
		}
		if err := s.Orders.SetIntent(o.ID, src.ID); err != nil {
			return IntentResult{}, err
		}
		return IntentResult{Method: domain.PayGCash, SourceID: src.ID, CheckoutURL: src.CheckoutURL}, nil

	default: // cod needs no gateway resource
		return IntentResult{Method: domain.PayCOD, Message: "Cash on Delivery - no payment processing needed"}, nil
	}
}

// ConfirmResult reports the reconciled order state plus the raw gateway
// status for callers that must decide whether to retry.
type ConfirmResult struct {
	Order        domain.Order
	IntentStatus domain.IntentStatus
	GatewayError string
}

// Confirm retrieves the intent's current status and reconciles the order.
// Confirming an already-paid order is a no-op that still reports paid.
func (s *PaymentService) Confirm(ctx context.Context, orderRef, intentID string) (ConfirmResult, error) {
	o, err := s.Orders.Get(orderRef)
	if err != nil {
		return ConfirmResult{}, err
	}
	if o.PayStatus == domain.PaymentPaid {
		return ConfirmResult{Order: o, IntentStatus: domain.IntentSucceeded}, nil
	}

	intent, err := s.Gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		return ConfirmResult{}, err
	}
	status := domain.IntentStatus(intent.Status)

	next, changed := domain.NextPaymentStatus(o.PayStatus, status)
	if changed {
		if err := s.Orders.SetPaymentStatus(o.ID, next, intent.ID); err != nil {
			return ConfirmResult{}, err
		}
		o.PayStatus = next
		o.IntentID = intent.ID
	}
	return ConfirmResult{Order: o, IntentStatus: status, GatewayError: intent.LastPayError}, nil
}
