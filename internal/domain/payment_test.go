package domain_test

import (
	"testing"

	"growlokal/internal/domain"
)

func TestNextPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		cur     domain.PaymentStatus
		intent  domain.IntentStatus
		want    domain.PaymentStatus
		changed bool
	}{
		{domain.PaymentPending, domain.IntentSucceeded, domain.PaymentPaid, true},
		{domain.PaymentPending, domain.IntentAwaitingMethod, domain.PaymentPending, false},
		{domain.PaymentPending, domain.IntentAwaitingAction, domain.PaymentPending, false},
		{domain.PaymentPending, domain.IntentProcessing, domain.PaymentPending, false},
		{domain.PaymentPending, domain.IntentStatus("failed"), domain.PaymentFailed, true},
		{domain.PaymentPending, domain.IntentStatus("cancelled"), domain.PaymentFailed, true},
	}
	for _, c := range cases {
		got, changed := domain.NextPaymentStatus(c.cur, c.intent)
		if got != c.want || changed != c.changed {
			t.Fatalf("Next(%s, %s) = (%s, %v), want (%s, %v)", c.cur, c.intent, got, changed, c.want, c.changed)
		}
	}
}

func TestTerminalPaymentStatusesNeverMove(t *testing.T) {
	for _, terminal := range []domain.PaymentStatus{domain.PaymentPaid, domain.PaymentFailed} {
		for _, intent := range []domain.IntentStatus{
			domain.IntentSucceeded, domain.IntentProcessing, domain.IntentStatus("failed"),
		} {
			got, changed := domain.NextPaymentStatus(terminal, intent)
			if got != terminal || changed {
				t.Fatalf("terminal %s moved to %s on %s", terminal, got, intent)
			}
		}
	}
}

func TestCanAdvanceOrder(t *testing.T) {
	allow := [][2]domain.OrderStatus{
		{domain.OrderPending, domain.OrderProcessing},
		{domain.OrderProcessing, domain.OrderShipped},
		{domain.OrderShipped, domain.OrderDelivered},
		{domain.OrderPending, domain.OrderCancelled},
		{domain.OrderShipped, domain.OrderCancelled},
	}
	for _, a := range allow {
		if !domain.CanAdvanceOrder(a[0], a[1]) {
			t.Fatalf("%s -> %s should be allowed", a[0], a[1])
		}
	}
	deny := [][2]domain.OrderStatus{
		{domain.OrderPending, domain.OrderShipped},
		{domain.OrderDelivered, domain.OrderCancelled},
		{domain.OrderCancelled, domain.OrderProcessing},
		{domain.OrderShipped, domain.OrderProcessing},
	}
	for _, d := range deny {
		if domain.CanAdvanceOrder(d[0], d[1]) {
			t.Fatalf("%s -> %s should be denied", d[0], d[1])
		}
	}
}
