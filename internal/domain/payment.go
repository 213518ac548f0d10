package domain

// PaymentStatus is the order-side view of a payment attempt.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentPaid || s == PaymentFailed
}

// IntentStatus is the gateway-side status of a payment intent.
type IntentStatus string

const (
	IntentAwaitingMethod IntentStatus = "awaiting_payment_method"
	IntentAwaitingAction IntentStatus = "awaiting_next_action"
	IntentProcessing     IntentStatus = "processing"
	IntentSucceeded      IntentStatus = "succeeded"
	IntentFailed         IntentStatus = "failed"
)

// NextPaymentStatus maps a gateway-reported intent status onto the order's
// payment status. The second return is false when the order should not be
// touched: either the payment is still in flight (caller retries later) or
// the order already sits in a terminal state. Re-confirming a paid order is
// therefore a no-op that still reports paid.
func NextPaymentStatus(cur PaymentStatus, intent IntentStatus) (PaymentStatus, bool) {
	if cur.IsTerminal() {
		return cur, false
	}
	switch intent {
	case IntentSucceeded:
		return PaymentPaid, true
	case IntentAwaitingMethod, IntentAwaitingAction, IntentProcessing:
		return cur, false
	default:
		return PaymentFailed, true
	}
}
