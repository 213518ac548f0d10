package domain

type PaymentMethod string

const (
	PayCard  PaymentMethod = "card"
	PayGCash PaymentMethod = "gcash"
	PayCOD   PaymentMethod = "cod"
)

func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PayCard, PayGCash, PayCOD:
		return true
	}
	return false
}

// OrderStatus is advanced by fulfillment (admin), never by the payment flow.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// CanAdvanceOrder reports whether fulfillment may move an order from cur to next.
func CanAdvanceOrder(cur, next OrderStatus) bool {
	if cur == OrderDelivered || cur == OrderCancelled {
		return false
	}
	switch next {
	case OrderProcessing:
		return cur == OrderPending
	case OrderShipped:
		return cur == OrderProcessing
	case OrderDelivered:
		return cur == OrderShipped
	case OrderCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	FullName   string `db:"full_name" json:"fullName"`
	Email      string `db:"email" json:"email"`
	Phone      string `db:"phone" json:"phone"`
	Address    string `db:"address" json:"address"`
	City       string `db:"city" json:"city"`
	Province   string `db:"province" json:"province"`
	PostalCode string `db:"postal_code" json:"postalCode"`
}

type Order struct {
	ID          string        `db:"id" json:"-"`
	OrderID     string        `db:"order_id" json:"orderId"`
	SessionID   string        `db:"session_id" json:"-"`
	Method      PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Subtotal    float64       `db:"subtotal" json:"subtotal"`
	ShippingFee float64       `db:"shipping_fee" json:"shippingFee"`
	Total       float64       `db:"total" json:"total"`
	PayStatus   PaymentStatus `db:"payment_status" json:"paymentStatus"`
	IntentID    string        `db:"intent_id" json:"-"`
	Status      OrderStatus   `db:"status" json:"status"`
	CreatedAt   string        `db:"created_at" json:"createdAt"`

	Shipping ShippingAddress `json:"shippingAddress"`
	Items    []OrderItem     `json:"items"`
}

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID  string  `db:"product_id" json:"productId"`
	Name       string  `db:"name" json:"name"`
	ArtistName string  `db:"artist_name" json:"artistName"`
	ImageURL   string  `db:"image_url" json:"image"`
	Qty        int     `db:"qty" json:"quantity"`
	Price      float64 `db:"price" json:"price"`
}
