package repos

import (
	"growlokal/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// row mirrors the orders table; the address columns are flattened.
type row struct {
	ID          string  `db:"id"`
	OrderID     string  `db:"order_id"`
	SessionID   string  `db:"session_id"`
	Method      string  `db:"payment_method"`
	Subtotal    float64 `db:"subtotal"`
	ShippingFee float64 `db:"shipping_fee"`
	Total       float64 `db:"total"`
	PayStatus   string  `db:"payment_status"`
	IntentID    string  `db:"intent_id"`
	Status      string  `db:"status"`
	FullName    string  `db:"full_name"`
	Email       string  `db:"email"`
	Phone       string  `db:"phone"`
	Address     string  `db:"address"`
	City        string  `db:"city"`
	Province    string  `db:"province"`
	PostalCode  string  `db:"postal_code"`
	CreatedAt   string  `db:"created_at"`
}

func (r row) toDomain() domain.Order {
	return domain.Order{
		ID:          r.ID,
		OrderID:     r.OrderID,
		SessionID:   r.SessionID,
		Method:      domain.PaymentMethod(r.Method),
		Subtotal:    r.Subtotal,
		ShippingFee: r.ShippingFee,
		Total:       r.Total,
		PayStatus:   domain.PaymentStatus(r.PayStatus),
		IntentID:    r.IntentID,
		Status:      domain.OrderStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		Shipping: domain.ShippingAddress{
			FullName:   r.FullName,
			Email:      r.Email,
			Phone:      r.Phone,
			Address:    r.Address,
			City:       r.City,
			Province:   r.Province,
			PostalCode: r.PostalCode,
		},
	}
}

const orderCols = `id, order_id, COALESCE(session_id,'') AS session_id, payment_method,
	subtotal, shipping_fee, total, payment_status, intent_id, status,
	full_name, email, phone, address, city, province, postal_code, created_at`

// Create inserts the order header; amounts are immutable afterwards.
func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, order_id, session_id, payment_method, subtotal, shipping_fee, total,
	     payment_status, status, full_name, email, phone, address, city, province, postal_code, created_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, 'pending', 'pending', ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.OrderID, o.SessionID, string(o.Method), o.Subtotal, o.ShippingFee, o.Total,
		o.Shipping.FullName, o.Shipping.Email, o.Shipping.Phone, o.Shipping.Address,
		o.Shipping.City, o.Shipping.Province, o.Shipping.PostalCode)
	return err
}

func (r *OrderRepo) InsertItem(orderID string, it domain.OrderItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, name, artist_name, image_url, qty, price)
	  VALUES(?, ?, ?, ?, ?, ?, ?)
	`, orderID, it.ProductID, it.Name, it.ArtistName, it.ImageURL, it.Qty, it.Price)
	return err
}

// Get resolves either the human-readable order id or the internal id.
func (r *OrderRepo) Get(ref string) (domain.Order, error) {
	var rw row
	if err := r.db.Get(&rw, `SELECT `+orderCols+` FROM orders WHERE order_id = ? OR id = ?`, ref, ref); err != nil {
		return domain.Order{}, err
	}
	o := rw.toDomain()

	items := []domain.OrderItem{}
	if err := r.db.Select(&items, `
		SELECT product_id, name, artist_name, image_url, qty, price
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, rw.ID); err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) ListBySession(sessionID string) ([]domain.Order, error) {
	var rows []row
	err := r.db.Select(&rows, `
		SELECT `+orderCols+` FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// ListByUser returns orders for a given user via session linkage.
func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var rows []row
	err := r.db.Select(&rows, `
		SELECT o.id, o.order_id, COALESCE(o.session_id,'') AS session_id, o.payment_method,
		       o.subtotal, o.shipping_fee, o.total, o.payment_status, o.intent_id, o.status,
		       o.full_name, o.email, o.phone, o.address, o.city, o.province, o.postal_code, o.created_at
		FROM orders o
		JOIN sessions s ON s.id = o.session_id
		WHERE s.user_id = ?
		ORDER BY datetime(o.created_at) DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []row
	err := r.db.Select(&rows, `
		SELECT `+orderCols+` FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// SetPaymentStatus records a payment transition and the intent that drove it.
func (r *OrderRepo) SetPaymentStatus(id string, status domain.PaymentStatus, intentID string) error {
	_, err := r.db.Exec(`UPDATE orders SET payment_status = ?, intent_id = ? WHERE id = ?`,
		string(status), intentID, id)
	return err
}

// SetIntent tracks the most recent gateway intent without touching status.
func (r *OrderRepo) SetIntent(id, intentID string) error {
	_, err := r.db.Exec(`UPDATE orders SET intent_id = ? WHERE id = ?`, intentID, id)
	return err
}

func (r *OrderRepo) UpdateStatus(id string, status domain.OrderStatus) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, string(status), id)
	return err
}
