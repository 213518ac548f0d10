package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartItemRow is a cart line with its add-time snapshot.
type CartItemRow struct {
	ProductID  string  `db:"product_id" json:"productId"`
	Name       string  `db:"name_at_add" json:"name"`
	ArtistName string  `db:"artist_at_add" json:"artistName"`
	ImageURL   string  `db:"image_at_add" json:"image"`
	Qty        int     `db:"qty" json:"quantity"`
	Price      float64 `db:"price_at_add" json:"price"`
	MaxStock   int     `db:"max_stock" json:"maxStock"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// ItemQty returns the current line quantity, or 0 when the line is absent.
func (r *CartRepo) ItemQty(cartID, productID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT qty FROM cart_items WHERE cart_id=? AND product_id=?`, cartID, productID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// UpsertItem inserts a line with its product snapshot or adds to the
// existing quantity.
func (r *CartRepo) UpsertItem(cartID, productID string, qty int, price float64, name, image, artist string) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,product_id,qty,price_at_add,name_at_add,image_at_add,artist_at_add,created_at)
		VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, qty, price, name, image, artist)
	return err
}

// SetQty overwrites a line quantity; the snapshot fields keep their add-time values.
func (r *CartRepo) SetQty(cartID, productID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND product_id = ?
	`, qty, cartID, productID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	return err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// Items lists cart lines with live stock joined in, so callers can cap
// quantities against current availability.
func (r *CartRepo) Items(cartID string) ([]CartItemRow, error) {
	rows := []CartItemRow{}
	err := r.db.Select(&rows, `
	  SELECT ci.product_id, ci.name_at_add, ci.artist_at_add, ci.image_at_add,
	         ci.qty, ci.price_at_add, p.stock AS max_stock
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at
	`, cartID)
	return rows, err
}

// MergeForLogin folds an anonymous session cart into the user's cart.
func (r *CartRepo) MergeForLogin(userID, sid string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var anonID, userCartID sql.NullString

	if err := tx.Get(&anonID, `SELECT id FROM carts WHERE session_id=?`, sid); err != nil && err != sql.ErrNoRows {
		return err
	}
	if err := tx.Get(&userCartID, `SELECT id FROM carts WHERE user_id=? ORDER BY updated_at DESC LIMIT 1`, userID); err != nil && err != sql.ErrNoRows {
		return err
	}

	if !anonID.Valid {
		return tx.Commit()
	}

	// No prior user cart: claim the anonymous one.
	if !userCartID.Valid {
		if _, err := tx.Exec(`UPDATE carts SET user_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, userID, anonID.String); err != nil {
			return err
		}
		return tx.Commit()
	}

	type line struct {
		ProductID string  `db:"product_id"`
		Qty       int     `db:"qty"`
		Price     float64 `db:"price_at_add"`
		Name      string  `db:"name_at_add"`
		Image     string  `db:"image_at_add"`
		Artist    string  `db:"artist_at_add"`
	}
	var lines []line
	if err := tx.Select(&lines, `
		SELECT product_id, qty, price_at_add, name_at_add, image_at_add, artist_at_add
		FROM cart_items WHERE cart_id=?`, anonID.String); err != nil {
		return err
	}

	for _, it := range lines {
		_, err := tx.Exec(`
			INSERT INTO cart_items(cart_id, product_id, qty, price_at_add, name_at_add, image_at_add, artist_at_add, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT(cart_id, product_id) DO UPDATE SET
			  qty = qty + excluded.qty,
			  updated_at = CURRENT_TIMESTAMP
		`, userCartID.String, it.ProductID, it.Qty, it.Price, it.Name, it.Image, it.Artist)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM carts WHERE id=?`, anonID.String); err != nil {
		return err
	}

	return tx.Commit()
}
