package repos

import (
	"growlokal/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, category_id, name, description, artist_name, price, stock, image_url, active,
    created_at, COALESCE(updated_at,'') AS updated_at`

// Get returns a product regardless of active flag; callers decide whether
// inactive products are visible (admin yes, storefront no).
func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT`+productCols+`
	  FROM products
	  WHERE category_id = ? AND active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	return out, err
}

// Update rewrites the mutable product fields.
func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, description=?, artist_name=?, price=?, stock=?, image_url=?,
	      updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Name, p.Description, p.ArtistName, p.Price, p.Stock, p.ImageURL, p.ID)
	return err
}

// SoftDelete marks a product inactive, preserving order history references.
func (r *ProductRepo) SoftDelete(id string) error {
	_, err := r.db.Exec(`UPDATE products SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

func (r *ProductRepo) Stock(id string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT stock FROM products WHERE id=? AND active=1`, id)
	return n, err
}
