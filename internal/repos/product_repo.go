package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"appliancestore/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id,
    name,
    COALESCE(description,'') AS description,
    price,
    category_id,
    user_id,
    COALESCE(availability,0) AS availability,
    COALESCE(photo_url,'') AS photo_url,
    COALESCE(created_at,'') AS created_at,
    COALESCE(updated_at,'') AS updated_at`

// ProductFields is what the admin area can set on a product.
type ProductFields struct {
	Name         string
	Description  string
	Price        decimal.NullDecimal
	CategoryID   int64
	Availability bool
	PhotoURL     string
}

func priceArg(p decimal.NullDecimal) any {
	if !p.Valid {
		return nil
	}
	return p.Decimal.String()
}

func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT`+productCols+` FROM products ORDER BY name, id`)
	return out, err
}

// ListPage is the admin dashboard listing, newest first.
func (r *ProductRepo) ListPage(limit, offset int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
		SELECT`+productCols+`
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

func (r *ProductRepo) ListByCategory(categoryID int64) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT`+productCols+` FROM products WHERE category_id = ? ORDER BY name, id`, categoryID)
	return out, err
}

// ListAvailableByCategory feeds the storefront listing; rows come back by
// name so the later stable price sort keeps name order for ties.
func (r *ProductRepo) ListAvailableByCategory(categoryID int64) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
		SELECT`+productCols+`
		FROM products
		WHERE category_id = ? AND availability = 1
		ORDER BY name, id
	`, categoryID)
	return out, err
}

func (r *ProductRepo) Get(id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.Get(&p, `SELECT`+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ByNameAndCategory is an exact, case-sensitive match on name.
func (r *ProductRepo) ByNameAndCategory(name string, categoryID int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
		SELECT`+productCols+`
		FROM products
		WHERE name = ? AND category_id = ?
		ORDER BY id
		LIMIT 1
	`, name, categoryID)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProductRepo) Create(f ProductFields, userID int64) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO products(name, description, price, category_id, user_id, availability, photo_url, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, f.Name, nullIfEmpty(f.Description), priceArg(f.Price), f.CategoryID, userID, f.Availability, nullIfEmpty(f.PhotoURL))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Update(id int64, f ProductFields) (bool, error) {
	return affected(r.db.Exec(`
		UPDATE products
		SET name = ?, description = ?, price = ?, category_id = ?, availability = ?, photo_url = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, f.Name, nullIfEmpty(f.Description), priceArg(f.Price), f.CategoryID, f.Availability, nullIfEmpty(f.PhotoURL), id))
}

// UpdatePriceAndAvailability is the import job's refresh of an existing row.
func (r *ProductRepo) UpdatePriceAndAvailability(id int64, price decimal.Decimal, available bool) error {
	_, err := r.db.Exec(`
		UPDATE products SET price = ?, availability = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, price.String(), available, id)
	return err
}

// MarkAllUnavailable hides the whole catalog; the import job re-enables
// whatever the incoming price list still carries.
func (r *ProductRepo) MarkAllUnavailable() (int64, error) {
	res, err := r.db.Exec(`UPDATE products SET availability = 0, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ProductRepo) Delete(id int64) (bool, error) {
	return affected(r.db.Exec(`DELETE FROM products WHERE id = ?`, id))
}
