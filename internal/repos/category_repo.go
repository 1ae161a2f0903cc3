package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"appliancestore/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `
    id,
    name,
    COALESCE(description,'') AS description,
    COALESCE(menu_display,0) AS menu_display,
    user_id,
    COALESCE(created_at,'') AS created_at,
    COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT`+categoryCols+` FROM categories ORDER BY name`)
	return out, err
}

// ListMenu returns the categories flagged for site navigation.
func (r *CategoryRepo) ListMenu() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT`+categoryCols+` FROM categories WHERE menu_display = 1 ORDER BY name`)
	return out, err
}

// Get returns nil, nil when the id is unknown.
func (r *CategoryRepo) Get(id int64) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.Get(&c, `SELECT`+categoryCols+` FROM categories WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ByName matches case-insensitively. SQLite's LOWER() only folds ASCII,
// so the comparison happens here to cover Cyrillic names too.
func (r *CategoryRepo) ByName(name string) (*domain.Category, error) {
	cats, err := r.List()
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if strings.EqualFold(cats[i].Name, name) {
			return &cats[i], nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Create(name, description string, menuDisplay bool, userID int64) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO categories(name, description, menu_display, user_id, created_at, updated_at)
		VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, name, nullIfEmpty(description), menuDisplay, userID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update reports whether a row was touched.
func (r *CategoryRepo) Update(id int64, name, description string, menuDisplay bool) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE categories
		SET name = ?, description = ?, menu_display = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, name, nullIfEmpty(description), menuDisplay, id)
	return affected(res, err)
}

// Delete removes the category's products and then the category in one transaction.
func (r *CategoryRepo) Delete(id int64) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM products WHERE category_id = ?`, id); err != nil {
		return false, err
	}
	ok, err := affected(tx.Exec(`DELETE FROM categories WHERE id = ?`, id))
	if err != nil {
		return false, err
	}
	return ok, tx.Commit()
}
