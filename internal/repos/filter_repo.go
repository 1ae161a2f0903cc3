package repos

import (
	"github.com/jmoiron/sqlx"

	"appliancestore/internal/domain"
)

type FilterRepo struct{ db *sqlx.DB }

func NewFilterRepo(db *sqlx.DB) *FilterRepo { return &FilterRepo{db: db} }

const filterCols = `
    id,
    category_id,
    filter_name,
    filter_type,
    COALESCE(display_order,0) AS display_order,
    COALESCE(created_at,'') AS created_at,
    COALESCE(updated_at,'') AS updated_at`

func (r *FilterRepo) ListByCategory(categoryID int64) ([]domain.FilterDefinition, error) {
	out := []domain.FilterDefinition{}
	err := r.db.Select(&out, `
		SELECT`+filterCols+`
		FROM filter_definitions
		WHERE category_id = ?
		ORDER BY display_order, filter_name
	`, categoryID)
	return out, err
}

func (r *FilterRepo) Get(id int64) (*domain.FilterDefinition, error) {
	var f domain.FilterDefinition
	if err := r.db.Get(&f, `SELECT`+filterCols+` FROM filter_definitions WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (r *FilterRepo) Options(filterID int64) ([]domain.FilterOption, error) {
	out := []domain.FilterOption{}
	err := r.db.Select(&out, `
		SELECT id, filter_definition_id, option_value,
		       COALESCE(display_order,0) AS display_order,
		       COALESCE(created_at,'') AS created_at
		FROM filter_options
		WHERE filter_definition_id = ?
		ORDER BY display_order, id
	`, filterID)
	return out, err
}

// WithOptions loads every filter of a category along with its options.
func (r *FilterRepo) WithOptions(categoryID int64) ([]domain.FilterWithOptions, error) {
	defs, err := r.ListByCategory(categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FilterWithOptions, 0, len(defs))
	for _, d := range defs {
		opts, err := r.Options(d.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FilterWithOptions{FilterDefinition: d, Options: opts})
	}
	return out, nil
}

func (r *FilterRepo) Create(categoryID int64, name string, typ domain.FilterType, displayOrder int) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO filter_definitions(category_id, filter_name, filter_type, display_order, created_at, updated_at)
		VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, categoryID, name, string(typ), displayOrder)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *FilterRepo) CreateOption(filterID int64, value string, displayOrder int) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO filter_options(filter_definition_id, option_value, display_order, created_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	`, filterID, value, displayOrder)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Delete drops the definition; options and product values cascade.
func (r *FilterRepo) Delete(id int64) (bool, error) {
	return affected(r.db.Exec(`DELETE FROM filter_definitions WHERE id = ?`, id))
}

// DeleteOption only removes the option when it belongs to filterID.
func (r *FilterRepo) DeleteOption(filterID, optionID int64) (bool, error) {
	return affected(r.db.Exec(`
		DELETE FROM filter_options WHERE id = ? AND filter_definition_id = ?
	`, optionID, filterID))
}

// SetProductValues writes the product's filter values in one transaction.
// An empty value removes the assignment; otherwise at most one value is kept
// per (product, filter).
func (r *FilterRepo) SetProductValues(productID int64, values map[int64]string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for filterID, v := range values {
		if v == "" {
			_, err = tx.Exec(`
				DELETE FROM product_filters WHERE product_id = ? AND filter_definition_id = ?
			`, productID, filterID)
		} else {
			_, err = tx.Exec(`
				INSERT OR REPLACE INTO product_filters(product_id, filter_definition_id, filter_value, created_at)
				VALUES(?, ?, ?, CURRENT_TIMESTAMP)
			`, productID, filterID, v)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *FilterRepo) ProductValues(productID int64) ([]domain.ProductFilter, error) {
	out := []domain.ProductFilter{}
	err := r.db.Select(&out, `
		SELECT pf.id, pf.product_id, pf.filter_definition_id, pf.filter_value,
		       fd.filter_name, fd.filter_type,
		       COALESCE(pf.created_at,'') AS created_at
		FROM product_filters pf
		JOIN filter_definitions fd ON fd.id = pf.filter_definition_id
		WHERE pf.product_id = ?
		ORDER BY fd.display_order, fd.id
	`, productID)
	return out, err
}

// ValuesForCategory maps product id -> filter id -> explicit value for
// every product in the category.
func (r *FilterRepo) ValuesForCategory(categoryID int64) (map[int64]map[int64]string, error) {
	rows := []domain.ProductFilter{}
	err := r.db.Select(&rows, `
		SELECT pf.id, pf.product_id, pf.filter_definition_id, pf.filter_value,
		       fd.filter_name, fd.filter_type,
		       COALESCE(pf.created_at,'') AS created_at
		FROM product_filters pf
		JOIN filter_definitions fd ON fd.id = pf.filter_definition_id
		WHERE fd.category_id = ?
	`, categoryID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]map[int64]string)
	for _, pf := range rows {
		m, ok := out[pf.ProductID]
		if !ok {
			m = make(map[int64]string)
			out[pf.ProductID] = m
		}
		m[pf.FilterDefinitionID] = pf.Value
	}
	return out, nil
}
