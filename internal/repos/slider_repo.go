package repos

import (
	"github.com/jmoiron/sqlx"

	"appliancestore/internal/domain"
)

type SliderRepo struct{ db *sqlx.DB }

func NewSliderRepo(db *sqlx.DB) *SliderRepo { return &SliderRepo{db: db} }

const sliderCols = `
    id,
    image_url,
    COALESCE(title,'') AS title,
    COALESCE(description,'') AS description,
    COALESCE(link_url,'') AS link_url,
    order_index,
    is_active,
    user_id,
    created_at,
    updated_at`

type SliderFields struct {
	ImageURL    string
	Title       string
	Description string
	LinkURL     string
	OrderIndex  int
	IsActive    bool
}

func (r *SliderRepo) List() ([]domain.Slider, error) {
	out := []domain.Slider{}
	err := r.db.Select(&out, `SELECT`+sliderCols+` FROM sliders ORDER BY order_index, id`)
	return out, err
}

// ListActive is what the homepage carousel shows.
func (r *SliderRepo) ListActive() ([]domain.Slider, error) {
	out := []domain.Slider{}
	err := r.db.Select(&out, `SELECT`+sliderCols+` FROM sliders WHERE is_active = 1 ORDER BY order_index, id`)
	return out, err
}

func (r *SliderRepo) Get(id int64) (*domain.Slider, error) {
	var s domain.Slider
	if err := r.db.Get(&s, `SELECT`+sliderCols+` FROM sliders WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *SliderRepo) Create(f SliderFields, userID int64) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO sliders(image_url, title, description, link_url, order_index, is_active, user_id, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, f.ImageURL, nullIfEmpty(f.Title), nullIfEmpty(f.Description), nullIfEmpty(f.LinkURL), f.OrderIndex, f.IsActive, userID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SliderRepo) Update(id int64, f SliderFields) (bool, error) {
	return affected(r.db.Exec(`
		UPDATE sliders
		SET image_url = ?, title = ?, description = ?, link_url = ?, order_index = ?, is_active = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, f.ImageURL, nullIfEmpty(f.Title), nullIfEmpty(f.Description), nullIfEmpty(f.LinkURL), f.OrderIndex, f.IsActive, id))
}

func (r *SliderRepo) Delete(id int64) (bool, error) {
	return affected(r.db.Exec(`DELETE FROM sliders WHERE id = ?`, id))
}
