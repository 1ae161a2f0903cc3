package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	MenuDisplay bool   `db:"menu_display" json:"menu_display"`
	UserID      int64  `db:"user_id" json:"user_id"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at"`
}

type Product struct {
	ID           int64               `db:"id" json:"id"`
	Name         string              `db:"name" json:"name"`
	Description  string              `db:"description" json:"description,omitempty"`
	Price        decimal.NullDecimal `db:"price" json:"price"`
	CategoryID   int64               `db:"category_id" json:"category_id"`
	UserID       int64               `db:"user_id" json:"user_id"`
	Availability bool                `db:"availability" json:"availability"`
	PhotoURL     string              `db:"photo_url" json:"photo_url,omitempty"`
	CreatedAt    string              `db:"created_at" json:"created_at"`
	UpdatedAt    string              `db:"updated_at" json:"updated_at"`
}

// PriceOrZero treats a missing price as zero, which is how listings sort it.
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

func (p Product) PriceLabel() string { return p.PriceOrZero().StringFixed(2) }

// NameContains is a case-insensitive substring match on the product name.
func (p Product) NameContains(term string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term))
}

type FilterType string

const (
	FilterCheckbox FilterType = "checkbox"
	FilterRadio    FilterType = "radio"
	FilterRange    FilterType = "range"
	FilterSelect   FilterType = "select"
)

var FilterTypes = []FilterType{FilterCheckbox, FilterRadio, FilterRange, FilterSelect}

func (t FilterType) Valid() bool {
	for _, ft := range FilterTypes {
		if ft == t {
			return true
		}
	}
	return false
}

type FilterDefinition struct {
	ID           int64      `db:"id" json:"id"`
	CategoryID   int64      `db:"category_id" json:"category_id"`
	Name         string     `db:"filter_name" json:"filter_name"`
	Type         FilterType `db:"filter_type" json:"filter_type"`
	DisplayOrder int        `db:"display_order" json:"display_order"`
	CreatedAt    string     `db:"created_at" json:"created_at"`
	UpdatedAt    string     `db:"updated_at" json:"updated_at"`
}

type FilterOption struct {
	ID                 int64  `db:"id" json:"id"`
	FilterDefinitionID int64  `db:"filter_definition_id" json:"filter_definition_id"`
	Value              string `db:"option_value" json:"option_value"`
	DisplayOrder       int    `db:"display_order" json:"display_order"`
	CreatedAt          string `db:"created_at" json:"created_at"`
}

// FilterWithOptions is a definition together with its selectable values.
type FilterWithOptions struct {
	FilterDefinition
	Options []FilterOption `json:"options"`
}

type ProductFilter struct {
	ID                 int64      `db:"id" json:"id"`
	ProductID          int64      `db:"product_id" json:"product_id"`
	FilterDefinitionID int64      `db:"filter_definition_id" json:"filter_definition_id"`
	Value              string     `db:"filter_value" json:"filter_value"`
	FilterName         string     `db:"filter_name" json:"filter_name"`
	FilterType         FilterType `db:"filter_type" json:"filter_type"`
	CreatedAt          string     `db:"created_at" json:"created_at"`
}

type Slider struct {
	ID          int64  `db:"id" json:"id"`
	ImageURL    string `db:"image_url" json:"image_url"`
	Title       string `db:"title" json:"title,omitempty"`
	Description string `db:"description" json:"description,omitempty"`
	LinkURL     string `db:"link_url" json:"link_url,omitempty"`
	OrderIndex  int    `db:"order_index" json:"order_index"`
	IsActive    bool   `db:"is_active" json:"is_active"`
	UserID      int64  `db:"user_id" json:"user_id"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at"`
}
