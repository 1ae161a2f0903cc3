package services

import (
	"fmt"
	"strings"

	"appliancestore/internal/domain"
	"appliancestore/internal/repos"
	"appliancestore/internal/validate"
)

type FilterService struct {
	Filters *repos.FilterRepo
	Cats    *repos.CategoryRepo
	Prods   *repos.ProductRepo
}

func NewFilterService(filters *repos.FilterRepo, cats *repos.CategoryRepo, prods *repos.ProductRepo) *FilterService {
	return &FilterService{Filters: filters, Cats: cats, Prods: prods}
}

type FilterInput struct {
	Name         string
	Type         string
	DisplayOrder int
}

func (s *FilterService) ForCategory(categoryID int64) ([]domain.FilterWithOptions, error) {
	return s.Filters.WithOptions(categoryID)
}

func (s *FilterService) Get(id int64) (*domain.FilterDefinition, error) {
	f, err := s.Filters.Get(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *FilterService) Create(categoryID int64, in FilterInput) (int64, error) {
	cat, err := s.Cats.Get(categoryID)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, ErrNotFound
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return 0, fmt.Errorf("%w: filter name is required", ErrInvalid)
	}
	typ, ok := validate.FilterType(in.Type)
	if !ok {
		return 0, fmt.Errorf("%w: filter type must be checkbox, radio, range or select", ErrInvalid)
	}
	existing, err := s.Filters.ListByCategory(categoryID)
	if err != nil {
		return 0, err
	}
	for _, f := range existing {
		if strings.EqualFold(f.Name, name) {
			return 0, fmt.Errorf("%w: filter %q already exists in this category", ErrInvalid, name)
		}
	}
	return s.Filters.Create(categoryID, name, typ, in.DisplayOrder)
}

func (s *FilterService) CreateOption(filterID int64, value string, displayOrder int) (int64, error) {
	if _, err := s.Get(filterID); err != nil {
		return 0, err
	}
	v, ok := validate.Name(value)
	if !ok {
		return 0, fmt.Errorf("%w: option value is required", ErrInvalid)
	}
	return s.Filters.CreateOption(filterID, v, displayOrder)
}

func (s *FilterService) Delete(id int64) error {
	ok, err := s.Filters.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *FilterService) DeleteOption(filterID, optionID int64) error {
	ok, err := s.Filters.DeleteOption(filterID, optionID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *FilterService) ProductValues(productID int64) ([]domain.ProductFilter, error) {
	return s.Filters.ProductValues(productID)
}

// AssignProductValues sets one value per filter of the product's category.
// An empty value clears the assignment. Filters from other categories are
// rejected before anything is written.
func (s *FilterService) AssignProductValues(productID int64, values map[int64]string) error {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	defs, err := s.Filters.ListByCategory(p.CategoryID)
	if err != nil {
		return err
	}
	allowed := make(map[int64]bool, len(defs))
	for _, d := range defs {
		allowed[d.ID] = true
	}
	clean := make(map[int64]string, len(values))
	for filterID, v := range values {
		if !allowed[filterID] {
			return fmt.Errorf("%w: filter %d does not belong to the product's category", ErrInvalid, filterID)
		}
		clean[filterID] = strings.TrimSpace(v)
	}
	return s.Filters.SetProductValues(productID, clean)
}
