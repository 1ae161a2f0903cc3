package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"appliancestore/internal/domain"
	"appliancestore/internal/repos"
	"appliancestore/internal/validate"
)

// AdminPageSize is the dashboard product page size.
const AdminPageSize = 50

type CatalogService struct {
	Cats    *repos.CategoryRepo
	Prods   *repos.ProductRepo
	Filters *repos.FilterRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, filters *repos.FilterRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Filters: filters}
}

type CategoryInput struct {
	Name        string
	Description string
	MenuDisplay bool
}

func (in CategoryInput) clean() (CategoryInput, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return in, fmt.Errorf("%w: category name is required", ErrInvalid)
	}
	in.Name = name
	in.Description = validate.Text(in.Description, 2000)
	return in, nil
}

type ProductInput struct {
	Name         string
	Description  string
	Price        string
	CategoryID   int64
	Availability bool
	PhotoURL     string
}

func (s *CatalogService) productFields(in ProductInput) (repos.ProductFields, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return repos.ProductFields{}, fmt.Errorf("%w: product name is required", ErrInvalid)
	}
	price, ok := validate.Price(in.Price)
	if !ok {
		return repos.ProductFields{}, fmt.Errorf("%w: price must be a non-negative number", ErrInvalid)
	}
	photo, ok := validate.Link(in.PhotoURL)
	if !ok {
		return repos.ProductFields{}, fmt.Errorf("%w: photo url", ErrInvalid)
	}
	cat, err := s.Cats.Get(in.CategoryID)
	if err != nil {
		return repos.ProductFields{}, err
	}
	if cat == nil {
		return repos.ProductFields{}, fmt.Errorf("%w: category does not exist", ErrInvalid)
	}
	return repos.ProductFields{
		Name:         name,
		Description:  validate.Text(in.Description, 5000),
		Price:        price,
		CategoryID:   cat.ID,
		Availability: in.Availability,
		PhotoURL:     photo,
	}, nil
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) MenuCategories() ([]domain.Category, error) {
	return s.Cats.ListMenu()
}

func (s *CatalogService) GetCategory(id int64) (*domain.Category, error) {
	c, err := s.Cats.Get(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(in CategoryInput) (int64, error) {
	in, err := in.clean()
	if err != nil {
		return 0, err
	}
	return s.Cats.Create(in.Name, in.Description, in.MenuDisplay, repos.DefaultUserID)
}

func (s *CatalogService) UpdateCategory(id int64, in CategoryInput) error {
	in, err := in.clean()
	if err != nil {
		return err
	}
	ok, err := s.Cats.Update(id, in.Name, in.Description, in.MenuDisplay)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes the category together with its products.
func (s *CatalogService) DeleteCategory(id int64) error {
	ok, err := s.Cats.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) GetProduct(id int64) (*domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *CatalogService) ProductsByCategory(categoryID int64) ([]domain.Product, error) {
	return s.Prods.ListByCategory(categoryID)
}

// CheckProduct validates in without writing anything.
func (s *CatalogService) CheckProduct(in ProductInput) error {
	_, err := s.productFields(in)
	return err
}

func (s *CatalogService) CreateProduct(in ProductInput) (int64, error) {
	f, err := s.productFields(in)
	if err != nil {
		return 0, err
	}
	return s.Prods.Create(f, repos.DefaultUserID)
}

func (s *CatalogService) UpdateProduct(id int64, in ProductInput) error {
	f, err := s.productFields(in)
	if err != nil {
		return err
	}
	ok, err := s.Prods.Update(id, f)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) DeleteProduct(id int64) error {
	ok, err := s.Prods.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

type ProductPage struct {
	Products   []domain.Product
	Total      int
	Page       int
	TotalPages int
}

// AdminProducts pages through every product, available or not.
func (s *CatalogService) AdminProducts(page int) (ProductPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.Prods.Count()
	if err != nil {
		return ProductPage{}, err
	}
	items, err := s.Prods.ListPage(AdminPageSize, (page-1)*AdminPageSize)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{
		Products:   items,
		Total:      total,
		Page:       page,
		TotalPages: (total + AdminPageSize - 1) / AdminPageSize,
	}, nil
}

// CategoryView is everything the storefront category page renders.
type CategoryView struct {
	Category *domain.Category
	Filters  []domain.FilterWithOptions
	Query    ListingQuery
	Listing  Listing
}

func (s *CatalogService) Browse(categoryID int64, q ListingQuery) (*CategoryView, error) {
	cat, err := s.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}
	products, err := s.Prods.ListAvailableByCategory(cat.ID)
	if err != nil {
		return nil, err
	}
	filters, err := s.Filters.WithOptions(cat.ID)
	if err != nil {
		return nil, err
	}
	values, err := s.Filters.ValuesForCategory(cat.ID)
	if err != nil {
		return nil, err
	}
	defs := make([]domain.FilterDefinition, len(filters))
	for i, f := range filters {
		defs[i] = f.FilterDefinition
	}
	return &CategoryView{
		Category: cat,
		Filters:  filters,
		Query:    q,
		Listing:  ApplyListing(products, defs, values, q),
	}, nil
}

// ProductView is a product with its category and filter values.
type ProductView struct {
	Product  *domain.Product
	Category *domain.Category
	Values   []domain.ProductFilter
}

func (s *CatalogService) ProductDetail(id int64) (*ProductView, error) {
	p, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	cat, err := s.Cats.Get(p.CategoryID)
	if err != nil {
		return nil, err
	}
	values, err := s.Filters.ProductValues(p.ID)
	if err != nil {
		return nil, err
	}
	return &ProductView{Product: p, Category: cat, Values: values}, nil
}

// MinSearchRunes is the shortest query the search API answers.
const MinSearchRunes = 2

type SearchResult struct {
	Query      string            `json:"query"`
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

// Search matches category and product names by case-insensitive substring.
// A limit of 0 means unlimited. Queries shorter than MinSearchRunes return
// an empty result when enforceMin is set.
func (s *CatalogService) Search(q string, catLimit, prodLimit int, enforceMin bool) (SearchResult, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	res := SearchResult{Query: q, Categories: []domain.Category{}, Products: []domain.Product{}}
	if q == "" || (enforceMin && utf8.RuneCountInString(q) < MinSearchRunes) {
		return res, nil
	}

	cats, err := s.Cats.List()
	if err != nil {
		return res, err
	}
	for _, c := range cats {
		if catLimit > 0 && len(res.Categories) == catLimit {
			break
		}
		if strings.Contains(strings.ToLower(c.Name), q) {
			res.Categories = append(res.Categories, c)
		}
	}

	prods, err := s.Prods.List()
	if err != nil {
		return res, err
	}
	for _, p := range prods {
		if prodLimit > 0 && len(res.Products) == prodLimit {
			break
		}
		if p.NameContains(q) {
			res.Products = append(res.Products, p)
		}
	}
	return res, nil
}
