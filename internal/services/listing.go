package services

import (
	"sort"
	"strconv"
	"strings"

	"appliancestore/internal/domain"
)

// PageSize is the number of products per storefront listing page.
const PageSize = 12

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListingQuery carries the storefront query parameters of a category page.
type ListingQuery struct {
	Search string
	Sort   string
	// Filters maps a filter definition id to the selected option values.
	Filters map[int64][]string
	Page    int
}

// ParseListingQuery reads search, sort, page and filter_<id>=a,b parameters.
func ParseListingQuery(params map[string]string) ListingQuery {
	q := ListingQuery{
		Search:  strings.TrimSpace(params["search"]),
		Sort:    strings.ToLower(strings.TrimSpace(params["sort"])),
		Filters: map[int64][]string{},
		Page:    1,
	}
	if p, err := strconv.Atoi(strings.TrimSpace(params["page"])); err == nil && p > 1 {
		q.Page = p
	}
	for k, v := range params {
		rest, ok := strings.CutPrefix(k, "filter_")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			continue
		}
		var vals []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				vals = append(vals, s)
			}
		}
		if len(vals) > 0 {
			q.Filters[id] = vals
		}
	}
	return q
}

// Selected reports whether value is part of the selection for filterID.
func (q ListingQuery) Selected(filterID int64, value string) bool {
	for _, v := range q.Filters[filterID] {
		if v == value {
			return true
		}
	}
	return false
}

type Listing struct {
	Products   []domain.Product
	Total      int
	Page       int
	TotalPages int
}

func (l Listing) HasPrev() bool { return l.Page > 1 }
func (l Listing) HasNext() bool { return l.Page < l.TotalPages }
func (l Listing) PrevPage() int { return l.Page - 1 }
func (l Listing) NextPage() int { return l.Page + 1 }

// Pages lists 1..TotalPages for pager links.
func (l Listing) Pages() []int {
	out := make([]int, l.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// ApplyListing narrows, orders and slices a category's available products.
// It does not touch the store and does not modify products.
// values holds the explicit filter assignments (product id -> filter id -> value);
// only filters present in defs are considered.
func ApplyListing(products []domain.Product, defs []domain.FilterDefinition, values map[int64]map[int64]string, q ListingQuery) Listing {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q.Search != "" && !p.NameContains(q.Search) {
			continue
		}
		out = append(out, p)
	}

	for _, d := range defs {
		selected := q.Filters[d.ID]
		if len(selected) == 0 {
			continue
		}
		kept := out[:0]
		for _, p := range out {
			if matchesFilter(p, d.ID, selected, values) {
				kept = append(kept, p)
			}
		}
		out = kept
	}

	switch q.Sort {
	case SortAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PriceOrZero().LessThan(out[j].PriceOrZero())
		})
	case SortDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PriceOrZero().GreaterThan(out[j].PriceOrZero())
		})
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	total := len(out)
	l := Listing{
		Total:      total,
		Page:       page,
		TotalPages: (total + PageSize - 1) / PageSize,
		Products:   []domain.Product{},
	}
	// compare pages before multiplying so a huge page number cannot overflow
	if page <= l.TotalPages {
		start := (page - 1) * PageSize
		end := min(start+PageSize, total)
		l.Products = out[start:end]
	}
	return l
}

// matchesFilter checks the explicit value first. Products without one fall
// back to a name match against any selected value.
func matchesFilter(p domain.Product, filterID int64, selected []string, values map[int64]map[int64]string) bool {
	if v, ok := values[p.ID][filterID]; ok {
		for _, s := range selected {
			if v == s {
				return true
			}
		}
		return false
	}
	for _, s := range selected {
		if p.NameContains(s) {
			return true
		}
	}
	return false
}
