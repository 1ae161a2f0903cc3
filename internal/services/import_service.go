package services

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"appliancestore/internal/domain"
	"appliancestore/internal/repos"
)

// ImportRow is one price-list line: category name, product name, price.
type ImportRow struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Price    string `json:"price"`

	// bad names the field that could not be read as text; the row is skipped.
	bad string
}

// UnmarshalJSON reads each field from a JSON string, number or boolean.
// Anything else marks the row bad instead of failing the whole batch.
func (r *ImportRow) UnmarshalJSON(b []byte) error {
	*r = ImportRow{}
	var raw struct {
		Category json.RawMessage `json:"category"`
		Name     json.RawMessage `json:"name"`
		Price    json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		r.bad = "row"
		return nil
	}
	var ok bool
	if r.Category, ok = jsonText(raw.Category); !ok {
		r.bad = "category"
	}
	if r.Name, ok = jsonText(raw.Name); !ok && r.bad == "" {
		r.bad = "name"
	}
	if r.Price, ok = jsonText(raw.Price); !ok && r.bad == "" {
		r.bad = "price"
	}
	return nil
}

// jsonText renders a scalar JSON value as text. Missing and null read as "".
func jsonText(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || string(v) == "null" {
		return "", true
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	}
	return string(v), true
}

type ImportStats struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type ImportResult struct {
	Success bool        `json:"success"`
	Stats   ImportStats `json:"stats"`
	Errors  []string    `json:"errors,omitempty"`
}

// ImportStore is the slice of the catalog the import job touches.
type ImportStore interface {
	MarkAllUnavailable() (int64, error)
	CategoryByName(name string) (*domain.Category, error)
	ProductByNameAndCategory(name string, categoryID int64) (*domain.Product, error)
	UpdatePriceAndAvailability(id int64, price decimal.Decimal, available bool) error
	CreateProduct(f repos.ProductFields, userID int64) (int64, error)
}

type repoImportStore struct {
	cats  *repos.CategoryRepo
	prods *repos.ProductRepo
}

// NewRepoImportStore backs the import job with the SQLite repos.
func NewRepoImportStore(cats *repos.CategoryRepo, prods *repos.ProductRepo) ImportStore {
	return repoImportStore{cats: cats, prods: prods}
}

func (s repoImportStore) MarkAllUnavailable() (int64, error) { return s.prods.MarkAllUnavailable() }

func (s repoImportStore) CategoryByName(name string) (*domain.Category, error) {
	return s.cats.ByName(name)
}

func (s repoImportStore) ProductByNameAndCategory(name string, categoryID int64) (*domain.Product, error) {
	return s.prods.ByNameAndCategory(name, categoryID)
}

func (s repoImportStore) UpdatePriceAndAvailability(id int64, price decimal.Decimal, available bool) error {
	return s.prods.UpdatePriceAndAvailability(id, price, available)
}

func (s repoImportStore) CreateProduct(f repos.ProductFields, userID int64) (int64, error) {
	return s.prods.Create(f, userID)
}

type ImportService struct {
	Store ImportStore
}

func NewImportService(store ImportStore) *ImportService {
	return &ImportService{Store: store}
}

type outcomeKind int

const (
	rowCreated outcomeKind = iota
	rowUpdated
	rowSkipped
)

type rowOutcome struct {
	kind   outcomeKind
	reason string
}

func skip(format string, args ...any) rowOutcome {
	return rowOutcome{kind: rowSkipped, reason: fmt.Sprintf(format, args...)}
}

// Run treats rows as the complete in-stock list: every product is marked
// unavailable first, then each row updates or creates its product as
// available. Bad rows are skipped and reported. Only a failure to reset
// availability aborts the batch.
func (s *ImportService) Run(rows []ImportRow) (ImportResult, error) {
	if _, err := s.Store.MarkAllUnavailable(); err != nil {
		return ImportResult{}, fmt.Errorf("reset availability: %w", err)
	}

	outcomes := make([]rowOutcome, len(rows))
	for i, row := range rows {
		outcomes[i] = s.applyRow(i+1, row)
	}
	return foldOutcomes(outcomes), nil
}

func (s *ImportService) applyRow(n int, row ImportRow) rowOutcome {
	if row.bad != "" {
		return skip("Row %d: invalid %s value", n, row.bad)
	}
	category := strings.TrimSpace(row.Category)
	name := strings.TrimSpace(row.Name)
	priceStr := strings.TrimSpace(row.Price)

	if category == "" || name == "" || priceStr == "" {
		return skip("Row %d: missing data (category=%q, name=%q, price=%q)", n, category, name, priceStr)
	}

	cat, err := s.Store.CategoryByName(category)
	if err != nil {
		return skip("Row %d: error processing %q: %v", n, name, err)
	}
	if cat == nil {
		return skip("Row %d: category not found: %s for product %s", n, category, name)
	}

	price, err := ParsePrice(priceStr)
	if err != nil {
		return skip("Row %d: invalid price for %s: %s", n, name, priceStr)
	}

	existing, err := s.Store.ProductByNameAndCategory(name, cat.ID)
	if err != nil {
		return skip("Row %d: error processing %q: %v", n, name, err)
	}
	if existing != nil {
		if err := s.Store.UpdatePriceAndAvailability(existing.ID, price, true); err != nil {
			return skip("Row %d: error processing %q: %v", n, name, err)
		}
		return rowOutcome{kind: rowUpdated}
	}

	_, err = s.Store.CreateProduct(repos.ProductFields{
		Name:         name,
		Price:        decimal.NewNullDecimal(price),
		CategoryID:   cat.ID,
		Availability: true,
	}, repos.DefaultUserID)
	if err != nil {
		return skip("Row %d: error processing %q: %v", n, name, err)
	}
	return rowOutcome{kind: rowCreated}
}

func foldOutcomes(outcomes []rowOutcome) ImportResult {
	res := ImportResult{Success: true, Stats: ImportStats{Total: len(outcomes)}}
	for _, o := range outcomes {
		switch o.kind {
		case rowCreated:
			res.Stats.Created++
		case rowUpdated:
			res.Stats.Updated++
		case rowSkipped:
			res.Stats.Skipped++
			res.Errors = append(res.Errors, o.reason)
		}
	}
	return res
}

var errBadPrice = errors.New("bad price")

// ParsePrice reads a price-list amount. Spaces used as thousands separators
// and a decimal comma are tolerated. Negative amounts are rejected.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		case ',':
			return '.'
		}
		return r
	}, s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errBadPrice
	}
	if d.IsNegative() {
		return decimal.Zero, errBadPrice
	}
	return d, nil
}

// DecodePayload unpacks the API body {"csvData": "<JSON array of rows>"}.
func DecodePayload(body []byte) ([]ImportRow, error) {
	var envelope struct {
		CSVData *string `json:"csvData"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed request body", ErrInvalid)
	}
	if envelope.CSVData == nil || strings.TrimSpace(*envelope.CSVData) == "" {
		return nil, fmt.Errorf("%w: no CSV data provided", ErrInvalid)
	}
	var rows []ImportRow
	if err := json.Unmarshal([]byte(*envelope.CSVData), &rows); err != nil {
		return nil, fmt.Errorf("%w: csvData is not a JSON array of rows", ErrInvalid)
	}
	return rows, nil
}

// ParseCSV reads a headerless category,name,price file. Blank lines are
// ignored. A semicolon delimiter is detected from the first line.
func ParseCSV(r io.Reader) ([]ImportRow, error) {
	br := bufio.NewReader(r)
	first, _ := br.Peek(4096)
	first = bytes.TrimPrefix(first, []byte("\ufeff"))
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		cr.Comma = ';'
	}

	var rows []ImportRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", ErrInvalid, err)
		}
		if len(rows) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		if blank(rec) {
			continue
		}
		var row ImportRow
		if len(rec) > 0 {
			row.Category = rec[0]
		}
		if len(rec) > 1 {
			row.Name = rec[1]
		}
		if len(rec) > 2 {
			row.Price = rec[2]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
