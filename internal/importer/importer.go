package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"skidqi-be/internal/category"
	"skidqi-be/internal/listing"
	"skidqi-be/internal/logger"
	"skidqi-be/internal/metrics"
	"skidqi-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Columns of the import file, in template order.
var Columns = []string{"title", "description", "price", "category", "location", "contact"}

// CategorySource lists every category a row may be matched against.
type CategorySource interface {
	All(ctx context.Context) ([]*category.Category, error)
}

// ListingWriter persists imported listings. listing.Repository satisfies it.
type ListingWriter interface {
	Create(ctx context.Context, l *listing.Listing) error
}

type Stats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Errors  int `json:"errors"`
}

type Result struct {
	Stats  Stats    `json:"stats"`
	Errors []string `json:"errors"`
}

type Importer struct {
	categories CategorySource
	listings   ListingWriter

	rows     *metrics.Counter
	imported *metrics.Counter
	failed   *metrics.Counter
}

func New(categories CategorySource, listings ListingWriter, reg *metrics.Registry) *Importer {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Importer{
		categories: categories,
		listings:   listings,
		rows:       reg.Counter("import.rows"),
		imported:   reg.Counter("import.success"),
		failed:     reg.Counter("import.errors"),
	}
}

// Import reads a CSV file with a header row and creates one active listing
// per data row, owned by the calling user. Row failures do not stop the
// import; they are reported as "row N: reason".
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Import"),
	)
	log.Info("Import started")
	timer := metrics.StartTimer()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := headerIndex(header)
	if _, ok := index["title"]; !ok {
		return nil, ErrMissingHeader
	}
	if _, ok := index["category"]; !ok {
		return nil, ErrMissingHeader
	}

	categories, err := im.categories.All(ctx)
	if err != nil {
		log.Error("failed to load categories", zap.Error(err))
		return nil, err
	}
	sorted := make([]*category.Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name.RU < sorted[j].Name.RU })
	leaves := leafSet(sorted)

	res := &Result{Errors: []string{}}
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if err == nil && blank(record) {
			continue
		}

		row++
		res.Stats.Total++

		if err == nil {
			err = im.importRow(ctx, userID, row, fields(index, record), sorted, leaves)
		}
		if err != nil {
			res.Stats.Errors++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		res.Stats.Success++
	}

	im.rows.Add(uint64(res.Stats.Total))
	im.imported.Add(uint64(res.Stats.Success))
	im.failed.Add(uint64(res.Stats.Errors))

	log.Info("Import success",
		zap.Int("total", res.Stats.Total),
		zap.Int("success", res.Stats.Success),
		zap.Int("errors", res.Stats.Errors),
		zap.Duration("duration", timer.Duration()),
	)
	return res, nil
}

func (im *Importer) importRow(ctx context.Context, userID string, row int, rec map[string]string, categories []*category.Category, leaves map[string]bool) error {
	c, err := matchCategory(categories, leaves, rec["category"])
	if err != nil {
		return err
	}

	price, err := utils.DigitsOnly(rec["price"])
	if err != nil {
		return fmt.Errorf("invalid price %q", rec["price"])
	}

	title := rec["title"]
	if title == "" {
		title = fmt.Sprintf("Listing %d", row)
	}

	l := &listing.Listing{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Slug:        listing.TitleSlug(title),
		Description: rec["description"],
		IsFree:      price == 0,
		CategoryID:  c.ID,
		Address:     rec["location"],
		Phone:       rec["contact"],
		Images:      []string{},
		Status:      listing.StatusActive,
	}
	if price > 0 {
		l.RegularPrice = &price
	}

	return im.listings.Create(ctx, l)
}

// matchCategory returns the first leaf category whose Russian or Kazakh
// name contains name, ignoring case. Listings are only filed under leaves,
// so a name that matches parent categories alone is an error.
func matchCategory(categories []*category.Category, leaves map[string]bool, name string) (*category.Category, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, errors.New("category is required")
	}

	var parent *category.Category
	for _, c := range categories {
		if !strings.Contains(strings.ToLower(c.Name.RU), needle) &&
			!strings.Contains(strings.ToLower(c.Name.KZ), needle) {
			continue
		}
		if leaves[c.ID] {
			return c, nil
		}
		if parent == nil {
			parent = c
		}
	}
	if parent != nil {
		return nil, fmt.Errorf("category %q is not a leaf", parent.Name.RU)
	}
	return nil, fmt.Errorf("category %q not found", name)
}

// leafSet returns the ids of categories that no other category names as parent.
func leafSet(categories []*category.Category) map[string]bool {
	parents := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.ParentID != nil {
			parents[*c.ParentID] = true
		}
	}
	leaves := make(map[string]bool, len(categories))
	for _, c := range categories {
		if !parents[c.ID] {
			leaves[c.ID] = true
		}
	}
	return leaves
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return index
}

func fields(index map[string]int, record []string) map[string]string {
	rec := make(map[string]string, len(Columns))
	for _, col := range Columns {
		if i, ok := index[col]; ok && i < len(record) {
			rec[col] = strings.TrimSpace(record[i])
		}
	}
	return rec
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Template writes a header and one example row.
func Template(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	if err := cw.Write([]string{
		"iPhone 13", "Отличное состояние, полный комплект", "250000",
		"Телефоны", "Алматы", "+7 700 123 45 67",
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
