package category

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDKind is the storage type of a category table's primary key.
type IDKind int

const (
	IDSerial IDKind = iota
	IDUUID
)

// Schema describes one physical category table. Two incompatible tables
// exist side by side and neither is treated as canonical; ids are exchanged
// as opaque strings either way.
type Schema struct {
	Table   string
	IDKind  IDKind
	OrderBy string

	// HasActiveFlag and HasSortOrder are false for tables that lack the
	// is_active / sort_order columns; those rows read as active with order 0.
	HasActiveFlag bool
	HasSortOrder  bool
	HasIcon       bool
}

var (
	FlatSchema = Schema{
		Table:         "categories",
		IDKind:        IDSerial,
		OrderBy:       "c.sort_order ASC, c.id ASC",
		HasActiveFlag: true,
		HasSortOrder:  true,
	}

	UUIDSchema = Schema{
		Table:   "listing_categories",
		IDKind:  IDUUID,
		OrderBy: "c.name_ru ASC, c.id ASC",
		HasIcon: true,
	}
)

// SchemaFor returns the schema registered under a table name.
func SchemaFor(table string) (Schema, error) {
	switch table {
	case FlatSchema.Table:
		return FlatSchema, nil
	case UUIDSchema.Table:
		return UUIDSchema, nil
	default:
		return Schema{}, ErrUnknownSchema
	}
}

// ValidID reports whether id can address a row of this table.
func (s Schema) ValidID(id string) bool {
	switch s.IDKind {
	case IDSerial:
		n, err := strconv.ParseInt(id, 10, 64)
		return err == nil && n > 0
	case IDUUID:
		_, err := uuid.Parse(id)
		return err == nil
	default:
		return false
	}
}

func (s Schema) selectColumns() string {
	cols := []string{
		"c.id::text AS id",
		"c.name_ru",
		"c.name_kz",
		"c.slug",
		"c.parent_id::text AS parent_id",
		"c.level",
	}
	if s.HasSortOrder {
		cols = append(cols, "c.sort_order")
	} else {
		cols = append(cols, "0 AS sort_order")
	}
	if s.HasActiveFlag {
		cols = append(cols, "c.is_active")
	} else {
		cols = append(cols, "TRUE AS is_active")
	}
	if s.HasIcon {
		cols = append(cols, "c.icon")
	} else {
		cols = append(cols, "NULL AS icon")
	}
	return strings.Join(cols, ", ")
}
