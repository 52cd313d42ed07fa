package category

// LocalizedName holds the per-locale display names of a category.
type LocalizedName struct {
	RU string `json:"ru"`
	KZ string `json:"kz"`
}

// For returns the name in the given locale ("ru" or "kz"), falling back to Russian.
func (n LocalizedName) For(locale string) string {
	if locale == "kz" && n.KZ != "" {
		return n.KZ
	}
	return n.RU
}

// Category is a node of the category tree. IDs are opaque strings: the serial
// ids of the categories table and the UUIDs of listing_categories are both
// carried as text.
type Category struct {
	ID        string        `json:"id"`
	Name      LocalizedName `json:"name"`
	Slug      string        `json:"slug"`
	ParentID  *string       `json:"parent_id"`
	Level     int           `json:"level"`
	SortOrder int           `json:"sort_order"`
	IsActive  bool          `json:"is_active"`
	Icon      Icon          `json:"icon"`
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Node is a category with its active children attached, used for menus.
type Node struct {
	*Category
	Children []*Node `json:"children"`
}

// categoryRow is the scan target shared by both schemas.
type categoryRow struct {
	ID        string  `db:"id"`
	NameRU    *string `db:"name_ru"`
	NameKZ    *string `db:"name_kz"`
	Slug      *string `db:"slug"`
	ParentID  *string `db:"parent_id"`
	Level     *int    `db:"level"`
	SortOrder *int    `db:"sort_order"`
	IsActive  *bool   `db:"is_active"`
	Icon      *string `db:"icon"`
}
