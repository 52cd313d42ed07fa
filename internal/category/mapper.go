package category

import (
	"context"

	"skidqi-be/internal/logger"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// mapRow converts a scanned row into a Category. Malformed values are
// logged and replaced with defaults rather than rejected.
func mapRow(ctx context.Context, row *categoryRow) *Category {
	log := logger.FromCtx(ctx).With(zap.String("category_id", row.ID))

	c := &Category{
		ID:       row.ID,
		ParentID: row.ParentID,
		IsActive: true,
	}

	if row.NameRU != nil {
		c.Name.RU = *row.NameRU
	}
	if row.NameKZ != nil {
		c.Name.KZ = *row.NameKZ
	}
	if c.Name.RU == "" {
		log.Warn("category has no russian name")
		c.Name.RU = c.Name.KZ
	}

	if row.Slug != nil && *row.Slug != "" {
		c.Slug = *row.Slug
	} else {
		c.Slug = slug.Make(c.Name.RU)
		if c.Slug == "" {
			c.Slug = row.ID
		}
		log.Warn("category has no slug, derived one", zap.String("slug", c.Slug))
	}

	if c.ParentID != nil && *c.ParentID == "" {
		c.ParentID = nil
	}

	switch {
	case row.Level != nil && *row.Level >= 0:
		c.Level = *row.Level
	case row.Level != nil:
		log.Warn("negative category level", zap.Int("level", *row.Level))
	}
	if c.ParentID == nil && c.Level != 0 {
		log.Warn("root category with non-zero level", zap.Int("level", c.Level))
		c.Level = 0
	}

	if row.SortOrder != nil {
		c.SortOrder = *row.SortOrder
	}
	if row.IsActive != nil {
		c.IsActive = *row.IsActive
	}

	if row.Icon != nil && *row.Icon != "" {
		icon, ok := ParseIcon(*row.Icon)
		if !ok {
			log.Warn("unknown category icon", zap.String("icon", *row.Icon))
		}
		c.Icon = icon
	}

	return c
}
