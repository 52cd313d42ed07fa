package graph

import (
	"context"
	"errors"
	"fmt"

	"skidqi-be/internal/category"
	"skidqi-be/internal/logger"

	"go.uber.org/zap"
)

type queryResolver struct{ *Resolver }

func (r *queryResolver) typeName() string { return "Query" }

func (r *queryResolver) field(ctx context.Context, name string, args map[string]any) (any, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "graph"),
		zap.String("field", "Query."+name),
	)

	switch name {
	case "categories":
		roots, err := r.Categories.LoadRoots(ctx)
		if err != nil {
			return nil, err
		}
		return r.categoryList(roots), nil

	case "category":
		c, err := r.Categories.GetByID(ctx, stringArg(args, "id"))
		return r.optionalCategory(c, err)

	case "categoryBySlug":
		c, err := r.Categories.GetBySlug(ctx, stringArg(args, "slug"))
		return r.optionalCategory(c, err)

	case "categoryPath":
		path, err := r.Categories.GetPath(ctx, stringArg(args, "id"))
		if err != nil {
			return nil, err
		}
		return r.categoryList(path), nil

	case "nav":
		n, err := r.Navigators.Get(stringArg(args, "sessionId"))
		if err != nil {
			log.Debug("nav session not found")
			return nil, err
		}
		return r.view(n.View()), nil
	}
	return nil, fmt.Errorf("unknown field Query.%s", name)
}

// optionalCategory turns a missing category into null.
func (r *queryResolver) optionalCategory(c *category.Category, err error) (any, error) {
	if errors.Is(err, category.ErrCategoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &categoryResolver{Resolver: r.Resolver, c: c}, nil
}

type categoryResolver struct {
	*Resolver
	c *category.Category
}

func (r *categoryResolver) typeName() string { return "Category" }

func (r *categoryResolver) field(ctx context.Context, name string, _ map[string]any) (any, error) {
	c := r.c
	switch name {
	case "id":
		return c.ID, nil
	case "name":
		return &localizedNameResolver{c.Name}, nil
	case "slug":
		return c.Slug, nil
	case "parentId":
		if c.ParentID == nil {
			return nil, nil
		}
		return *c.ParentID, nil
	case "level":
		return c.Level, nil
	case "sortOrder":
		return c.SortOrder, nil
	case "isActive":
		return c.IsActive, nil
	case "icon":
		return c.Icon.String(), nil
	case "isLeaf":
		return r.Categories.IsLeaf(ctx, c.ID)
	case "children":
		children, err := r.Categories.LoadChildren(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		return r.categoryList(children), nil
	}
	return nil, fmt.Errorf("unknown field Category.%s", name)
}

type localizedNameResolver struct {
	name category.LocalizedName
}

func (r *localizedNameResolver) typeName() string { return "LocalizedName" }

func (r *localizedNameResolver) field(_ context.Context, name string, _ map[string]any) (any, error) {
	switch name {
	case "ru":
		return r.name.RU, nil
	case "kz":
		return r.name.KZ, nil
	}
	return nil, fmt.Errorf("unknown field LocalizedName.%s", name)
}

func (r *Resolver) categoryList(categories []*category.Category) []any {
	out := make([]any, 0, len(categories))
	for _, c := range categories {
		out = append(out, &categoryResolver{Resolver: r, c: c})
	}
	return out
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}
