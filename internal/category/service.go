package category

import (
	"context"
	"errors"

	"skidqi-be/internal/logger"

	"go.uber.org/zap"
)

// maxDepth bounds parent walks so a cyclic parent_id chain cannot loop forever.
const maxDepth = 32

// Service exposes the read side of the category tree.
type Service interface {
	LoadRoots(ctx context.Context) ([]*Category, error)
	LoadChildren(ctx context.Context, parentID string) ([]*Category, error)
	IsLeaf(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	GetPath(ctx context.Context, id string) ([]*Category, error)
	All(ctx context.Context) ([]*Category, error)
	Tree(ctx context.Context) ([]*Node, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LoadRoots returns the active top-level categories in display order.
func (s *service) LoadRoots(ctx context.Context) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "LoadRoots"),
	)
	log.Debug("LoadRoots started")

	categories, err := s.repo.Roots(ctx)
	if err != nil {
		log.Error("failed to load root categories", zap.Error(err))
		return nil, err
	}

	roots := make([]*Category, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if !c.IsRoot() {
			log.Warn("dropping non-root row from root load",
				zap.String("category_id", c.ID),
				zap.String("parent_id", *c.ParentID),
			)
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		roots = append(roots, c)
	}

	log.Debug("LoadRoots success", zap.Int("count", len(roots)))
	return roots, nil
}

// LoadChildren returns the active children of parentID. An empty result
// means parentID is a leaf.
func (s *service) LoadChildren(ctx context.Context, parentID string) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "LoadChildren"),
		zap.String("parent_id", parentID),
	)
	log.Debug("LoadChildren started")

	categories, err := s.repo.Children(ctx, parentID)
	if err != nil {
		log.Error("failed to load child categories", zap.Error(err))
		return nil, err
	}

	children := make([]*Category, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if c.ParentID == nil || *c.ParentID != parentID {
			log.Warn("dropping row with mismatched parent", zap.String("category_id", c.ID))
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		children = append(children, c)
	}

	log.Debug("LoadChildren success", zap.Int("count", len(children)))
	return children, nil
}

func (s *service) IsLeaf(ctx context.Context, id string) (bool, error) {
	n, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to count child categories",
			zap.String("layer", "service"),
			zap.String("category_id", id),
			zap.Error(err),
		)
		return false, err
	}
	return n == 0, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		logger.FromCtx(ctx).Error("failed to get category by slug",
			zap.String("layer", "service"),
			zap.String("slug", slug),
			zap.Error(err),
		)
	}
	return c, err
}

// GetPath returns the breadcrumb for id, ordered root first. A chain that
// breaks on a missing parent or loops back on itself is logged and the
// reachable part is returned.
func (s *service) GetPath(ctx context.Context, id string) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetPath"),
		zap.String("category_id", id),
	)

	var reversed []*Category
	visited := make(map[string]struct{})
	current := id

	for depth := 0; ; depth++ {
		if _, loop := visited[current]; loop || depth >= maxDepth {
			log.Warn("category parent chain loops or is too deep", zap.String("at", current))
			break
		}
		visited[current] = struct{}{}

		c, err := s.repo.GetByID(ctx, current)
		if errors.Is(err, ErrCategoryNotFound) && depth > 0 {
			log.Warn("category references missing parent", zap.String("parent_id", current))
			break
		}
		if err != nil {
			return nil, err
		}

		reversed = append(reversed, c)
		if c.ParentID == nil {
			break
		}
		current = *c.ParentID
	}

	path := make([]*Category, len(reversed))
	for i, c := range reversed {
		path[len(reversed)-1-i] = c
	}
	for i, c := range path {
		if c.Level != i {
			log.Warn("category level disagrees with depth",
				zap.String("at", c.ID),
				zap.Int("level", c.Level),
				zap.Int("depth", i),
			)
			c.Level = i
		}
	}
	return path, nil
}

func (s *service) All(ctx context.Context) ([]*Category, error) {
	return s.repo.All(ctx)
}

// Tree assembles every active category into a forest. Rows whose parent is
// missing or inactive are left out.
func (s *service) Tree(ctx context.Context) ([]*Node, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Tree"),
	)

	categories, err := s.repo.All(ctx)
	if err != nil {
		log.Error("failed to load categories", zap.Error(err))
		return nil, err
	}

	nodes := make(map[string]*Node, len(categories))
	for _, c := range categories {
		if _, dup := nodes[c.ID]; dup {
			continue
		}
		nodes[c.ID] = &Node{Category: c, Children: []*Node{}}
	}

	roots := []*Node{}
	attached := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, done := attached[c.ID]; done {
			continue
		}
		attached[c.ID] = struct{}{}
		n := nodes[c.ID]
		if c.IsRoot() {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			log.Warn("orphan category dropped from tree",
				zap.String("category_id", c.ID),
				zap.String("parent_id", *c.ParentID),
			)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	setLevels(ctx, roots, 0)
	return roots, nil
}

func setLevels(ctx context.Context, nodes []*Node, level int) {
	for _, n := range nodes {
		if n.Level != level {
			logger.FromCtx(ctx).Warn("category level disagrees with depth",
				zap.String("category_id", n.ID),
				zap.Int("level", n.Level),
				zap.Int("depth", level),
			)
			n.Level = level
		}
		setLevels(ctx, n.Children, level+1)
	}
}
