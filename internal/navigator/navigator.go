package navigator

import (
	"context"
	"sync"

	"skidqi-be/internal/category"
	"skidqi-be/internal/logger"
	"skidqi-be/internal/metrics"

	"go.uber.org/zap"
)

// Loader fetches one level of the category tree. category.Service satisfies it.
type Loader interface {
	LoadRoots(ctx context.Context) ([]*category.Category, error)
	LoadChildren(ctx context.Context, parentID string) ([]*category.Category, error)
}

type Option func(*Navigator)

// WithOnChosen registers a hook called once for every leaf selection.
func WithOnChosen(fn func(categoryID string)) Option {
	return func(n *Navigator) { n.onChosen = fn }
}

// WithMetrics reports fetches, failures, stale drops and choices to r.
func WithMetrics(r *metrics.Registry) Option {
	return func(n *Navigator) {
		n.fetches = r.Counter("nav.fetches")
		n.fetchErrors = r.Counter("nav.fetch_errors")
		n.staleDropped = r.Counter("nav.stale_dropped")
		n.chosen = r.Counter("nav.chosen")
	}
}

// Navigator walks the category tree one level at a time and keeps the
// breadcrumb path of the nodes drilled into.
//
// Every transition takes a new generation and cancels the fetch of the
// previous one. Only the transition holding the current generation may
// apply its result, so a slow response can never overwrite a newer
// selection. Path and items are replaced together on success and left
// alone on failure.
type Navigator struct {
	loader   Loader
	onChosen func(string)

	fetches      *metrics.Counter
	fetchErrors  *metrics.Counter
	staleDropped *metrics.Counter
	chosen       *metrics.Counter

	mu          sync.Mutex
	initialized bool
	path        []*category.Category
	items       []*category.Category
	loading     bool
	err         error
	failed      *transition
	gen         uint64
	cancel      context.CancelFunc
}

// New returns a navigator that has not fetched anything yet; call Init.
func New(loader Loader, opts ...Option) *Navigator {
	n := &Navigator{
		loader:       loader,
		fetches:      &metrics.Counter{},
		fetchErrors:  &metrics.Counter{},
		staleDropped: &metrics.Counter{},
		chosen:       &metrics.Counter{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Init loads the root categories. It may be called again to start over.
func (n *Navigator) Init(ctx context.Context) (View, error) {
	n.mu.Lock()
	gen, fetchCtx := n.begin(ctx)
	n.mu.Unlock()

	return n.loadLevel(ctx, fetchCtx, gen, nil, transition{kind: transitionInit})
}

// Select drills into node, or reports it as chosen when it has no children.
func (n *Navigator) Select(ctx context.Context, node *category.Category) (Outcome, error) {
	if node == nil {
		return Outcome{View: n.View()}, ErrUnknownNode
	}
	return n.SelectByID(ctx, node.ID)
}

// SelectByID is Select for a node identified by id among the displayed items.
func (n *Navigator) SelectByID(ctx context.Context, id string) (Outcome, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "navigator"),
		zap.String("method", "Select"),
		zap.String("category_id", id),
	)

	n.mu.Lock()
	if !n.initialized {
		n.mu.Unlock()
		return Outcome{View: n.View()}, ErrNotInitialized
	}
	node := findByID(n.items, id)
	if node == nil {
		n.mu.Unlock()
		log.Warn("select of a category that is not displayed")
		return Outcome{View: n.View()}, ErrUnknownNode
	}
	gen, fetchCtx := n.begin(ctx)
	base := n.path
	n.mu.Unlock()

	n.fetches.Inc()
	children, err := n.loader.LoadChildren(fetchCtx, node.ID)

	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		n.staleDropped.Inc()
		log.Debug("dropping stale select result")
		return Outcome{View: n.View()}, ErrStale
	}
	n.end()

	if err != nil {
		n.fail(err, transition{kind: transitionSelect, nodeID: node.ID})
		view := n.viewLocked()
		n.mu.Unlock()
		log.Error("failed to load children", zap.Error(err))
		return Outcome{View: view}, err
	}

	if len(children) == 0 {
		view := n.viewLocked()
		n.mu.Unlock()

		n.chosen.Inc()
		log.Info("category chosen")
		if n.onChosen != nil {
			n.onChosen(node.ID)
		}
		return Outcome{Chosen: true, CategoryID: node.ID, View: view}, nil
	}

	path := make([]*category.Category, len(base), len(base)+1)
	copy(path, base)
	n.path = append(path, node)
	n.items = children
	view := n.viewLocked()
	n.mu.Unlock()

	log.Debug("drilled into category", zap.Int("step", view.Step), zap.Int("items", len(children)))
	return Outcome{View: view}, nil
}

// GoBack truncates the breadcrumb path to toIndex entries and reloads the
// children of the new tail, or the roots when toIndex is 0.
func (n *Navigator) GoBack(ctx context.Context, toIndex int) (View, error) {
	n.mu.Lock()
	if !n.initialized {
		n.mu.Unlock()
		return n.View(), ErrNotInitialized
	}
	if toIndex < 0 || toIndex > len(n.path) {
		n.mu.Unlock()
		return n.View(), ErrInvalidIndex
	}
	gen, fetchCtx := n.begin(ctx)
	path := make([]*category.Category, toIndex)
	copy(path, n.path[:toIndex])
	n.mu.Unlock()

	return n.loadLevel(ctx, fetchCtx, gen, path, transition{kind: transitionBack, toIndex: toIndex})
}

// Reset returns to the root list.
func (n *Navigator) Reset(ctx context.Context) (View, error) {
	return n.Init(ctx)
}

// Retry replays the last failed transition.
func (n *Navigator) Retry(ctx context.Context) (Outcome, error) {
	n.mu.Lock()
	failed := n.failed
	n.mu.Unlock()

	if failed == nil {
		return Outcome{View: n.View()}, ErrNothingToRetry
	}

	switch failed.kind {
	case transitionSelect:
		return n.SelectByID(ctx, failed.nodeID)
	case transitionBack:
		v, err := n.GoBack(ctx, failed.toIndex)
		return Outcome{View: v}, err
	default:
		v, err := n.Init(ctx)
		return Outcome{View: v}, err
	}
}

// Close cancels any in-flight fetch and invalidates its result.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.gen++
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.loading = false
}

func (n *Navigator) View() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.viewLocked()
}

// loadLevel fetches the level under path (roots for an empty path) and
// installs path and items together if gen is still current.
func (n *Navigator) loadLevel(ctx, fetchCtx context.Context, gen uint64, path []*category.Category, t transition) (View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "navigator"),
		zap.Int("to_step", len(path)),
	)

	n.fetches.Inc()
	var (
		items []*category.Category
		err   error
	)
	if len(path) == 0 {
		items, err = n.loader.LoadRoots(fetchCtx)
	} else {
		items, err = n.loader.LoadChildren(fetchCtx, path[len(path)-1].ID)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen {
		n.staleDropped.Inc()
		log.Debug("dropping stale level result")
		return n.viewLocked(), ErrStale
	}
	n.end()

	if err != nil {
		n.fail(err, t)
		log.Error("failed to load category level", zap.Error(err))
		return n.viewLocked(), err
	}

	if items == nil {
		items = []*category.Category{}
	}
	n.initialized = true
	n.path = path
	n.items = items
	return n.viewLocked(), nil
}

// begin starts a transition: it bumps the generation and cancels the
// previous fetch. Callers hold n.mu.
func (n *Navigator) begin(ctx context.Context) (uint64, context.Context) {
	n.gen++
	if n.cancel != nil {
		n.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.loading = true
	return n.gen, fetchCtx
}

// end releases the current transition's fetch context. Callers hold n.mu.
func (n *Navigator) end() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.loading = false
	n.err = nil
	n.failed = nil
}

func (n *Navigator) fail(err error, t transition) {
	n.fetchErrors.Inc()
	n.err = err
	n.failed = &t
}

func (n *Navigator) viewLocked() View {
	v := View{
		State:    StateRoot,
		Path:     append([]*category.Category{}, n.path...),
		Items:    append([]*category.Category{}, n.items...),
		Step:     len(n.path),
		Loading:  n.loading,
		CanRetry: n.failed != nil,
	}
	if len(n.path) > 0 {
		v.State = StateAtNode
	}
	if n.err != nil {
		v.Err = n.err.Error()
	}
	return v
}

func findByID(items []*category.Category, id string) *category.Category {
	for _, c := range items {
		if c.ID == id {
			return c
		}
	}
	return nil
}
