package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"skidqi-be/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Repository is the tabular query interface the navigator reads through:
// equality / null filters, ordering, limit and count over one category table.
type Repository interface {
	Roots(ctx context.Context) ([]*Category, error)
	Children(ctx context.Context, parentID string) ([]*Category, error)
	CountChildren(ctx context.Context, parentID string) (int64, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	All(ctx context.Context) ([]*Category, error)
}

type repository struct {
	db     *sqlx.DB
	schema Schema
}

func NewRepository(db *sqlx.DB, schema Schema) Repository {
	return &repository{db: db, schema: schema}
}

// query assembles a SELECT over the schema's table. Conditions use $N
// placeholders numbered in the order of args.
type query struct {
	schema Schema
	where  []string
	args   []interface{}
	limit  int
}

func (r *repository) newQuery() *query {
	return &query{schema: r.schema}
}

func (q *query) eq(column string, value interface{}) *query {
	q.args = append(q.args, value)
	q.where = append(q.where, fmt.Sprintf("c.%s = $%d", column, len(q.args)))
	return q
}

func (q *query) isNull(column string) *query {
	q.where = append(q.where, fmt.Sprintf("c.%s IS NULL", column))
	return q
}

func (q *query) activeOnly() *query {
	if q.schema.HasActiveFlag {
		q.where = append(q.where, "c.is_active = TRUE")
	}
	return q
}

func (q *query) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

func (q *query) selectSQL() string {
	s := "SELECT " + q.schema.selectColumns() + " FROM " + q.schema.Table + " c" + q.whereClause()
	s += " ORDER BY " + q.schema.OrderBy
	if q.limit > 0 {
		s += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	return s
}

func (q *query) countSQL() string {
	return "SELECT COUNT(*) FROM " + q.schema.Table + " c" + q.whereClause()
}

func (r *repository) list(ctx context.Context, op string, q *query) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("table", r.schema.Table),
		zap.String("op", op),
	)

	stmt := q.selectSQL()
	log.Debug("Executing category query",
		zap.String("query", stmt),
		zap.Any("args", q.args),
	)

	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, stmt, q.args...); err != nil {
		log.Error("DB query failed", zap.Error(err))
		return nil, &FetchError{Op: op, Err: err}
	}

	categories := make([]*Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, mapRow(ctx, &rows[i]))
	}
	return categories, nil
}

func (r *repository) one(ctx context.Context, op string, q *query) (*Category, error) {
	q.limit = 1
	stmt := q.selectSQL()

	var row categoryRow
	err := r.db.GetContext(ctx, &row, stmt, q.args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed",
			zap.String("table", r.schema.Table),
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, &FetchError{Op: op, Err: err}
	}
	return mapRow(ctx, &row), nil
}

func (r *repository) Roots(ctx context.Context) ([]*Category, error) {
	return r.list(ctx, "roots", r.newQuery().isNull("parent_id").activeOnly())
}

func (r *repository) Children(ctx context.Context, parentID string) ([]*Category, error) {
	if !r.schema.ValidID(parentID) {
		return nil, ErrInvalidCategoryID
	}
	return r.list(ctx, "children", r.newQuery().eq("parent_id", parentID).activeOnly())
}

func (r *repository) CountChildren(ctx context.Context, parentID string) (int64, error) {
	if !r.schema.ValidID(parentID) {
		return 0, ErrInvalidCategoryID
	}

	q := r.newQuery().eq("parent_id", parentID).activeOnly()

	var n int64
	if err := r.db.GetContext(ctx, &n, q.countSQL(), q.args...); err != nil {
		logger.FromCtx(ctx).Error("DB count failed",
			zap.String("table", r.schema.Table),
			zap.String("parent_id", parentID),
			zap.Error(err),
		)
		return 0, &FetchError{Op: "count children", Err: err}
	}
	return n, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Category, error) {
	if !r.schema.ValidID(id) {
		return nil, ErrInvalidCategoryID
	}
	return r.one(ctx, "get by id", r.newQuery().eq("id", id))
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	if slug == "" {
		return nil, ErrCategoryNotFound
	}
	return r.one(ctx, "get by slug", r.newQuery().eq("slug", slug))
}

func (r *repository) All(ctx context.Context) ([]*Category, error) {
	return r.list(ctx, "all", r.newQuery().activeOnly())
}
