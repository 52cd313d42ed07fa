package listing

import (
	"context"
	"database/sql"
	"errors"

	"skidqi-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	GetBySlug(ctx context.Context, categoryID, slug string) (*Listing, error)
	ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]*Listing, error)
	ListByUser(ctx context.Context, userID string) ([]*Listing, error)
	ListSimilar(ctx context.Context, categoryID string, excludeID uuid.UUID, limit int) ([]*Listing, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

const listingColumns = `
	id, user_id, title, slug, description,
	regular_price, discount_price, is_free,
	category_id, address, phone,
	latitude, longitude, city_id, region_id,
	images, status, views, created_at`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row scanner) (*Listing, error) {
	var l Listing
	err := row.Scan(
		&l.ID, &l.UserID, &l.Title, &l.Slug, &l.Description,
		&l.RegularPrice, &l.DiscountPrice, &l.IsFree,
		&l.CategoryID, &l.Address, &l.Phone,
		&l.Latitude, &l.Longitude, &l.CityID, &l.RegionID,
		pq.Array(&l.Images), &l.Status, &l.Views, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Listing"),
		zap.String("method", "Create"),
		zap.String("listing_id", l.ID.String()),
	)

	const q = `
		INSERT INTO listings (
			id, user_id, title, slug, description,
			regular_price, discount_price, is_free,
			category_id, address, phone,
			latitude, longitude, city_id, region_id,
			images, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING views, created_at
	`

	err := r.db.QueryRowContext(ctx, q,
		l.ID, l.UserID, l.Title, l.Slug, l.Description,
		l.RegularPrice, l.DiscountPrice, l.IsFree,
		l.CategoryID, l.Address, l.Phone,
		l.Latitude, l.Longitude, l.CityID, l.RegionID,
		pq.Array(l.Images), l.Status,
	).Scan(&l.Views, &l.CreatedAt)
	if err != nil {
		log.Error("insert failed", zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Listing"),
		zap.String("method", "GetByID"),
		zap.String("listing_id", id.String()),
	)

	q := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 LIMIT 1`

	l, err := scanListing(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}

	return l, nil
}

// GetBySlug returns the newest active listing with the given title slug in a category.
func (r *repository) GetBySlug(ctx context.Context, categoryID, slug string) (*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Listing"),
		zap.String("method", "GetBySlug"),
		zap.String("category_id", categoryID),
		zap.String("slug", slug),
	)

	q := `SELECT ` + listingColumns + `
		FROM listings
		WHERE category_id = $1 AND slug = $2 AND status = $3
		ORDER BY created_at DESC
		LIMIT 1`

	l, err := scanListing(r.db.QueryRowContext(ctx, q, categoryID, slug, StatusActive))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}

	return l, nil
}

func (r *repository) ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Listing"),
		zap.String("method", "ListByCategory"),
		zap.String("category_id", categoryID),
	)

	q := `SELECT ` + listingColumns + `
		FROM listings
		WHERE category_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, q, categoryID, StatusActive, limit, offset)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collect(rows, log)
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Listing"),
		zap.String("method", "ListByUser"),
		zap.String("user_id", userID),
	)

	q := `SELECT ` + listingColumns + `
		FROM listings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collect(rows, log)
}

func (r *repository) ListSimilar(ctx context.Context, categoryID string, excludeID uuid.UUID, limit int) ([]*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Listing"),
		zap.String("method", "ListSimilar"),
		zap.String("category_id", categoryID),
	)

	q := `SELECT ` + listingColumns + `
		FROM listings
		WHERE category_id = $1 AND status = $2 AND id <> $3
		ORDER BY created_at DESC
		LIMIT $4`

	rows, err := r.db.QueryContext(ctx, q, categoryID, StatusActive, excludeID, limit)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collect(rows, log)
}

func collect(rows *sql.Rows, log *zap.Logger) ([]*Listing, error) {
	res := []*Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, l)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows error", zap.Error(err))
		return nil, err
	}
	return res, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Listing"),
		zap.String("method", "UpdateStatus"),
		zap.String("listing_id", id.String()),
	)

	res, err := r.db.ExecContext(ctx, `UPDATE listings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		log.Error("update failed", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r *repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE listings SET views = views + 1 WHERE id = $1`, id)
	return err
}
