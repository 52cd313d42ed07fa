package profile

import (
	"context"
	"database/sql"
	"errors"

	"skidqi-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, userID string, input UpdateProfileInput) (*Profile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetByUserID"),
		zap.String("user_id", userID),
	)

	const q = `
		SELECT user_id, full_name, phone, avatar_url, city_id, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID, &p.FullName, &p.Phone, &p.AvatarURL, &p.CityID, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("profile not found")
			return nil, ErrProfileNotFound
		}
		log.Error("failed to scan profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

// Upsert creates the profile on first write; later writes keep the
// existing value of every nil field.
func (r *repository) Upsert(ctx context.Context, userID string, input UpdateProfileInput) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Upsert"),
		zap.String("user_id", userID),
	)

	const q = `
		INSERT INTO profiles (user_id, full_name, phone, avatar_url, city_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
			phone = COALESCE(EXCLUDED.phone, profiles.phone),
			avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url),
			city_id = COALESCE(EXCLUDED.city_id, profiles.city_id),
			updated_at = NOW()
		RETURNING user_id, full_name, phone, avatar_url, city_id, updated_at
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, q,
		userID, input.FullName, input.Phone, input.AvatarURL, input.CityID,
	).Scan(&p.UserID, &p.FullName, &p.Phone, &p.AvatarURL, &p.CityID, &p.UpdatedAt)
	if err != nil {
		log.Error("failed to upsert profile", zap.Error(err))
		return nil, err
	}

	log.Info("profile saved")
	return &p, nil
}
