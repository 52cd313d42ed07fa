package notification

import (
	"context"
	"database/sql"

	"skidqi-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("user_id", n.UserID),
	)

	const q = `
		INSERT INTO notifications (id, user_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING is_read, created_at
	`

	if err := r.db.QueryRowContext(ctx, q, n.ID, n.UserID, n.Title, n.Content).
		Scan(&n.IsRead, &n.CreatedAt); err != nil {
		log.Error("failed to insert notification", zap.Error(err))
		return err
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Notification, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByUser"),
		zap.String("user_id", userID),
	)

	const q = `
		SELECT id, user_id, title, content, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	res := []*Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.IsRead, &n.CreatedAt); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, &n)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows error", zap.Error(err))
		return nil, err
	}
	return res, nil
}

// MarkRead flags a notification as read. Notifications of other users are
// reported as not found.
func (r *repository) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "MarkRead"),
		zap.String("notification_id", id.String()),
	)

	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error("update failed", zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
