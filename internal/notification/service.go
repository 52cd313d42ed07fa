package notification

import (
	"context"
	"strings"

	"skidqi-be/internal/logger"
	"skidqi-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Notify(ctx context.Context, userID, title, content string) error
	Inbox(ctx context.Context) (*Inbox, error)
	MarkRead(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Notify stores a notification for userID.
func (s *service) Notify(ctx context.Context, userID, title, content string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Notify"),
		zap.String("user_id", userID),
	)

	title = strings.TrimSpace(title)
	if userID == "" || title == "" {
		return ErrInvalidNotification
	}

	n := &Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Content: strings.TrimSpace(content),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Error("failed to create notification", zap.Error(err))
		return err
	}

	log.Info("notification sent", zap.String("notification_id", n.ID.String()))
	return nil
}

func (s *service) Inbox(ctx context.Context) (*Inbox, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	inbox := &Inbox{Items: items}
	for _, n := range items {
		if !n.IsRead {
			inbox.Unread++
		}
	}
	return inbox, nil
}

func (s *service) MarkRead(ctx context.Context, id string) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	notificationID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidNotification
	}
	return s.repo.MarkRead(ctx, notificationID, userID)
}
