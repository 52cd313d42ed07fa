package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"read"`
	CreatedAt time.Time `json:"date"`
}

// Inbox is a user's notifications, newest first, with the unread count.
type Inbox struct {
	Items  []*Notification `json:"items"`
	Unread int             `json:"unread"`
}
