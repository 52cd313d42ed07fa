package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationColumns = []string{"id", "user_id", "title", "content", "is_read", "created_at"}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	n := &Notification{ID: uuid.New(), UserID: "u1", Title: "Объявление снято", Content: "Диван"}
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(n.ID, "u1", "Объявление снято", "Диван").
		WillReturnRows(sqlmock.NewRows([]string{"is_read", "created_at"}).AddRow(false, created))

	require.NoError(t, repo.Create(context.Background(), n))
	assert.Equal(t, created, n.CreatedAt)
	assert.False(t, n.IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery("SELECT .* FROM notifications\\s+WHERE user_id = \\$1\\s+ORDER BY created_at DESC").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(notificationColumns).
				AddRow(id.String(), "u1", "Привет", "", true, time.Now()))

		res, err := repo.ListByUser(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, id, res[0].ID)
		assert.True(t, res[0].IsRead)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM notifications").
			WithArgs("u2").
			WillReturnRows(sqlmock.NewRows(notificationColumns))

		res, err := repo.ListByUser(context.Background(), "u2")
		require.NoError(t, err)
		assert.Empty(t, res)
		assert.NotNil(t, res)
	})

	t.Run("QueryError", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM notifications").
			WithArgs("u3").
			WillReturnError(errors.New("db error"))

		_, err := repo.ListByUser(context.Background(), "u3")
		assert.EqualError(t, err, "db error")
	})
}

func TestRepository_MarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET is_read = TRUE WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(id, "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkRead(context.Background(), id, "u1"))
	})

	t.Run("Other user", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications").
			WithArgs(id, "u2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkRead(context.Background(), id, "u2"), ErrNotificationNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
