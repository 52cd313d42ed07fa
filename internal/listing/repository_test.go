package listing

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rowColumns = []string{
	"id", "user_id", "title", "slug", "description",
	"regular_price", "discount_price", "is_free",
	"category_id", "address", "phone",
	"latitude", "longitude", "city_id", "region_id",
	"images", "status", "views", "created_at",
}

func listingRow(rows *sqlmock.Rows, id uuid.UUID, title string) *sqlmock.Rows {
	return rows.AddRow(
		id.String(), "user-1", title, TitleSlug(title), "desc",
		int64(1000), nil, false,
		"42", "Almaty", "+7700",
		nil, nil, int64(1), nil,
		"{a.jpg,b.jpg}", "active", int64(3), time.Now(),
	)
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	l := &Listing{
		ID:         uuid.New(),
		UserID:     "user-1",
		Title:      "Диван",
		Slug:       "divan",
		CategoryID: "42",
		Images:     []string{"a.jpg"},
		Status:     StatusActive,
	}

	t.Run("Success", func(t *testing.T) {
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		mock.ExpectQuery("INSERT INTO listings").
			WithArgs(anyArgs(17)...).
			WillReturnRows(sqlmock.NewRows([]string{"views", "created_at"}).AddRow(int64(0), created))

		err := repo.Create(context.Background(), l)
		assert.NoError(t, err)
		assert.Equal(t, created, l.CreatedAt)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO listings").
			WithArgs(anyArgs(17)...).
			WillReturnError(errors.New("db error"))

		err := repo.Create(context.Background(), l)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM listings WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(listingRow(sqlmock.NewRows(rowColumns), id, "Продам диван"))

		l, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, l.ID)
		assert.Equal(t, "prodam-divan", l.Slug)
		assert.Equal(t, int64(1000), *l.RegularPrice)
		assert.Nil(t, l.DiscountPrice)
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, l.Images)
		assert.Equal(t, StatusActive, l.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM listings WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(rowColumns))

		l, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrListingNotFound)
		assert.Nil(t, l)
	})

	t.Run("QueryError", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM listings").
			WithArgs(id).
			WillReturnError(errors.New("db error"))

		_, err := repo.GetByID(context.Background(), id)
		assert.EqualError(t, err, "db error")
	})
}

func TestRepository_GetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectQuery("SELECT .* FROM listings\\s+WHERE category_id = \\$1 AND slug = \\$2 AND status = \\$3").
		WithArgs("42", "divan", StatusActive).
		WillReturnRows(listingRow(sqlmock.NewRows(rowColumns), id, "Диван"))

	l, err := repo.GetBySlug(context.Background(), "42", "divan")
	require.NoError(t, err)
	assert.Equal(t, id, l.ID)
}

func TestRepository_ListByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(rowColumns)
		listingRow(rows, uuid.New(), "One")
		listingRow(rows, uuid.New(), "Two")

		mock.ExpectQuery("SELECT .* FROM listings\\s+WHERE category_id = \\$1 AND status = \\$2").
			WithArgs("42", StatusActive, 20, 40).
			WillReturnRows(rows)

		res, err := repo.ListByCategory(context.Background(), "42", 20, 40)
		require.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, "Two", res[1].Title)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM listings").
			WithArgs("7", StatusActive, 20, 0).
			WillReturnRows(sqlmock.NewRows(rowColumns))

		res, err := repo.ListByCategory(context.Background(), "7", 20, 0)
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("ScanError", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM listings").
			WithArgs("7", StatusActive, 20, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("x"))

		_, err := repo.ListByCategory(context.Background(), "7", 20, 0)
		assert.Error(t, err)
	})
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT .* FROM listings\\s+WHERE user_id = \\$1").
		WithArgs("user-1").
		WillReturnRows(listingRow(sqlmock.NewRows(rowColumns), uuid.New(), "Mine"))

	res, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE listings SET status = \\$1 WHERE id = \\$2").
			WithArgs(StatusInactive, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(context.Background(), id, StatusInactive))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE listings SET status").
			WithArgs(StatusInactive, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateStatus(context.Background(), id, StatusInactive), ErrListingNotFound)
	})
}

func TestRepository_ListSimilar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()
	other := uuid.New()

	mock.ExpectQuery("WHERE category_id = \\$1 AND status = \\$2 AND id <> \\$3").
		WithArgs("42", StatusActive, id, 4).
		WillReturnRows(listingRow(sqlmock.NewRows(rowColumns), other, "Кресло"))

	res, err := repo.ListSimilar(context.Background(), "42", id, 4)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, other, res[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IncrementViews(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectExec("UPDATE listings SET views = views \\+ 1 WHERE id = \\$1").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementViews(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
