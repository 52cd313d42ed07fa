package profile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"skidqi-be/internal/listing"
	"skidqi-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, userID string, input UpdateProfileInput) (*Profile, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

type MockListings struct {
	mock.Mock
}

func (m *MockListings) ListByUser(ctx context.Context, userID string) ([]*listing.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func userCtx() context.Context {
	return utils.SetUserContext(context.Background(), "u1", "u1@example.com", "USER")
}

func TestService_Get(t *testing.T) {
	t.Run("Existing profile", func(t *testing.T) {
		repo := new(MockRepository)
		ctx := userCtx()
		repo.On("GetByUserID", ctx, "u1").Return(&Profile{UserID: "u1", FullName: utils.StrPtr("A")}, nil)

		p, err := NewService(repo, nil).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "A", *p.FullName)
		assert.Equal(t, "u1@example.com", p.Email)
	})

	t.Run("No profile yet", func(t *testing.T) {
		repo := new(MockRepository)
		ctx := userCtx()
		repo.On("GetByUserID", ctx, "u1").Return(nil, ErrProfileNotFound)

		p, err := NewService(repo, nil).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", p.UserID)
		assert.Nil(t, p.FullName)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockRepository)
		ctx := userCtx()
		repo.On("GetByUserID", ctx, "u1").Return(nil, errors.New("db error"))

		_, err := NewService(repo, nil).Get(ctx)
		assert.EqualError(t, err, "db error")
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := NewService(new(MockRepository), nil).Get(context.Background())
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("Trims name", func(t *testing.T) {
		repo := new(MockRepository)
		ctx := userCtx()
		repo.On("Upsert", ctx, "u1", mock.MatchedBy(func(in UpdateProfileInput) bool {
			return in.FullName != nil && *in.FullName == "Айгерим"
		})).Return(&Profile{UserID: "u1"}, nil)

		p, err := NewService(repo, nil).Update(ctx, UpdateProfileInput{
			FullName: utils.StrPtr("  Айгерим "),
			Phone:    utils.StrPtr("+7 (700) 123-45-67"),
		})
		require.NoError(t, err)
		assert.Equal(t, "u1@example.com", p.Email)
		repo.AssertExpectations(t)
	})

	t.Run("Invalid phone", func(t *testing.T) {
		repo := new(MockRepository)
		_, err := NewService(repo, nil).Update(userCtx(), UpdateProfileInput{Phone: utils.StrPtr("12-34")})
		assert.ErrorIs(t, err, ErrInvalidPhone)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Name too long", func(t *testing.T) {
		_, err := NewService(new(MockRepository), nil).Update(userCtx(), UpdateProfileInput{
			FullName: utils.StrPtr(strings.Repeat("я", maxFullNameLen+1)),
		})
		assert.ErrorIs(t, err, ErrInvalidFullName)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := NewService(new(MockRepository), nil).Update(context.Background(), UpdateProfileInput{})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestService_MyListings(t *testing.T) {
	listings := new(MockListings)
	ctx := userCtx()
	listings.On("ListByUser", ctx, "u1").Return([]*listing.Listing{{Title: "mine"}}, nil)

	res, err := NewService(new(MockRepository), listings).MyListings(ctx)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	_, err = NewService(new(MockRepository), listings).MyListings(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
