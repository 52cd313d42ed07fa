package profile

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"skidqi-be/internal/listing"
	"skidqi-be/internal/logger"
	"skidqi-be/internal/utils"

	"go.uber.org/zap"
)

const maxFullNameLen = 100

// ListingLister is the part of listing.Service used for "my listings".
type ListingLister interface {
	ListByUser(ctx context.Context, userID string) ([]*listing.Listing, error)
}

type Service interface {
	Get(ctx context.Context) (*Profile, error)
	Update(ctx context.Context, input UpdateProfileInput) (*Profile, error)
	MyListings(ctx context.Context) ([]*listing.Listing, error)
}

type service struct {
	repo     Repository
	listings ListingLister
}

func NewService(repo Repository, listings ListingLister) Service {
	return &service{repo: repo, listings: listings}
}

// Get returns the caller's profile. A user who never saved one gets an
// empty profile.
func (s *service) Get(ctx context.Context) (*Profile, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	p, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		p, err = &Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}

	p.Email = utils.GetUserEmailFromContext(ctx)
	return p, nil
}

func (s *service) Update(ctx context.Context, input UpdateProfileInput) (*Profile, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.String("user_id", userID),
	)
	log.Info("Update started")

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if utf8.RuneCountInString(name) > maxFullNameLen {
			return nil, ErrInvalidFullName
		}
		input.FullName = &name
	}
	if input.Phone != nil {
		if n := countDigits(*input.Phone); n < 10 || n > 15 {
			return nil, ErrInvalidPhone
		}
	}

	p, err := s.repo.Upsert(ctx, userID, input)
	if err != nil {
		log.Error("failed to update profile", zap.Error(err))
		return nil, err
	}
	p.Email = utils.GetUserEmailFromContext(ctx)

	log.Info("Update success")
	return p, nil
}

func (s *service) MyListings(ctx context.Context) ([]*listing.Listing, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.listings.ListByUser(ctx, userID)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
