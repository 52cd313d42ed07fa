package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skidqi-be/internal/category"
	"skidqi-be/internal/logger"
	"skidqi-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	defaultSimilar = 4
	maxSimilar     = 20
)

// CategoryReader is the part of category.Service listings depend on.
type CategoryReader interface {
	GetByID(ctx context.Context, id string) (*category.Category, error)
	GetBySlug(ctx context.Context, slug string) (*category.Category, error)
	IsLeaf(ctx context.Context, id string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, input CreateListingInput) (*Listing, error)
	Get(ctx context.Context, id string) (*Listing, error)
	ListByCategory(ctx context.Context, categoryID string, limit, page int) ([]*Listing, error)
	ListByUser(ctx context.Context, userID string) ([]*Listing, error)
	Similar(ctx context.Context, id string, limit int) ([]*Listing, error)
	SetStatus(ctx context.Context, id string, status Status) (*Listing, error)
	URL(ctx context.Context, l *Listing) (string, error)
	FindBySlug(ctx context.Context, categorySlug, titleSlug string) (*Listing, error)
}

// Notifier delivers a message to a user. notification.Service satisfies it.
type Notifier interface {
	Notify(ctx context.Context, userID, title, content string) error
}

type ServiceOption func(*service)

// WithNotifier tells owners when a moderator changes the status of their listing.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *service) { s.notifier = n }
}

type service struct {
	repo       Repository
	categories CategoryReader
	notifier   Notifier
}

func NewService(repo Repository, categories CategoryReader, opts ...ServiceOption) Service {
	s := &service{repo: repo, categories: categories}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreateListingInput) (*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.String("category_id", input.CategoryID),
	)
	log.Info("Create started")

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if err := normalizePrices(&input); err != nil {
		log.Warn("invalid price", zap.Error(err))
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if strings.TrimSpace(input.CategoryID) == "" {
		return nil, category.ErrInvalidCategoryID
	}
	c, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		log.Warn("category lookup failed", zap.Error(err))
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrInactiveCategory
	}
	leaf, err := s.categories.IsLeaf(ctx, input.CategoryID)
	if err != nil {
		log.Error("failed to check category leaf", zap.Error(err))
		return nil, err
	}
	if !leaf {
		return nil, ErrNotLeafCategory
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	l := &Listing{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Slug:          TitleSlug(title),
		Description:   strings.TrimSpace(input.Description),
		RegularPrice:  input.RegularPrice,
		DiscountPrice: input.DiscountPrice,
		IsFree:        input.IsFree,
		CategoryID:    input.CategoryID,
		Address:       input.Address,
		Phone:         input.Phone,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		CityID:        input.CityID,
		RegionID:      input.RegionID,
		Images:        images,
		Status:        status,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		log.Error("failed to create listing", zap.Error(err))
		return nil, err
	}

	log.Info("Create success", zap.String("listing_id", l.ID.String()))
	return l, nil
}

// normalizePrices enforces non-negative prices with discount <= regular.
// A zero regular price marks the listing free.
func normalizePrices(input *CreateListingInput) error {
	if input.RegularPrice != nil && *input.RegularPrice < 0 {
		return ErrInvalidPrice
	}
	if input.DiscountPrice != nil {
		if *input.DiscountPrice < 0 || input.RegularPrice == nil || *input.DiscountPrice > *input.RegularPrice {
			return ErrInvalidPrice
		}
	}
	if input.RegularPrice != nil && *input.RegularPrice == 0 {
		input.RegularPrice = nil
		input.DiscountPrice = nil
		input.IsFree = true
	}
	if input.IsFree && input.RegularPrice != nil {
		return ErrInvalidPrice
	}
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Get"),
		zap.String("listing_id", id),
	)

	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidListing
	}

	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		if !errors.Is(err, ErrListingNotFound) {
			log.Error("failed to get listing", zap.Error(err))
		}
		return nil, err
	}

	// Non-active listings are visible to their owner and admins only, and
	// their views are not counted.
	if l.Status != StatusActive {
		if !canManage(ctx, l) {
			log.Debug("hiding non-active listing", zap.String("status", string(l.Status)))
			return nil, ErrListingNotFound
		}
		return l, nil
	}

	if err := s.repo.IncrementViews(ctx, listingID); err != nil {
		log.Warn("failed to increment views", zap.Error(err))
	} else {
		l.Views++
	}

	return l, nil
}

func (s *service) ListByCategory(ctx context.Context, categoryID string, limit, page int) ([]*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListByCategory"),
		zap.String("category_id", categoryID),
	)
	log.Debug("ListByCategory started")

	if strings.TrimSpace(categoryID) == "" {
		return nil, category.ErrInvalidCategoryID
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		page = 1
	}

	listings, err := s.repo.ListByCategory(ctx, categoryID, limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to list listings", zap.Error(err))
		return nil, err
	}

	log.Debug("ListByCategory success", zap.Int("count", len(listings)))
	return listings, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Listing, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

// Similar returns up to limit other active listings from the category of
// the listing with the given id, newest first.
func (s *service) Similar(ctx context.Context, id string, limit int) ([]*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Similar"),
		zap.String("listing_id", id),
	)

	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidListing
	}

	if limit <= 0 {
		limit = defaultSimilar
	}
	if limit > maxSimilar {
		limit = maxSimilar
	}

	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusActive && !canManage(ctx, l) {
		return nil, ErrListingNotFound
	}

	similar, err := s.repo.ListSimilar(ctx, l.CategoryID, listingID, limit)
	if err != nil {
		log.Error("failed to list similar listings", zap.Error(err))
		return nil, err
	}
	return similar, nil
}

// canManage reports whether the caller owns l or is an admin.
func canManage(ctx context.Context, l *Listing) bool {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return false
	}
	return l.UserID == userID || utils.IsAdmin(ctx)
}

// SetStatus changes the status of a listing owned by the caller.
func (s *service) SetStatus(ctx context.Context, id string, status Status) (*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetStatus"),
		zap.String("listing_id", id),
		zap.String("status", string(status)),
	)
	log.Info("SetStatus started")

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidListing
	}

	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !canManage(ctx, l) {
		log.Warn("status change on foreign listing", zap.String("owner_id", l.UserID))
		return nil, ErrForbidden
	}

	if l.Status == status {
		return l, nil
	}

	if err := s.repo.UpdateStatus(ctx, listingID, status); err != nil {
		log.Error("failed to update status", zap.Error(err))
		return nil, err
	}
	l.Status = status

	if l.UserID != userID && s.notifier != nil {
		title := fmt.Sprintf("Статус объявления изменён: %s", status)
		if err := s.notifier.Notify(ctx, l.UserID, title, l.Title); err != nil {
			log.Warn("failed to notify owner", zap.Error(err))
		}
	}

	log.Info("SetStatus success")
	return l, nil
}

// URL returns the public path of l, built from its category slug and title.
func (s *service) URL(ctx context.Context, l *Listing) (string, error) {
	c, err := s.categories.GetByID(ctx, l.CategoryID)
	if err != nil {
		return "", err
	}
	return URL(c.Slug, l.Title), nil
}

// FindBySlug resolves a /category/<category-slug>/<title-slug> path back to a listing.
func (s *service) FindBySlug(ctx context.Context, categorySlug, titleSlug string) (*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "FindBySlug"),
		zap.String("category_slug", categorySlug),
		zap.String("title_slug", titleSlug),
	)

	c, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		log.Debug("category slug not resolved", zap.Error(err))
		return nil, err
	}

	return s.repo.GetBySlug(ctx, c.ID, titleSlug)
}
