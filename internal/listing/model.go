package listing

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDraft    Status = "draft"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDraft:
		return true
	}
	return false
}

// Listing is a classified ad. CategoryID is the opaque id of the leaf
// category it was filed under.
type Listing struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	RegularPrice  *int64    `json:"regular_price"`
	DiscountPrice *int64    `json:"discount_price"`
	IsFree        bool      `json:"is_free"`
	CategoryID    string    `json:"category_id"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	CityID        *int64    `json:"city_id"`
	RegionID      *int64    `json:"region_id"`
	Images        []string  `json:"images"`
	Status        Status    `json:"status"`
	Views         int64     `json:"views"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateListingInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	RegularPrice  *int64   `json:"regular_price"`
	DiscountPrice *int64   `json:"discount_price"`
	IsFree        bool     `json:"is_free"`
	CategoryID    string   `json:"category_id"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	CityID        *int64   `json:"city_id"`
	RegionID      *int64   `json:"region_id"`
	Images        []string `json:"images"`
	Status        Status   `json:"status"`
}
