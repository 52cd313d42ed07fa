package listing

import "errors"

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrInvalidListing   = errors.New("invalid listing")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrNotLeafCategory  = errors.New("listings can only be filed under a leaf category")
	ErrInactiveCategory = errors.New("category is not active")
	ErrInvalidStatus    = errors.New("invalid listing status")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("listing belongs to another user")
)
