package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidPhone    = errors.New("phone must contain 10 to 15 digits")
	ErrInvalidFullName = errors.New("full name is too long")
)
