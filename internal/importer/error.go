package importer

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrMissingHeader   = errors.New("csv header must contain title and category columns")
	ErrEmptyFile       = errors.New("csv file is empty")
)
