package catalog

import "errors"

var (
	ErrBusNotFound   = errors.New("bus not found")
	ErrSeatNotFound  = errors.New("seat not found")
	ErrInvalidSearch = errors.New("from, to and date are required")
)
