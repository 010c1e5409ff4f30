package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrInvalid is returned when a row breaks a table constraint.
	ErrInvalid = errors.New("constraint violated")
)
