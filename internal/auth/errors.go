package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingFields      = errors.New("name, email and password are required")
)
