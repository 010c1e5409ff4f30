package reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidReservation = errors.New("invalid reservation")
	ErrInvalidStatus      = errors.New("invalid reservation status")
	ErrDuplicate          = errors.New("reservation already exists")
	ErrNotFound           = errors.New("reservation not found")
	ErrRateLimited        = errors.New("rate limited")
)

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

func (e RateLimitedError) Unwrap() error { return ErrRateLimited }
