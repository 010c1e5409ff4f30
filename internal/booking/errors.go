package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAuthRequired         = errors.New("authentication required")
	ErrInvalidSearch        = errors.New("from, to and date are required")
	ErrStepOrder            = errors.New("step not reachable from current state")
	ErrSeatNotOnBus         = errors.New("seat does not belong to the selected bus")
	ErrInvalidPaymentMethod = errors.New("payment method must be online or cash")
	ErrAlreadyCompleted     = errors.New("booking already completed")
	ErrBookingPersistFailed = errors.New("booking could not be saved")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrAlreadyCancelled     = errors.New("reservation already cancelled")
	ErrCancelFailed         = errors.New("reservation could not be cancelled")
	ErrListFailed           = errors.New("reservations could not be fetched")
	ErrExportFailed         = errors.New("ticket could not be exported")
	ErrSessionNotFound      = errors.New("session not found")
)

// ValidationError reports passenger form violations, one message per field.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}
