package httpgin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/auth"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/booking"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/service/catalog"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/service/reservation"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var verr booking.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
		return
	}

	var rl reservation.RateLimitedError
	if errors.As(err, &rl) {
		secs := int(rl.RetryAfter.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many bookings, try again later"})
		return
	}

	switch {
	// auth
	case errors.Is(err, booking.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid email or password"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "email already exists"})
	case errors.Is(err, auth.ErrMissingFields):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name, email and password are required"})
	// catalog
	case errors.Is(err, catalog.ErrBusNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "bus not found"})
	case errors.Is(err, catalog.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat not found"})
	case errors.Is(err, catalog.ErrInvalidSearch), errors.Is(err, booking.ErrInvalidSearch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from, to and date are required"})
	// booking session
	case errors.Is(err, booking.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	case errors.Is(err, booking.ErrReservationNotFound), errors.Is(err, reservation.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
	case errors.Is(err, booking.ErrInvalidPaymentMethod):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "payment method must be online or cash"})
	case errors.Is(err, booking.ErrSeatNotOnBus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "seat is not on the selected bus"})
	case errors.Is(err, booking.ErrStepOrder):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "step not reached yet"})
	case errors.Is(err, booking.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "booking already completed"})
	case errors.Is(err, booking.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "reservation already cancelled"})
	case errors.Is(err, booking.ErrBookingPersistFailed):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "booking failed, please try again"})
	case errors.Is(err, booking.ErrCancelFailed):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "cancellation failed, please try again"})
	case errors.Is(err, booking.ErrListFailed):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "could not load reservations"})
	case errors.Is(err, booking.ErrExportFailed):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "ticket could not be exported"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
