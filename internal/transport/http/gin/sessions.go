package httpgin

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/booking"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
	redisrepo "github.com/Rohinijk/travel-glide-tickets-online/internal/repository/redis"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/service"
)

// @Summary  Open a booking session
// @Description Starts at the search step and fetches the user's reservations.
// @Security ApiKeyAuth
// @Success  201 {object} SessionResponse
// @Failure  401 {object} ErrorResponse
// @Router   /sessions [post]
func handleOpenSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svcs.Sessions.Open(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, sessionResponse(s))
	}
}

// @Summary  Get session state
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Success  200 {object} SessionResponse
// @Failure  404 {object} ErrorResponse
// @Router   /sessions/{id} [get]
func handleGetSession(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		c.JSON(http.StatusOK, sessionResponse(s))
	})
}

// @Summary  Close session
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Success  204
// @Router   /sessions/{id} [delete]
func handleCloseSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Sessions.Close(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// @Summary  Set route and travel date
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Param    req body  SearchRequest true "payload"
// @Success  200 {object} SessionResponse
// @Failure  400 {object} ErrorResponse
// @Router   /sessions/{id}/search [post]
func handleSetSearch(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		var date time.Time
		if req.Date != "" {
			d, err := parseDate(req.Date)
			if err != nil {
				badRequest(c, "invalid date (YYYY-MM-DD)")
				return
			}
			date = d
		}

		if err := s.SetSearchParams(c.Request.Context(), req.From, req.To, date); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, sessionResponse(s))
	})
}

// @Summary  Select a bus
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Param    req body  SelectBusRequest true "payload"
// @Success  200 {object} SessionResponse
// @Failure  404 {object} ErrorResponse "bus not found"
// @Failure  409 {object} ErrorResponse "search not set"
// @Router   /sessions/{id}/bus [post]
func handleSelectBus(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		var req SelectBusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		bus, err := svcs.Catalog.GetBus(c.Request.Context(), req.BusID)
		if err != nil {
			respondErr(c, err)
			return
		}

		if err := s.SelectBus(c.Request.Context(), *bus); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, sessionResponse(s))
	})
}

// @Summary  Toggle a seat
// @Description Booked seats are ignored and the state is returned unchanged.
// @Security ApiKeyAuth
// @Param    id       path  string  true  "Session ID"
// @Param    seat_id  path  string  true  "Seat ID"
// @Success  200 {object} SessionResponse
// @Failure  409 {object} ErrorResponse "no bus selected"
// @Router   /sessions/{id}/seats/{seat_id}/toggle [post]
func handleToggleSeat(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		seat := domain.Seat{ID: c.Param("seat_id")}

		if bus := s.State().Draft.SelectedBus; bus != nil {
			if found, err := svcs.Catalog.GetSeat(c.Request.Context(), bus.ID, seat.ID); err == nil {
				seat = found
			}
		}

		if err := s.ToggleSeatSelection(c.Request.Context(), seat); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, sessionResponse(s))
	})
}

// @Summary  Submit passenger details
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Param    req body  PassengerRequest true "payload"
// @Success  200 {object} SessionResponse
// @Failure  422 {object} ErrorResponse "per-field messages"
// @Router   /sessions/{id}/passenger [post]
func handleSetPassenger(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		var req PassengerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		p := req.passenger()
		if err := booking.ValidatePassenger(p, req.TermsAccepted); err != nil {
			respondErr(c, err)
			return
		}

		if err := s.SetPassengerInfo(c.Request.Context(), p); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, sessionResponse(s))
	})
}

// @Summary  Choose payment method
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Param    req body  PaymentMethodRequest true "online or cash"
// @Success  200 {object} SessionResponse
// @Failure  400 {object} ErrorResponse
// @Router   /sessions/{id}/payment-method [put]
func handleSetPaymentMethod(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		var req PaymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := s.SetPaymentMethod(c.Request.Context(), domain.PaymentMethod(req.Method)); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, sessionResponse(s))
	})
}

// @Summary  Complete booking (idempotent)
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Reservation
// @Failure  409 {object} ErrorResponse "not on payment step / already completed / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Failure  503 {object} ErrorResponse "store unavailable, draft kept"
// @Router   /sessions/{id}/complete [post]
func handleCompleteBooking(svcs *service.Services, idem *redisrepo.IdempotencyStore) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		ctx := c.Request.Context()

		idemKey := strings.TrimSpace(c.GetHeader(headerIdemKey))
		var storageKey string
		if idem != nil && idemKey != "" {
			storageKey = redisrepo.KeyIdemComplete(s.ID(), idemKey)

			state, payload, err := idem.Begin(ctx, storageKey)
			if err != nil {
				respondErr(c, err)
				return
			}

			switch state {
			case redisrepo.IdemDone:
				c.Header(headerIdemKey, idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			case redisrepo.IdemInProgress:
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		res, err := s.CompleteBooking(ctx)
		if err != nil {
			if storageKey != "" {
				_ = idem.Release(context.WithoutCancel(ctx), storageKey)
			}
			respondErr(c, err)
			return
		}

		b, err := json.Marshal(res)
		if err != nil {
			respondErr(c, err)
			return
		}

		if storageKey != "" {
			_ = idem.Save(context.WithoutCancel(ctx), storageKey, string(b))
			c.Header(headerIdemKey, idemKey)
		}

		c.Data(http.StatusCreated, "application/json; charset=utf-8", b)
	})
}

// @Summary  Go one step back
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Success  200 {object} SessionResponse
// @Router   /sessions/{id}/back [post]
func handleGoBack(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		if err := s.GoBack(c.Request.Context()); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, sessionResponse(s))
	})
}

// @Summary  Start a new booking
// @Security ApiKeyAuth
// @Param    id  path  string  true  "Session ID"
// @Success  200 {object} SessionResponse
// @Router   /sessions/{id}/reset [post]
func handleReset(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		s.Reset()
		c.JSON(http.StatusOK, sessionResponse(s))
	})
}

// @Summary  List reservations
// @Security ApiKeyAuth
// @Param    id       path   string  true   "Session ID"
// @Param    refresh  query  bool    false  "refetch from the store first"
// @Success  200 {array} domain.Reservation
// @Failure  503 {object} ErrorResponse
// @Router   /sessions/{id}/reservations [get]
func handleListReservations(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		if c.Query("refresh") == "true" {
			if err := s.LoadReservations(c.Request.Context()); err != nil {
				respondErr(c, err)
				return
			}
		}

		list, err := s.Reservations(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, list)
	})
}

// @Summary  Cancel a reservation
// @Security ApiKeyAuth
// @Param    id   path  string  true  "Session ID"
// @Param    rid  path  string  true  "Reservation ID"
// @Success  200 {object} domain.Reservation
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "already cancelled"
// @Router   /sessions/{id}/reservations/{rid}/cancel [post]
func handleCancelReservation(svcs *service.Services) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		res, err := s.CancelBooking(c.Request.Context(), c.Param("rid"))
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, res)
	})
}

// @Summary  Download e-ticket
// @Security ApiKeyAuth
// @Param    id   path  string  true  "Session ID"
// @Param    rid  path  string  true  "Reservation ID"
// @Produce  plain
// @Success  200 {string} string "ticket text"
// @Failure  404 {object} ErrorResponse
// @Router   /sessions/{id}/reservations/{rid}/ticket [get]
func handleDownloadTicket(svcs *service.Services, archive booking.TicketExporter) gin.HandlerFunc {
	return withSession(svcs, func(c *gin.Context, s *booking.Session) {
		out := booking.Exporters{archive, attachment{c: c}}

		ok, err := s.DownloadTicket(c.Request.Context(), c.Param("rid"), out)
		if err != nil {
			respondErr(c, err)
			return
		}

		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
		}
	})
}

// attachment streams a ticket to the client as a file download.
type attachment struct {
	c *gin.Context
}

func (a attachment) Export(_ context.Context, filename string, content []byte) error {
	a.c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	a.c.Data(http.StatusOK, "text/plain; charset=utf-8", content)
	return nil
}

func withSession(svcs *service.Services, h func(c *gin.Context, s *booking.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svcs.Sessions.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}

		h(c, s)
	}
}
