package httpgin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/booking"
	redisrepo "github.com/Rohinijk/travel-glide-tickets-online/internal/repository/redis"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/service"
)

// NewRouter builds the HTTP API. idem and archive are optional: without idem
// the Idempotency-Key header is ignored, without archive tickets are only
// streamed to the client.
func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	archive booking.TicketExporter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.POST("/auth/signup", handleSignup(svcs))
	r.POST("/auth/login", handleLogin(svcs))

	r.GET("/buses", handleSearchBuses(svcs))
	r.GET("/buses/:id", handleGetBus(svcs))
	r.GET("/offers", handleListOffers(svcs))
	r.GET("/routes", handlePopularRoutes(svcs))

	// Booking sessions
	sessions := r.Group("/sessions", AuthMiddleware(svcs.Auth))
	{
		sessions.POST("", handleOpenSession(svcs))
		sessions.GET("/:id", handleGetSession(svcs))
		sessions.DELETE("/:id", handleCloseSession(svcs))

		sessions.POST("/:id/search", handleSetSearch(svcs))
		sessions.POST("/:id/bus", handleSelectBus(svcs))
		sessions.POST("/:id/seats/:seat_id/toggle", handleToggleSeat(svcs))
		sessions.POST("/:id/passenger", handleSetPassenger(svcs))
		sessions.PUT("/:id/payment-method", handleSetPaymentMethod(svcs))
		sessions.POST("/:id/complete", handleCompleteBooking(svcs, idem))
		sessions.POST("/:id/back", handleGoBack(svcs))
		sessions.POST("/:id/reset", handleReset(svcs))

		sessions.GET("/:id/reservations", handleListReservations(svcs))
		sessions.POST("/:id/reservations/:rid/cancel", handleCancelReservation(svcs))
		sessions.GET("/:id/reservations/:rid/ticket", handleDownloadTicket(svcs, archive))
	}

	return r
}

// --- Public handlers ---

// @Summary  Sign up
// @Param    req body  SignupRequest true "payload"
// @Success  201 {object} AuthResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "email already exists"
// @Router   /auth/signup [post]
func handleSignup(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, tok, err := svcs.Auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, AuthResponse{User: u, Token: tok.Token, ExpiresAt: tok.ExpiresAt})
	}
}

// @Summary  Log in
// @Param    req body  LoginRequest true "payload"
// @Success  200 {object} AuthResponse
// @Failure  401 {object} ErrorResponse
// @Router   /auth/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, tok, err := svcs.Auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, AuthResponse{User: u, Token: tok.Token, ExpiresAt: tok.ExpiresAt})
	}
}

// @Summary  Search buses on a route
// @Param    from  query  string  true  "Departure city"
// @Param    to    query  string  true  "Arrival city"
// @Param    date  query  string  true  "Travel date (YYYY-MM-DD)"
// @Success  200  {array}   domain.Bus
// @Failure  400  {object}  ErrorResponse
// @Router   /buses [get]
func handleSearchBuses(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var date time.Time
		if raw := c.Query("date"); raw != "" {
			d, err := parseDate(raw)
			if err != nil {
				badRequest(c, "invalid date (YYYY-MM-DD)")
				return
			}
			date = d
		}

		buses, err := svcs.Catalog.Search(c.Request.Context(), c.Query("from"), c.Query("to"), date)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, buses, "public, max-age=60")
	}
}

// @Summary  Get bus with seat map
// @Param    id  path  string  true  "Bus ID"
// @Success  200  {object}  domain.Bus
// @Failure  404  {object}  ErrorResponse
// @Router   /buses/{id} [get]
func handleGetBus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svcs.Catalog.GetBus(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, b, "public, max-age=15")
	}
}

// @Summary  List offers
// @Success  200  {array}  domain.Offer
// @Router   /offers [get]
func handleListOffers(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, svcs.Catalog.Offers(c.Request.Context()), "public, max-age=300")
	}
}

// @Summary  List popular routes
// @Success  200  {array}  catalog.Route
// @Router   /routes [get]
func handlePopularRoutes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, svcs.Catalog.PopularRoutes(c.Request.Context()), "public, max-age=300")
	}
}
