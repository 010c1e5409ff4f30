package httpgin

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/auth"
)

const (
	headerRequestID = "X-Request-ID"
	headerAuthToken = "x-auth-token"
	headerIdemKey   = "Idempotency-Key"

	ctxRequestID = "request_id"
	ctxUserID    = "user_id"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(headerRequestID, reqID)
		c.Set(ctxRequestID, reqID)

		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			headerAuthToken,
			headerRequestID,
			headerIdemKey,
			"If-None-Match",
		},
		ExposeHeaders: []string{
			headerRequestID,
			headerIdemKey,
			"ETag",
			"Cache-Control",
			"Content-Disposition",
			"Retry-After",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		reqID, _ := c.Get(ctxRequestID)
		userID, _ := c.Get(ctxUserID)

		attrs := []any{
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", c.Request.UserAgent()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", c.Writer.Size()),
		}
		if userID != nil {
			attrs = append(attrs, slog.Any("user_id", userID))
		}

		switch {
		case len(c.Errors) > 0 || c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("http", slog.Group("http", attrs...))
		default:
			logger.Info("http", slog.Group("http", attrs...))
		}
	}
}

// AuthMiddleware accepts a token from "Authorization: Bearer" or from the
// x-auth-token header and puts the user on the request context.
func AuthMiddleware(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = strings.TrimSpace(c.GetHeader(headerAuthToken))
		}

		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}

		u, err := svc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set(ctxUserID, u.ID)
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), u))

		c.Next()
	}
}

func bearerToken(h string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}
