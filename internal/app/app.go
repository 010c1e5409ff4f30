package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/auth"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/booking"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/config"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/postgres"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/queue"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/redis"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/repository/memory"
	postgresrepo "github.com/Rohinijk/travel-glide-tickets-online/internal/repository/postgres"
	redisrepo "github.com/Rohinijk/travel-glide-tickets-online/internal/repository/redis"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/service"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/service/reservation"
	httpgin "github.com/Rohinijk/travel-glide-tickets-online/internal/transport/http/gin"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/uow"
)

const sweepInterval = time.Minute

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	services   *service.Services
	pubsub     *redisrepo.ReservationsPubSub
	closers    []func()
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx := context.Background()
	a := &App{cfg: cfg, logger: logger}

	// Reservation store
	var (
		tx   uow.TxRunner
		repo reservation.Repository
	)

	switch cfg.StoreKind {
	case config.StorePostgres:
		pool, err := postgres.New(ctx, postgres.Config{
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Name:     cfg.Postgres.Name,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.MaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		store := postgresrepo.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}

		tx, repo = store, store.Reservations()
	default:
		store := memory.NewStore()
		tx, repo = store, store.Reservations()
		logger.Warn("using in-memory reservation store; reservations are lost on restart")
	}

	// Optional Redis: cache, change notifications, rate limiting, idempotency
	var (
		rdb        *goredis.Client
		cache      *redisrepo.Cache
		limiter    reservation.Limiter
		idem       *redisrepo.IdempotencyStore
		publishers []reservation.Publisher
	)

	if cfg.Redis.Addr != "" {
		client, err := redis.New(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		rdb = client
		a.closers = append(a.closers, func() { _ = rdb.Close() })

		cache = redisrepo.New(rdb, cfg.Redis.CacheTTL)
		limiter = redisrepo.NewSlidingWindowLimiter(rdb, "complete", cfg.Redis.BookingLimit, cfg.Redis.BookingWindow)
		idem = redisrepo.NewIdempotencyStore(rdb, cfg.Redis.IdemTTL, time.Minute)
		a.pubsub = redisrepo.NewReservationsPubSub(rdb)
		publishers = append(publishers, a.pubsub)
	}

	// Optional RabbitMQ
	if cfg.RabbitMQ.URL != "" {
		pub, err := queue.NewPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize rabbitmq: %w", err)
		}
		a.closers = append(a.closers, func() { _ = pub.Close() })
		publishers = append(publishers, pub)
	}

	// Accounts
	dir := auth.NewDirectory(cfg.Auth.BcryptCost)
	if cfg.SeedDemo {
		if _, err := dir.Add("Demo User", "user@example.com", "password123"); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to seed demo user: %w", err)
		}
	}
	authSvc := auth.NewService(dir, auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), logger)

	// Initialize services
	a.services = service.NewServices(tx, repo, cache, limiter, publishers, authSvc, service.Config{
		Reservation: reservation.Config{Logger: logger},
		Booking:     booking.Config{AppName: cfg.AppName, Logger: logger},
	})

	var archive booking.TicketExporter
	if cfg.TicketDir != "" {
		archive = booking.DirExporter{Dir: cfg.TicketDir}
	}

	// Initialize Gin router
	router := httpgin.NewRouter(a.services, idem, archive, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer a.Close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Idle session sweeper
	g.Go(func() error {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-t.C:
				if n := a.services.Sessions.Sweep(a.cfg.SessionIdle); n > 0 {
					a.logger.Info("swept idle sessions", "count", n)
				}
			}
		}
	})

	// Reservation change notifications from other instances
	if a.pubsub != nil {
		g.Go(func() error {
			err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, ev domain.ReservationEvent) {
				a.services.Reservations.Invalidate(ctx, ev.UserID)
				a.logger.Debug("reservation changed",
					"type", ev.Type, "reservation_id", ev.ReservationID, "user_id", ev.UserID)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("reservations subscriber: %w", err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

// Close releases backend connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
