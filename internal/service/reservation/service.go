package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/repository"
	redisrepo "github.com/Rohinijk/travel-glide-tickets-online/internal/repository/redis"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/uow"
)

// Repository is the persistence the service writes through. Both the
// postgres and the in-memory stores implement it.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error)
	Insert(ctx context.Context, r domain.Reservation) error
	SetStatus(ctx context.Context, userID, id string, status domain.ReservationStatus) (*domain.Reservation, error)
}

// Publisher receives reservation events after the change is committed.
type Publisher interface {
	Publish(ctx context.Context, ev domain.ReservationEvent) error
}

type Limiter interface {
	Allow(ctx context.Context, id string) (redisrepo.Decision, error)
}

type Config struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// Service is the reservation store used by booking sessions. Reads go
// through the optional cache; writes run in a unit of work and fan out
// events to the publishers once committed.
type Service struct {
	repo       Repository
	uow        *uow.UoW
	cache      *redisrepo.Cache
	limiter    Limiter
	publishers []Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func New(
	tx uow.TxRunner,
	repo Repository,
	cache *redisrepo.Cache,
	limiter Limiter,
	publishers []Publisher,
	cfg Config,
) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		repo:       repo,
		uow:        uow.NewUoW(tx),
		cache:      cache,
		limiter:    limiter,
		publishers: publishers,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
}

// List returns the reservations of a user.
//
// Parameters:
//   - ctx: request-scoped context.
//   - userID: owner of the reservations.
//
// Returns:
//   - []domain.Reservation: the reservations in booking order.
//   - error: if the repository read fails.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Reservation, error) {
	const op = "service.reservation.List"

	var (
		list []domain.Reservation
		err  error
	)

	if s.cache != nil {
		list, err = redisrepo.GetOrLoad(ctx, s.cache, redisrepo.KeyUserReservations(userID), func(ctx context.Context) ([]domain.Reservation, error) {
			return s.repo.ListByUser(ctx, userID)
		})
	} else {
		list, err = s.repo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if list == nil {
		list = []domain.Reservation{}
	}

	return list, nil
}

// Create persists a new reservation.
//
// Parameters:
//   - ctx: request-scoped context.
//   - r: the reservation snapshot, id already assigned.
//
// Returns:
//   - *domain.Reservation: the stored reservation.
//   - error: reservation.ErrInvalidReservation if required fields are missing.
//   - error: reservation.RateLimitedError if the user books too often.
//   - error: reservation.ErrDuplicate if the id is taken.
func (s *Service) Create(ctx context.Context, r domain.Reservation) (*domain.Reservation, error) {
	const op = "service.reservation.Create"

	if r.ID == "" || r.UserID == "" || !r.Status.Valid() || r.TotalPrice < 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidReservation)
	}

	if s.limiter != nil {
		d, err := s.limiter.Allow(ctx, r.UserID)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !d.Allowed {
			return nil, fmt.Errorf("%s:%w", op, RateLimitedError{RetryAfter: d.RetryAfter})
		}
	}

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		if err := s.repo.Insert(ctx, r); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrDuplicate)
			}
			if errors.Is(err, repository.ErrInvalid) {
				return fmt.Errorf("%s: %w: %w", op, ErrInvalidReservation, err)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(s.changed(r, domain.EventReservationConfirmed))

		return nil
	})
	if err != nil {
		return nil, err
	}

	out := r

	return &out, nil
}

// UpdateStatus changes the status of a live reservation of a user. The only
// transition allowed is to Cancelled.
//
// Parameters:
//   - ctx: request-scoped context.
//   - userID: owner of the reservation.
//   - id: reservation id.
//   - status: new status, must be domain.StatusCancelled.
//
// Returns:
//   - *domain.Reservation: the updated reservation.
//   - error: reservation.ErrInvalidStatus for any target other than Cancelled.
//   - error: reservation.ErrNotFound if no live reservation of the user matches.
func (s *Service) UpdateStatus(
	ctx context.Context,
	userID, id string,
	status domain.ReservationStatus,
) (*domain.Reservation, error) {
	const op = "service.reservation.UpdateStatus"

	if status != domain.StatusCancelled {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidStatus)
	}

	var updated *domain.Reservation

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		r, err := s.repo.SetStatus(ctx, userID, id, status)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		updated = r
		after(s.changed(*r, domain.EventReservationCancelled))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Invalidate drops the cached list of a user. It is a no-op without a cache.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("invalidate reservations cache", "user_id", userID, "error", err)
	}
}

func (s *Service) changed(r domain.Reservation, typ string) uow.AfterCommit {
	return func(ctx context.Context) {
		s.Invalidate(ctx, r.UserID)

		ev := domain.NewReservationEvent(typ, r, s.now())
		for _, p := range s.publishers {
			if err := p.Publish(ctx, ev); err != nil {
				s.logger.Warn("publish reservation event",
					"type", typ, "reservation_id", r.ID, "error", err)
			}
		}
	}
}
