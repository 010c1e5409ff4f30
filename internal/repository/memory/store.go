package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/repository"
)

// Store keeps reservations in process memory. Transactions are serialised;
// a failed transaction restores the state it started from.
type Store struct {
	txMu sync.Mutex

	mu    sync.RWMutex
	byID  map[string]domain.Reservation
	order []string
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string]domain.Reservation),
	}
}

func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	byID := maps.Clone(s.byID)
	order := slices.Clone(s.order)
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.byID = byID
		s.order = order
		s.mu.Unlock()
		return err
	}

	return nil
}

func (s *Store) Reservations() *ReservationRepo { return &ReservationRepo{s: s} }

type ReservationRepo struct {
	s *Store
}

func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Reservation{}
	for _, id := range r.s.order {
		if res := r.s.byID[id]; res.UserID == userID {
			out = append(out, clone(res))
		}
	}

	return out, nil
}

func (r *ReservationRepo) Insert(ctx context.Context, res domain.Reservation) error {
	const op = "memory.ReservationRepo.Insert"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	// Same constraints as the postgres reservations table.
	if res.TotalPrice < 0 || !res.Status.Valid() || !res.PaymentMethod.Valid() {
		return fmt.Errorf("%s:%w", op, repository.ErrInvalid)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byID[res.ID]; ok {
		return fmt.Errorf("%s:%w", op, repository.ErrConflict)
	}

	r.s.byID[res.ID] = clone(res)
	r.s.order = append(r.s.order, res.ID)

	return nil
}

func (r *ReservationRepo) SetStatus(
	ctx context.Context,
	userID, id string,
	status domain.ReservationStatus,
) (*domain.Reservation, error) {
	const op = "memory.ReservationRepo.SetStatus"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res, ok := r.s.byID[id]
	if !ok || res.UserID != userID || res.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	res.Status = status
	r.s.byID[id] = res

	out := clone(res)

	return &out, nil
}

func clone(r domain.Reservation) domain.Reservation {
	out := r
	out.SelectedSeats = slices.Clone(r.SelectedSeats)
	if r.SelectedBus != nil {
		b := *r.SelectedBus
		b.Seats = slices.Clone(r.SelectedBus.Seats)
		b.Amenities = slices.Clone(r.SelectedBus.Amenities)
		out.SelectedBus = &b
	}
	return out
}
