package reservation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/repository"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/repository/memory"
	redisrepo "github.com/Rohinijk/travel-glide-tickets-online/internal/repository/redis"
)

type recordingPublisher struct {
	events []domain.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.ReservationEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

type stubLimiter struct {
	decision redisrepo.Decision
	err      error
	ids      []string
}

func (l *stubLimiter) Allow(_ context.Context, id string) (redisrepo.Decision, error) {
	l.ids = append(l.ids, id)
	return l.decision, l.err
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, limiter Limiter, pubs ...Publisher) *Service {
	t.Helper()

	store := memory.NewStore()

	return New(store, store.Reservations(), nil, limiter, pubs, Config{
		Now: func() time.Time { return fixedNow },
	})
}

func confirmed(id, userID string) domain.Reservation {
	return domain.Reservation{
		ID:            id,
		UserID:        userID,
		From:          "Delhi",
		To:            "Jaipur",
		SelectedSeats: []domain.Seat{{ID: "bus-001-seat-01", Price: 500}},
		TotalPrice:    500,
		BookingID:     id,
		Status:        domain.StatusConfirmed,
		BookingDate:   fixedNow,
		PaymentMethod: domain.PaymentCash,
	}
}

func TestCreateThenList(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newService(t, nil, pub)

	got, err := svc.Create(ctx, confirmed("BK-100001", "u1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != "BK-100001" {
		t.Fatalf("Create returned %+v", got)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != "BK-100001" {
		t.Fatalf("List = %+v", list)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Type != domain.EventReservationConfirmed || ev.UserID != "u1" || ev.TsUnix != fixedNow.Unix() {
		t.Fatalf("event = %+v", ev)
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc := newService(t, nil)

	list, err := svc.List(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("List = %#v, want empty slice", list)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Reservation)
	}{
		{"missing id", func(r *domain.Reservation) { r.ID = "" }},
		{"missing user", func(r *domain.Reservation) { r.UserID = "" }},
		{"bad status", func(r *domain.Reservation) { r.Status = "Lost" }},
		{"negative total", func(r *domain.Reservation) { r.TotalPrice = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			svc := newService(t, nil, pub)

			r := confirmed("BK-100001", "u1")
			tc.mutate(&r)

			if _, err := svc.Create(context.Background(), r); !errors.Is(err, ErrInvalidReservation) {
				t.Fatalf("err = %v, want ErrInvalidReservation", err)
			}
			if len(pub.events) != 0 {
				t.Fatal("event published for rejected reservation")
			}
		})
	}
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newService(t, nil, pub)

	if _, err := svc.Create(ctx, confirmed("BK-100001", "u1")); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Create(ctx, confirmed("BK-100001", "u1"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
}

func TestCreateRateLimited(t *testing.T) {
	lim := &stubLimiter{decision: redisrepo.Decision{Allowed: false, RetryAfter: 3 * time.Second}}
	svc := newService(t, lim)

	_, err := svc.Create(context.Background(), confirmed("BK-100001", "u1"))
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}

	var rl RateLimitedError
	if !errors.As(err, &rl) || rl.RetryAfter != 3*time.Second {
		t.Fatalf("RateLimitedError = %+v", rl)
	}
	if len(lim.ids) != 1 || lim.ids[0] != "u1" {
		t.Fatalf("limiter ids = %v", lim.ids)
	}

	list, _ := svc.List(context.Background(), "u1")
	if len(list) != 0 {
		t.Fatal("rate limited reservation was stored")
	}
}

func TestCreateLimiterError(t *testing.T) {
	boom := errors.New("redis down")
	svc := newService(t, &stubLimiter{err: boom})

	if _, err := svc.Create(context.Background(), confirmed("BK-100001", "u1")); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want limiter error", err)
	}
}

func TestPublisherFailureDoesNotFailCreate(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newService(t, nil, pub)

	if _, err := svc.Create(context.Background(), confirmed("BK-100001", "u1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newService(t, nil, pub)

	if _, err := svc.Create(ctx, confirmed("BK-100001", "u1")); err != nil {
		t.Fatal(err)
	}

	for _, status := range []domain.ReservationStatus{"Lost", domain.StatusPending, domain.StatusConfirmed} {
		if _, err := svc.UpdateStatus(ctx, "u1", "BK-100001", status); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("status %q err = %v, want ErrInvalidStatus", status, err)
		}
	}

	list, err := svc.List(ctx, "u1")
	if err != nil || len(list) != 1 || list[0].Status != domain.StatusConfirmed {
		t.Fatalf("after rejected updates list = %+v err = %v", list, err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("events after rejected updates = %d, want 1", len(pub.events))
	}

	if _, err := svc.UpdateStatus(ctx, "u2", "BK-100001", domain.StatusCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign user err = %v, want ErrNotFound", err)
	}

	got, err := svc.UpdateStatus(ctx, "u1", "BK-100001", domain.StatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("status = %s", got.Status)
	}

	if n := len(pub.events); n != 2 || pub.events[1].Type != domain.EventReservationCancelled {
		t.Fatalf("events = %+v", pub.events)
	}

	if _, err := svc.UpdateStatus(ctx, "u1", "BK-100001", domain.StatusCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second cancel err = %v, want ErrNotFound", err)
	}
}

// checkingRepo rejects inserts the way a table CHECK constraint would.
type checkingRepo struct {
	Repository
}

func (r checkingRepo) Insert(context.Context, domain.Reservation) error {
	return fmt.Errorf("postgresrepo.ReservationRepo.Insert:%w", repository.ErrInvalid)
}

func TestCreateConstraintViolation(t *testing.T) {
	store := memory.NewStore()
	pub := &recordingPublisher{}
	svc := New(store, checkingRepo{Repository: store.Reservations()}, nil, nil, []Publisher{pub}, Config{})

	_, err := svc.Create(context.Background(), confirmed("BK-100001", "u1"))
	if !errors.Is(err, ErrInvalidReservation) || !errors.Is(err, repository.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalidReservation wrapping repository.ErrInvalid", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("event published for rejected reservation")
	}
}
