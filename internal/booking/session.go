package booking

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

// AuthGate supplies the identity of the caller. Sessions refuse to advance
// while it reports no authenticated user.
type AuthGate interface {
	CurrentUser(ctx context.Context) *domain.User
	IsAuthenticated(ctx context.Context) bool
}

// ReservationStore persists finalized reservations.
type ReservationStore interface {
	List(ctx context.Context, userID string) ([]domain.Reservation, error)
	Create(ctx context.Context, r domain.Reservation) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, userID, id string, status domain.ReservationStatus) (*domain.Reservation, error)
}

type Config struct {
	AppName string
	IDs     IDGenerator
	Now     func() time.Time
	Logger  *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.AppName == "" {
		c.AppName = "TravelGlide"
	}

	if c.IDs == nil {
		c.IDs = NewRandomIDs(uint64(time.Now().UnixNano()))
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}

	return c
}

// State is a point-in-time copy of a session.
type State struct {
	Step          domain.Step         `json:"step"`
	Draft         domain.BookingDraft `json:"draft"`
	CheckoutTotal float64             `json:"checkoutTotal"`
}

// Session is the booking wizard state machine for one user. It owns the
// draft, the step pointer and a cache of the user's reservations.
type Session struct {
	mu sync.Mutex

	id    string
	gate  AuthGate
	store ReservationStore
	cfg   Config

	step         domain.Step
	draft        domain.BookingDraft
	reservations []domain.Reservation
}

func NewSession(id string, gate AuthGate, store ReservationStore, cfg Config) *Session {
	return &Session{
		id:    id,
		gate:  gate,
		store: store,
		cfg:   cfg.withDefaults(),
		step:  domain.StepSearch,
		draft: initialDraft(),
	}
}

func initialDraft() domain.BookingDraft {
	return domain.BookingDraft{
		SelectedSeats: []domain.Seat{},
		PaymentMethod: domain.PaymentOnline,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Step() domain.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// State returns a copy of the step and draft together with the checkout
// total (draft total plus service fee).
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := copyDraft(s.draft)

	return State{
		Step:          s.step,
		Draft:         d,
		CheckoutTotal: CheckoutTotal(d),
	}
}

// Reservations returns a copy of the cached reservations.
func (s *Session) Reservations(ctx context.Context) ([]domain.Reservation, error) {
	if _, err := s.user(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Reservation, len(s.reservations))
	copy(out, s.reservations)

	return out, nil
}

// LoadReservations replaces the reservation cache with the store's list for
// the current user.
func (s *Session) LoadReservations(ctx context.Context) error {
	const op = "booking.Session.LoadReservations"

	u, err := s.user(ctx)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.List(ctx, u.ID)
	if err != nil {
		s.cfg.Logger.Error("fetch reservations failed",
			"session_id", s.id, "user_id", u.ID, "error", err)
		return fmt.Errorf("%s: %w: %w", op, ErrListFailed, err)
	}

	s.reservations = slices.Clone(list)

	return nil
}

// SetSearchParams records the route and travel date and moves to bus
// selection. Empty fields leave the session untouched.
func (s *Session) SetSearchParams(ctx context.Context, from, to string, date time.Time) error {
	const op = "booking.Session.SetSearchParams"

	if _, err := s.user(ctx); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" || date.IsZero() {
		return fmt.Errorf("%s:%w", op, ErrInvalidSearch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.BookingID != "" {
		return fmt.Errorf("%s:%w", op, ErrAlreadyCompleted)
	}

	s.draft.From = from
	s.draft.To = to
	s.draft.Date = date
	s.step = domain.StepSelectBus

	return nil
}

// SelectBus picks a bus from the catalog. Switching buses drops every seat
// picked so far.
func (s *Session) SelectBus(ctx context.Context, bus domain.Bus) error {
	const op = "booking.Session.SelectBus"

	if _, err := s.user(ctx); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.BookingID != "" {
		return fmt.Errorf("%s:%w", op, ErrAlreadyCompleted)
	}

	if s.step < domain.StepSelectBus {
		return fmt.Errorf("%s:%w", op, ErrStepOrder)
	}

	b := bus
	b.Seats = slices.Clone(bus.Seats)
	b.Amenities = slices.Clone(bus.Amenities)

	s.draft.SelectedBus = &b
	s.draft.SelectedSeats = []domain.Seat{}
	s.draft.TotalPrice = 0
	s.step = domain.StepSelectSeats

	return nil
}

// ToggleSeatSelection adds the seat to the selection, or removes it if it is
// already selected. Booked seats are ignored without an error.
//
// Parameters:
//   - ctx: request-scoped context carrying the caller identity.
//   - seat: the seat to toggle; its id must exist on the selected bus.
//
// Returns:
//   - error: booking.ErrStepOrder if no bus is selected.
//   - error: booking.ErrSeatNotOnBus if the seat is not on the selected bus.
func (s *Session) ToggleSeatSelection(ctx context.Context, seat domain.Seat) error {
	const op = "booking.Session.ToggleSeatSelection"

	if _, err := s.user(ctx); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.BookingID != "" {
		return fmt.Errorf("%s:%w", op, ErrAlreadyCompleted)
	}

	if s.draft.SelectedBus == nil {
		return fmt.Errorf("%s:%w", op, ErrStepOrder)
	}

	onBus, ok := s.draft.SelectedBus.Seat(seat.ID)
	if !ok {
		return fmt.Errorf("%s:%w", op, ErrSeatNotOnBus)
	}

	if seat.IsBooked || onBus.IsBooked {
		s.cfg.Logger.Debug("ignoring booked seat", "session_id", s.id, "seat_id", seat.ID)
		return nil
	}

	idx := slices.IndexFunc(s.draft.SelectedSeats, func(x domain.Seat) bool {
		return x.ID == onBus.ID
	})
	if idx >= 0 {
		s.draft.SelectedSeats = slices.Delete(s.draft.SelectedSeats, idx, idx+1)
	} else {
		s.draft.SelectedSeats = append(s.draft.SelectedSeats, onBus)
	}

	s.draft.TotalPrice = seatsTotal(s.draft.SelectedSeats)

	return nil
}

// seatsTotal sums in selection order so the total always equals the price
// sum of the current selection.
func seatsTotal(seats []domain.Seat) float64 {
	var total float64
	for _, seat := range seats {
		total += seat.Price
	}
	return total
}

// SetPassengerInfo commits an already validated passenger and moves straight
// to the payment step.
func (s *Session) SetPassengerInfo(ctx context.Context, p domain.Passenger) error {
	const op = "booking.Session.SetPassengerInfo"

	if _, err := s.user(ctx); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.BookingID != "" {
		return fmt.Errorf("%s:%w", op, ErrAlreadyCompleted)
	}

	if len(s.draft.SelectedSeats) == 0 {
		return fmt.Errorf("%s:%w", op, ErrStepOrder)
	}

	s.draft.Passenger = p
	// Step 4 is not a separate screen; passenger submission lands on payment.
	s.step = domain.StepPayment

	return nil
}

func (s *Session) SetPaymentMethod(ctx context.Context, m domain.PaymentMethod) error {
	const op = "booking.Session.SetPaymentMethod"

	if _, err := s.user(ctx); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if !m.Valid() {
		return fmt.Errorf("%s:%w", op, ErrInvalidPaymentMethod)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.BookingID != "" {
		return fmt.Errorf("%s:%w", op, ErrAlreadyCompleted)
	}

	s.draft.PaymentMethod = m

	return nil
}

// CompleteBooking persists the draft as a confirmed reservation.
//
// Parameters:
//   - ctx: request-scoped context carrying the caller identity.
//
// Returns:
//   - *domain.Reservation: the stored reservation.
//   - error: booking.ErrStepOrder if the session is not on the payment step
//     or no seat is selected.
//   - error: booking.ErrAlreadyCompleted if the draft already has a booking id.
//   - error: booking.ErrBookingPersistFailed if the store rejected the
//     reservation; the draft is left exactly as it was and may be retried.
func (s *Session) CompleteBooking(ctx context.Context) (*domain.Reservation, error) {
	const op = "booking.Session.CompleteBooking"

	u, err := s.user(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.BookingID != "" {
		return nil, fmt.Errorf("%s:%w", op, ErrAlreadyCompleted)
	}

	if s.step != domain.StepPayment || s.draft.SelectedBus == nil {
		return nil, fmt.Errorf("%s:%w", op, ErrStepOrder)
	}

	// Seats can still be toggled on the payment step.
	if len(s.draft.SelectedSeats) == 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrStepOrder)
	}

	bookingID := s.cfg.IDs.NewBookingID()
	d := copyDraft(s.draft)

	res := domain.Reservation{
		ID:            bookingID,
		UserID:        u.ID,
		From:          d.From,
		To:            d.To,
		Date:          d.Date,
		SelectedBus:   d.SelectedBus,
		SelectedSeats: d.SelectedSeats,
		Passenger:     d.Passenger,
		TotalPrice:    d.TotalPrice,
		BookingID:     bookingID,
		Status:        domain.StatusConfirmed,
		BookingDate:   s.cfg.Now(),
		PaymentMethod: d.PaymentMethod,
	}

	created, err := s.store.Create(ctx, res)
	if err != nil {
		s.cfg.Logger.Error("persist booking failed",
			"session_id", s.id, "user_id", u.ID, "booking_id", bookingID, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrBookingPersistFailed, err)
	}

	if created == nil {
		created = &res
	}

	s.reservations = append(s.reservations, *created)
	s.draft.BookingID = bookingID

	s.cfg.Logger.Info("booking completed",
		"session_id", s.id, "user_id", u.ID, "booking_id", bookingID)

	out := *created

	return &out, nil
}

// CancelBooking marks a cached reservation as cancelled once the store has
// accepted the change.
//
// Parameters:
//   - ctx: request-scoped context carrying the caller identity.
//   - id: reservation id.
//
// Returns:
//   - *domain.Reservation: the reservation after cancellation.
//   - error: booking.ErrReservationNotFound if the id is not cached.
//   - error: booking.ErrAlreadyCancelled if it is already cancelled.
//   - error: booking.ErrCancelFailed if the store call failed.
func (s *Session) CancelBooking(ctx context.Context, id string) (*domain.Reservation, error) {
	const op = "booking.Session.CancelBooking"

	u, err := s.user(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.reservations, func(r domain.Reservation) bool {
		return r.ID == id
	})
	if idx < 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrReservationNotFound)
	}

	if s.reservations[idx].Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%s:%w", op, ErrAlreadyCancelled)
	}

	if _, err := s.store.UpdateStatus(ctx, u.ID, id, domain.StatusCancelled); err != nil {
		s.cfg.Logger.Error("cancel booking failed",
			"session_id", s.id, "user_id", u.ID, "booking_id", id, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrCancelFailed, err)
	}

	s.reservations[idx].Status = domain.StatusCancelled

	out := s.reservations[idx]

	return &out, nil
}

// DownloadTicket renders the ticket of a cached reservation and hands it to
// out. It reports false when the reservation is not cached.
func (s *Session) DownloadTicket(ctx context.Context, id string, out TicketExporter) (bool, error) {
	const op = "booking.Session.DownloadTicket"

	if _, err := s.user(ctx); err != nil {
		return false, fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.reservations, func(r domain.Reservation) bool {
		return r.ID == id
	})
	var r domain.Reservation
	if idx >= 0 {
		r = s.reservations[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		return false, nil
	}

	content := RenderTicket(s.cfg.AppName, r)
	name := TicketFilename(s.cfg.AppName, r.BookingID)

	if err := out.Export(ctx, name, []byte(content)); err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrExportFailed, err)
	}

	return true, nil
}

// GoBack moves one step back without touching the draft.
func (s *Session) GoBack(ctx context.Context) error {
	const op = "booking.Session.GoBack"

	if _, err := s.user(ctx); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.BookingID != "" {
		return fmt.Errorf("%s:%w", op, ErrAlreadyCompleted)
	}

	if s.step > domain.StepSearch {
		s.step--
	}

	return nil
}

// Reset starts a new draft at the search step. Reservations are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step = domain.StepSearch
	s.draft = initialDraft()
}

func (s *Session) user(ctx context.Context) (*domain.User, error) {
	if s.gate == nil || !s.gate.IsAuthenticated(ctx) {
		return nil, ErrAuthRequired
	}

	u := s.gate.CurrentUser(ctx)
	if u == nil {
		return nil, ErrAuthRequired
	}

	return u, nil
}

func copyDraft(d domain.BookingDraft) domain.BookingDraft {
	out := d
	out.SelectedSeats = slices.Clone(d.SelectedSeats)
	if out.SelectedSeats == nil {
		out.SelectedSeats = []domain.Seat{}
	}

	if d.SelectedBus != nil {
		b := *d.SelectedBus
		b.Seats = slices.Clone(d.SelectedBus.Seats)
		b.Amenities = slices.Clone(d.SelectedBus.Amenities)
		out.SelectedBus = &b
	}

	return out
}
