package booking

import (
	"context"
	"errors"
	"math/rand/v2"
	"reflect"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

type fakeGate struct {
	user *domain.User
}

func (g *fakeGate) CurrentUser(context.Context) *domain.User { return g.user }
func (g *fakeGate) IsAuthenticated(context.Context) bool     { return g.user != nil }

type fakeStore struct {
	listed    []domain.Reservation
	listErr   error
	created   []domain.Reservation
	createErr error
	updateErr error
	updates   []string
	listCalls int
}

func (f *fakeStore) List(_ context.Context, _ string) ([]domain.Reservation, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeStore) Create(_ context.Context, r domain.Reservation) (*domain.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, r)
	return &r, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, _, id string, status domain.ReservationStatus) (*domain.Reservation, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, id+":"+string(status))
	return &domain.Reservation{ID: id, Status: status}, nil
}

type fixedIDs []string

func (f *fixedIDs) NewBookingID() string {
	id := (*f)[0]
	*f = (*f)[1:]
	return id
}

type memExporter struct {
	name    string
	content []byte
	err     error
}

func (m *memExporter) Export(_ context.Context, name string, content []byte) error {
	if m.err != nil {
		return m.err
	}
	m.name = name
	m.content = content
	return nil
}

var testNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func testBus(id string) domain.Bus {
	return domain.Bus{
		ID:            id,
		Name:          "TravelGlide Express",
		DepartureTime: "07:00",
		ArrivalTime:   "11:30",
		Price:         450,
		Seats: []domain.Seat{
			{ID: id + "-seat-01", Number: "01", Price: 450},
			{ID: id + "-seat-02", Number: "02", Price: 500},
			{ID: id + "-seat-03", Number: "03", Price: 450, IsBooked: true},
			{ID: id + "-seat-04", Number: "04", Price: 450},
		},
	}
}

func newTestSession(t *testing.T, store *fakeStore, ids ...string) (*Session, context.Context) {
	t.Helper()

	gen := fixedIDs(ids)
	cfg := Config{AppName: "TravelGlide", Now: func() time.Time { return testNow }}
	if len(ids) > 0 {
		cfg.IDs = &gen
	}

	gate := &fakeGate{user: &domain.User{ID: "u1", Name: "Demo User"}}

	return NewSession("s1", gate, store, cfg), context.Background()
}

func mustSeatStep(t *testing.T, s *Session, ctx context.Context, bus domain.Bus) {
	t.Helper()

	date := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	if err := s.SetSearchParams(ctx, "New York", "Boston", date); err != nil {
		t.Fatalf("SetSearchParams: %v", err)
	}
	if err := s.SelectBus(ctx, bus); err != nil {
		t.Fatalf("SelectBus: %v", err)
	}
}

func sumPrices(seats []domain.Seat) float64 {
	var total float64
	for _, s := range seats {
		total += s.Price
	}
	return total
}

func TestSetSearchParams(t *testing.T) {
	date := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to string
		date     time.Time
		wantErr  error
		wantStep domain.Step
	}{
		{name: "valid", from: "New York", to: "Boston", date: date, wantStep: domain.StepSelectBus},
		{name: "missing from", from: " ", to: "Boston", date: date, wantErr: ErrInvalidSearch, wantStep: domain.StepSearch},
		{name: "missing to", from: "New York", to: "", date: date, wantErr: ErrInvalidSearch, wantStep: domain.StepSearch},
		{name: "missing date", from: "New York", to: "Boston", wantErr: ErrInvalidSearch, wantStep: domain.StepSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ctx := newTestSession(t, &fakeStore{})

			err := s.SetSearchParams(ctx, tt.from, tt.to, tt.date)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			st := s.State()
			if st.Step != tt.wantStep {
				t.Fatalf("step = %d, want %d", st.Step, tt.wantStep)
			}
			if tt.wantErr != nil && st.Draft.From != "" {
				t.Fatalf("draft mutated on rejected search: %+v", st.Draft)
			}
		})
	}
}

func TestTransitionsRequireAuthentication(t *testing.T) {
	s := NewSession("s1", &fakeGate{}, &fakeStore{}, Config{})
	ctx := context.Background()

	date := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	if err := s.SetSearchParams(ctx, "New York", "Boston", date); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("SetSearchParams err = %v, want ErrAuthRequired", err)
	}
	if _, err := s.CompleteBooking(ctx); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("CompleteBooking err = %v, want ErrAuthRequired", err)
	}
	if _, err := s.Reservations(ctx); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("Reservations err = %v, want ErrAuthRequired", err)
	}
	if s.Step() != domain.StepSearch {
		t.Fatalf("step advanced while unauthenticated: %d", s.Step())
	}
}

func TestSelectBusRequiresSearch(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})

	if err := s.SelectBus(ctx, testBus("bus-001")); !errors.Is(err, ErrStepOrder) {
		t.Fatalf("err = %v, want ErrStepOrder", err)
	}
}

func TestSelectBusClearsSeats(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	busA, busB := testBus("bus-001"), testBus("bus-002")
	mustSeatStep(t, s, ctx, busA)

	for _, seat := range []domain.Seat{busA.Seats[0], busA.Seats[1]} {
		if err := s.ToggleSeatSelection(ctx, seat); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	if err := s.SelectBus(ctx, busB); err != nil {
		t.Fatalf("SelectBus: %v", err)
	}

	st := s.State()
	if len(st.Draft.SelectedSeats) != 0 || st.Draft.TotalPrice != 0 {
		t.Fatalf("seats = %v total = %v, want empty and 0", st.Draft.SelectedSeats, st.Draft.TotalPrice)
	}
	if st.Draft.SelectedBus.ID != "bus-002" || st.Step != domain.StepSelectSeats {
		t.Fatalf("bus = %s step = %d", st.Draft.SelectedBus.ID, st.Step)
	}
}

func TestToggleSeatPriceInvariant(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	bus := testBus("bus-001")
	mustSeatStep(t, s, ctx, bus)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		seat := bus.Seats[rng.IntN(len(bus.Seats))]
		if err := s.ToggleSeatSelection(ctx, seat); err != nil {
			t.Fatalf("toggle %s: %v", seat.ID, err)
		}

		d := s.State().Draft
		if d.TotalPrice != sumPrices(d.SelectedSeats) {
			t.Fatalf("step %d: total %v != sum %v", i, d.TotalPrice, sumPrices(d.SelectedSeats))
		}
		if d.TotalPrice < 0 {
			t.Fatalf("step %d: negative total %v", i, d.TotalPrice)
		}
		for _, sel := range d.SelectedSeats {
			if sel.IsBooked {
				t.Fatalf("booked seat %s selected", sel.ID)
			}
		}
	}
}

func TestToggleSeatFractionalPrices(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	bus := testBus("bus-001")
	bus.Seats[0].Price = 0.1
	bus.Seats[1].Price = 0.2
	bus.Seats[3].Price = 0.7
	mustSeatStep(t, s, ctx, bus)

	toggles := []domain.Seat{bus.Seats[0], bus.Seats[1], bus.Seats[0], bus.Seats[3], bus.Seats[1], bus.Seats[0]}
	for i, seat := range toggles {
		if err := s.ToggleSeatSelection(ctx, seat); err != nil {
			t.Fatalf("toggle %s: %v", seat.ID, err)
		}

		d := s.State().Draft
		if d.TotalPrice != sumPrices(d.SelectedSeats) {
			t.Fatalf("toggle %d: total %v != sum %v", i, d.TotalPrice, sumPrices(d.SelectedSeats))
		}
	}

	// 0.1 + 0.2 - 0.1 must not leave 0.20000000000000004 behind.
	s2, ctx2 := newTestSession(t, &fakeStore{})
	mustSeatStep(t, s2, ctx2, bus)
	for _, seat := range []domain.Seat{bus.Seats[0], bus.Seats[1], bus.Seats[0]} {
		if err := s2.ToggleSeatSelection(ctx2, seat); err != nil {
			t.Fatal(err)
		}
	}
	if got := s2.State().Draft.TotalPrice; got != 0.2 {
		t.Fatalf("total = %v, want 0.2", got)
	}
}

func TestToggleSeatRoundTrip(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	bus := testBus("bus-001")
	mustSeatStep(t, s, ctx, bus)

	if err := s.ToggleSeatSelection(ctx, bus.Seats[0]); err != nil {
		t.Fatal(err)
	}
	before := s.State().Draft

	if err := s.ToggleSeatSelection(ctx, bus.Seats[1]); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleSeatSelection(ctx, bus.Seats[1]); err != nil {
		t.Fatal(err)
	}

	after := s.State().Draft
	if !reflect.DeepEqual(before.SelectedSeats, after.SelectedSeats) || before.TotalPrice != after.TotalPrice {
		t.Fatalf("round trip changed state: before %+v after %+v", before, after)
	}
}

func TestToggleSeatKeepsSelectionOrder(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	bus := testBus("bus-001")
	mustSeatStep(t, s, ctx, bus)

	for _, i := range []int{3, 0, 1} {
		if err := s.ToggleSeatSelection(ctx, bus.Seats[i]); err != nil {
			t.Fatal(err)
		}
	}

	var got []string
	for _, seat := range s.State().Draft.SelectedSeats {
		got = append(got, seat.Number)
	}
	if want := []string{"04", "01", "02"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestToggleBookedSeatIsIgnored(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	bus := testBus("bus-001")
	mustSeatStep(t, s, ctx, bus)

	if err := s.ToggleSeatSelection(ctx, bus.Seats[0]); err != nil {
		t.Fatal(err)
	}
	before := s.State().Draft

	if err := s.ToggleSeatSelection(ctx, bus.Seats[2]); err != nil {
		t.Fatalf("booked seat toggle returned %v", err)
	}

	stale := bus.Seats[3]
	stale.IsBooked = true
	if err := s.ToggleSeatSelection(ctx, stale); err != nil {
		t.Fatalf("booked seat toggle returned %v", err)
	}

	after := s.State().Draft
	if !reflect.DeepEqual(before.SelectedSeats, after.SelectedSeats) || before.TotalPrice != after.TotalPrice {
		t.Fatalf("booked seat changed state")
	}
}

func TestToggleSeatNotOnBus(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	mustSeatStep(t, s, ctx, testBus("bus-001"))

	other := testBus("bus-002").Seats[0]
	if err := s.ToggleSeatSelection(ctx, other); !errors.Is(err, ErrSeatNotOnBus) {
		t.Fatalf("err = %v, want ErrSeatNotOnBus", err)
	}
}

func TestSetPassengerInfoJumpsToPayment(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	bus := testBus("bus-001")
	mustSeatStep(t, s, ctx, bus)

	p := domain.Passenger{Name: "Jane", Age: "30", Gender: "female", Email: "jane@example.com", Phone: "9876543210"}
	if err := s.SetPassengerInfo(ctx, p); !errors.Is(err, ErrStepOrder) {
		t.Fatalf("err without seats = %v, want ErrStepOrder", err)
	}

	if err := s.ToggleSeatSelection(ctx, bus.Seats[0]); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPassengerInfo(ctx, p); err != nil {
		t.Fatal(err)
	}

	st := s.State()
	if st.Step != domain.StepPayment {
		t.Fatalf("step = %d, want %d", st.Step, domain.StepPayment)
	}
	if st.Draft.Passenger != p {
		t.Fatalf("passenger = %+v", st.Draft.Passenger)
	}
}

func TestSetPaymentMethod(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})

	if err := s.SetPaymentMethod(ctx, domain.PaymentCash); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPaymentMethod(ctx, "card"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("err = %v, want ErrInvalidPaymentMethod", err)
	}

	st := s.State()
	if st.Draft.PaymentMethod != domain.PaymentCash || st.Step != domain.StepSearch {
		t.Fatalf("method = %s step = %d", st.Draft.PaymentMethod, st.Step)
	}
}

func readyForPayment(t *testing.T, s *Session, ctx context.Context) domain.Bus {
	t.Helper()

	bus := testBus("bus-001")
	mustSeatStep(t, s, ctx, bus)
	for _, seat := range bus.Seats[:2] {
		if err := s.ToggleSeatSelection(ctx, seat); err != nil {
			t.Fatal(err)
		}
	}
	p := domain.Passenger{Name: "Jane Doe", Age: "30", Gender: "female", Email: "jane@example.com", Phone: "9876543210"}
	if err := s.SetPassengerInfo(ctx, p); err != nil {
		t.Fatal(err)
	}

	return bus
}

func TestCheckoutScenario(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	readyForPayment(t, s, ctx)

	st := s.State()
	if st.Draft.TotalPrice != 950 {
		t.Fatalf("total = %v, want 950", st.Draft.TotalPrice)
	}
	if st.CheckoutTotal != 1000 {
		t.Fatalf("checkout total = %v, want 1000", st.CheckoutTotal)
	}
}

func TestCompleteBooking(t *testing.T) {
	store := &fakeStore{}
	s, ctx := newTestSession(t, store, "BK-482913")
	readyForPayment(t, s, ctx)

	res, err := s.CompleteBooking(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if res.ID != "BK-482913" || res.BookingID != res.ID {
		t.Fatalf("ids = %s/%s", res.ID, res.BookingID)
	}
	if res.Status != domain.StatusConfirmed || !res.BookingDate.Equal(testNow) {
		t.Fatalf("status = %s date = %v", res.Status, res.BookingDate)
	}
	if res.UserID != "u1" || res.TotalPrice != 950 || len(res.SelectedSeats) != 2 {
		t.Fatalf("snapshot = %+v", res)
	}
	if len(store.created) != 1 {
		t.Fatalf("store creates = %d", len(store.created))
	}

	if s.State().Draft.BookingID != "BK-482913" {
		t.Fatalf("draft booking id not set")
	}

	cached, err := s.Reservations(ctx)
	if err != nil || len(cached) != 1 {
		t.Fatalf("cached = %v err = %v", cached, err)
	}

	if _, err := s.CompleteBooking(ctx); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second complete err = %v, want ErrAlreadyCompleted", err)
	}
}

func TestCompleteBookingRequiresPaymentStep(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{}, "BK-100000")
	mustSeatStep(t, s, ctx, testBus("bus-001"))

	if _, err := s.CompleteBooking(ctx); !errors.Is(err, ErrStepOrder) {
		t.Fatalf("err = %v, want ErrStepOrder", err)
	}
}

func TestCompleteBookingRequiresSeats(t *testing.T) {
	store := &fakeStore{}
	s, ctx := newTestSession(t, store, "BK-100001")
	bus := readyForPayment(t, s, ctx)

	// Deselect everything after the passenger step.
	for _, seat := range bus.Seats[:2] {
		if err := s.ToggleSeatSelection(ctx, seat); err != nil {
			t.Fatal(err)
		}
	}

	st := s.State()
	if st.Step != domain.StepPayment || len(st.Draft.SelectedSeats) != 0 || st.Draft.TotalPrice != 0 {
		t.Fatalf("step = %d seats = %v total = %v", st.Step, st.Draft.SelectedSeats, st.Draft.TotalPrice)
	}

	if _, err := s.CompleteBooking(ctx); !errors.Is(err, ErrStepOrder) {
		t.Fatalf("err = %v, want ErrStepOrder", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("store creates = %d, want 0", len(store.created))
	}
	if s.State().Draft.BookingID != "" {
		t.Fatal("booking id set on rejected completion")
	}
}

func TestCompleteBookingPersistFailureLeavesDraft(t *testing.T) {
	store := &fakeStore{createErr: errors.New("connection refused")}
	s, ctx := newTestSession(t, store, "BK-111111", "BK-222222")
	readyForPayment(t, s, ctx)

	before := s.State()

	_, err := s.CompleteBooking(ctx)
	if !errors.Is(err, ErrBookingPersistFailed) {
		t.Fatalf("err = %v, want ErrBookingPersistFailed", err)
	}

	if after := s.State(); !reflect.DeepEqual(before, after) {
		t.Fatalf("draft changed on failure:\nbefore %+v\nafter  %+v", before, after)
	}
	if cached, _ := s.Reservations(ctx); len(cached) != 0 {
		t.Fatalf("cache grew on failure: %v", cached)
	}

	store.createErr = nil
	res, err := s.CompleteBooking(ctx)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.BookingID != "BK-222222" {
		t.Fatalf("retry id = %s", res.BookingID)
	}
}

func TestRandomBookingIDs(t *testing.T) {
	re := regexp.MustCompile(`^BK-(\d{6})$`)
	gen := NewRandomIDs(42)

	for i := 0; i < 1000; i++ {
		id := gen.NewBookingID()
		m := re.FindStringSubmatch(id)
		if m == nil {
			t.Fatalf("id %q does not match", id)
		}
		n, _ := strconv.Atoi(m[1])
		if n < 100000 || n > 999999 {
			t.Fatalf("id %q out of range", id)
		}
	}

	a, b := NewRandomIDs(7), NewRandomIDs(7)
	if a.NewBookingID() != b.NewBookingID() {
		t.Fatal("same seed produced different ids")
	}
}

func confirmedReservation(id string) domain.Reservation {
	bus := testBus("bus-001")
	return domain.Reservation{
		ID:            id,
		UserID:        "u1",
		From:          "New York",
		To:            "Boston",
		Date:          time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		SelectedBus:   &bus,
		SelectedSeats: bus.Seats[:2],
		Passenger:     domain.Passenger{Name: "Jane Doe"},
		TotalPrice:    950,
		BookingID:     id,
		Status:        domain.StatusConfirmed,
		BookingDate:   testNow,
		PaymentMethod: domain.PaymentOnline,
	}
}

func TestCancelBooking(t *testing.T) {
	store := &fakeStore{listed: []domain.Reservation{confirmedReservation("BK-123456"), confirmedReservation("BK-654321")}}
	s, ctx := newTestSession(t, store)

	if err := s.LoadReservations(ctx); err != nil {
		t.Fatal(err)
	}

	res, err := s.CancelBooking(ctx, "BK-123456")
	if err != nil {
		t.Fatal(err)
	}

	want := confirmedReservation("BK-123456")
	want.Status = domain.StatusCancelled
	if !reflect.DeepEqual(*res, want) {
		t.Fatalf("cancelled = %+v\nwant %+v", *res, want)
	}

	cached, _ := s.Reservations(ctx)
	if cached[0].Status != domain.StatusCancelled || cached[1].Status != domain.StatusConfirmed {
		t.Fatalf("statuses = %s, %s", cached[0].Status, cached[1].Status)
	}

	if _, err := s.CancelBooking(ctx, "BK-123456"); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("second cancel err = %v, want ErrAlreadyCancelled", err)
	}
	if len(store.updates) != 1 {
		t.Fatalf("store updates = %v", store.updates)
	}

	if _, err := s.CancelBooking(ctx, "BK-000000"); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("unknown cancel err = %v, want ErrReservationNotFound", err)
	}
}

func TestCancelBookingFailureKeepsStatus(t *testing.T) {
	store := &fakeStore{
		listed:    []domain.Reservation{confirmedReservation("BK-123456")},
		updateErr: errors.New("timeout"),
	}
	s, ctx := newTestSession(t, store)
	if err := s.LoadReservations(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := s.CancelBooking(ctx, "BK-123456"); !errors.Is(err, ErrCancelFailed) {
		t.Fatalf("err = %v, want ErrCancelFailed", err)
	}

	cached, _ := s.Reservations(ctx)
	if cached[0].Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want Confirmed", cached[0].Status)
	}
}

func TestLoadReservationsFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("boom")}
	s, ctx := newTestSession(t, store)

	if err := s.LoadReservations(ctx); !errors.Is(err, ErrListFailed) {
		t.Fatalf("err = %v, want ErrListFailed", err)
	}
}

func TestDownloadTicket(t *testing.T) {
	store := &fakeStore{listed: []domain.Reservation{confirmedReservation("BK-123456")}}
	s, ctx := newTestSession(t, store)
	if err := s.LoadReservations(ctx); err != nil {
		t.Fatal(err)
	}

	out := &memExporter{}

	ok, err := s.DownloadTicket(ctx, "BK-999999", out)
	if err != nil || ok || out.name != "" {
		t.Fatalf("missing reservation: ok=%v err=%v name=%q", ok, err, out.name)
	}

	ok, err = s.DownloadTicket(ctx, "BK-123456", out)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if out.name != "TravelGlide-Ticket-BK-123456.txt" {
		t.Fatalf("filename = %q", out.name)
	}
	if len(out.content) == 0 {
		t.Fatal("empty ticket")
	}

	if _, err := s.DownloadTicket(ctx, "BK-123456", &memExporter{err: errors.New("disk full")}); !errors.Is(err, ErrExportFailed) {
		t.Fatalf("err = %v, want ErrExportFailed", err)
	}
}

func TestGoBack(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	readyForPayment(t, s, ctx)
	before := s.State().Draft

	if err := s.GoBack(ctx); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Step != domain.StepPassengerInfo {
		t.Fatalf("step = %d", st.Step)
	}
	if !reflect.DeepEqual(before, st.Draft) {
		t.Fatal("GoBack changed the draft")
	}

	for i := 0; i < 10; i++ {
		_ = s.GoBack(ctx)
	}
	if s.Step() != domain.StepSearch {
		t.Fatalf("step = %d, want 1", s.Step())
	}
}

func TestReset(t *testing.T) {
	store := &fakeStore{}
	s, ctx := newTestSession(t, store, "BK-314159")
	readyForPayment(t, s, ctx)
	if _, err := s.CompleteBooking(ctx); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	st := s.State()
	if st.Step != domain.StepSearch {
		t.Fatalf("step = %d", st.Step)
	}
	if !reflect.DeepEqual(st.Draft, initialDraft()) {
		t.Fatalf("draft = %+v, want initial", st.Draft)
	}
	if cached, _ := s.Reservations(ctx); len(cached) != 1 {
		t.Fatalf("reset dropped reservations: %v", cached)
	}

	fresh := NewSession("s2", &fakeGate{}, store, Config{})
	fresh.Reset()
	if !reflect.DeepEqual(fresh.State().Draft, initialDraft()) {
		t.Fatal("reset of fresh session is not initial")
	}
}

func TestStateIsACopy(t *testing.T) {
	s, ctx := newTestSession(t, &fakeStore{})
	bus := testBus("bus-001")
	mustSeatStep(t, s, ctx, bus)
	if err := s.ToggleSeatSelection(ctx, bus.Seats[0]); err != nil {
		t.Fatal(err)
	}

	st := s.State()
	st.Draft.SelectedSeats[0].Price = 1
	st.Draft.SelectedBus.Seats[0].IsBooked = true

	again := s.State()
	if again.Draft.SelectedSeats[0].Price != 450 || again.Draft.SelectedBus.Seats[0].IsBooked {
		t.Fatal("State exposed internal slices")
	}
}
