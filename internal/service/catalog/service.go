package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

type Route struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Service is the read-only bus catalog.
type Service struct {
	buses []domain.Bus
}

func New() *Service {
	buses := make([]domain.Bus, 0, len(fleet))
	for _, spec := range fleet {
		buses = append(buses, spec.build())
	}

	return &Service{buses: buses}
}

// Search lists the buses running on a route and date. Every bus in the fleet
// serves every route.
//
// Parameters:
//   - ctx: request-scoped context.
//   - from, to: route endpoints.
//   - date: travel date.
//
// Returns:
//   - []domain.Bus: matching buses.
//   - error: catalog.ErrInvalidSearch if any parameter is missing.
func (s *Service) Search(ctx context.Context, from, to string, date time.Time) ([]domain.Bus, error) {
	const op = "service.catalog.Search"

	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" || date.IsZero() {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidSearch)
	}

	out := make([]domain.Bus, 0, len(s.buses))
	for _, b := range s.buses {
		out = append(out, cloneBus(b))
	}

	return out, nil
}

func (s *Service) GetBus(ctx context.Context, id string) (*domain.Bus, error) {
	const op = "service.catalog.GetBus"

	for _, b := range s.buses {
		if b.ID == id {
			out := cloneBus(b)
			return &out, nil
		}
	}

	return nil, fmt.Errorf("%s:%w", op, ErrBusNotFound)
}

// GetSeat resolves a seat id on the given bus.
func (s *Service) GetSeat(ctx context.Context, busID, seatID string) (domain.Seat, error) {
	const op = "service.catalog.GetSeat"

	b, err := s.GetBus(ctx, busID)
	if err != nil {
		return domain.Seat{}, fmt.Errorf("%s:%w", op, err)
	}

	seat, ok := b.Seat(seatID)
	if !ok {
		return domain.Seat{}, fmt.Errorf("%s:%w", op, ErrSeatNotFound)
	}

	return seat, nil
}

func (s *Service) Offers(ctx context.Context) []domain.Offer {
	return slices.Clone(offers)
}

func (s *Service) PopularRoutes(ctx context.Context) []Route {
	return slices.Clone(popularRoutes)
}

func cloneBus(b domain.Bus) domain.Bus {
	b.Seats = slices.Clone(b.Seats)
	b.Amenities = slices.Clone(b.Amenities)
	return b
}
