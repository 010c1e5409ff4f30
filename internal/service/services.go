package service

import (
	"github.com/Rohinijk/travel-glide-tickets-online/internal/auth"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/booking"
	redisrepo "github.com/Rohinijk/travel-glide-tickets-online/internal/repository/redis"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/service/catalog"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/service/reservation"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/uow"
)

type Services struct {
	Auth         *auth.Service
	Catalog      *catalog.Service
	Reservations *reservation.Service
	Sessions     *booking.Registry
}

type Config struct {
	Reservation reservation.Config
	Booking     booking.Config
}

// NewServices wires the booking sessions to the reservation service, which
// in turn writes through repo inside transactions run by tx. cache and
// limiter may be nil.
func NewServices(
	tx uow.TxRunner,
	repo reservation.Repository,
	cache *redisrepo.Cache,
	limiter reservation.Limiter,
	publishers []reservation.Publisher,
	authSvc *auth.Service,
	cfg Config,
) *Services {
	reservations := reservation.New(tx, repo, cache, limiter, publishers, cfg.Reservation)

	return &Services{
		Auth:         authSvc,
		Catalog:      catalog.New(),
		Reservations: reservations,
		Sessions:     booking.NewRegistry(auth.Gate{}, reservations, cfg.Booking),
	}
}
