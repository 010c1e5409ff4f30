package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

// ReservationsPubSub broadcasts reservation changes to every process that
// shares the Redis instance.
type ReservationsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewReservationsPubSub(rdb *redis.Client) *ReservationsPubSub {
	return &ReservationsPubSub{
		rdb:     rdb,
		channel: ChannelReservationsChanged(),
	}
}

func (p *ReservationsPubSub) Publish(ctx context.Context, ev domain.ReservationEvent) error {
	const op = "redis.ReservationsPubSub.Publish"

	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Subscribe blocks until ctx is done, calling handler for every well-formed
// event. Malformed payloads are skipped.
func (p *ReservationsPubSub) Subscribe(
	ctx context.Context,
	handler func(ctx context.Context, ev domain.ReservationEvent),
) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.ReservationEvent
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.UserID != "" {
				handler(ctx, ev)
			}
		}
	}
}
