package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

const reservationColumns = `id, user_id, from_city, to_city, travel_date, bus, seats,
	passenger, total_price, booking_id, status, booking_date, payment_method`

type ReservationRepo struct {
	pool *pgxpool.Pool
}

// ListByUser returns a user's reservations, oldest booking first.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - userID: owner of the reservations.
//
// Returns:
//   - []domain.Reservation: the reservations, empty if the user has none.
//   - error: if the query fails.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	const op = "postgresrepo.ReservationRepo.ListByUser"

	db := handle(ctx, r.pool)

	rows, err := db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE user_id = $1
		 ORDER BY booking_date, id`,
		userID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	out := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Insert stores a new reservation.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - res: the reservation; its id must be unused.
//
// Returns:
//   - error: repository.ErrConflict if the id is taken.
func (r *ReservationRepo) Insert(ctx context.Context, res domain.Reservation) error {
	const op = "postgresrepo.ReservationRepo.Insert"

	db := handle(ctx, r.pool)

	bus, seats, passenger, err := encodeSnapshots(res)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO reservations(`+reservationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		res.ID, res.UserID, res.From, res.To, res.Date,
		bus, seats, passenger,
		res.TotalPrice, res.BookingID, string(res.Status), res.BookingDate,
		string(res.PaymentMethod),
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// SetStatus changes the status of a reservation that is not cancelled yet.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - userID: owner of the reservation.
//   - id: reservation id.
//   - status: new status.
//
// Returns:
//   - *domain.Reservation: the updated reservation.
//   - error: repository.ErrNotFound if no live reservation matches.
func (r *ReservationRepo) SetStatus(
	ctx context.Context,
	userID, id string,
	status domain.ReservationStatus,
) (*domain.Reservation, error) {
	const op = "postgresrepo.ReservationRepo.SetStatus"

	db := handle(ctx, r.pool)

	row := db.QueryRow(ctx,
		`UPDATE reservations
		 SET status = $3
		 WHERE id = $1 AND user_id = $2 AND status <> 'Cancelled'
		 RETURNING `+reservationColumns,
		id, userID, string(status),
	)

	res, err := scanReservation(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

func encodeSnapshots(res domain.Reservation) (bus, seats, passenger []byte, err error) {
	if bus, err = json.Marshal(res.SelectedBus); err != nil {
		return nil, nil, nil, err
	}

	selected := res.SelectedSeats
	if selected == nil {
		selected = []domain.Seat{}
	}
	if seats, err = json.Marshal(selected); err != nil {
		return nil, nil, nil, err
	}

	if passenger, err = json.Marshal(res.Passenger); err != nil {
		return nil, nil, nil, err
	}

	return bus, seats, passenger, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		res                   domain.Reservation
		bus, seats, passenger []byte
		status, method        string
	)

	if err := row.Scan(
		&res.ID, &res.UserID, &res.From, &res.To, &res.Date,
		&bus, &seats, &passenger,
		&res.TotalPrice, &res.BookingID, &status, &res.BookingDate, &method,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(bus, &res.SelectedBus); err != nil {
		return nil, fmt.Errorf("decode bus: %w", err)
	}
	if err := json.Unmarshal(seats, &res.SelectedSeats); err != nil {
		return nil, fmt.Errorf("decode seats: %w", err)
	}
	if err := json.Unmarshal(passenger, &res.Passenger); err != nil {
		return nil, fmt.Errorf("decode passenger: %w", err)
	}

	res.Status = domain.ReservationStatus(status)
	res.PaymentMethod = domain.PaymentMethod(method)

	return &res, nil
}
