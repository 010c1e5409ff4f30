package domain

import "time"

const (
	EventReservationConfirmed = "booking.confirmed"
	EventReservationCancelled = "booking.cancelled"
)

// ReservationEvent announces a persisted reservation change.
type ReservationEvent struct {
	Type          string            `json:"type"`
	ReservationID string            `json:"reservation_id"`
	UserID        string            `json:"user_id"`
	Status        ReservationStatus `json:"status"`
	TotalPrice    float64           `json:"total_price"`
	TsUnix        int64             `json:"ts_unix"`
}

func NewReservationEvent(typ string, r Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          typ,
		ReservationID: r.ID,
		UserID:        r.UserID,
		Status:        r.Status,
		TotalPrice:    r.TotalPrice,
		TsUnix:        at.Unix(),
	}
}
