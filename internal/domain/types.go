package domain

import (
	"time"
)

type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentOnline || m == PaymentCash
}

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "Confirmed"
	StatusCancelled ReservationStatus = "Cancelled"
	StatusPending   ReservationStatus = "Pending"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusPending:
		return true
	}
	return false
}

// Step is the wizard stage a booking session is on.
type Step int

const (
	StepSearch Step = iota + 1
	StepSelectBus
	StepSelectSeats
	StepPassengerInfo
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepSearch:
		return "search"
	case StepSelectBus:
		return "select_bus"
	case StepSelectSeats:
		return "select_seats"
	case StepPassengerInfo:
		return "passenger_info"
	case StepPayment:
		return "payment"
	}
	return "unknown"
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Seat struct {
	ID       string  `json:"id"`
	Number   string  `json:"number"`
	IsBooked bool    `json:"isBooked"`
	Price    float64 `json:"price"`
}

type Bus struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	DepartureTime  string   `json:"departureTime"`
	ArrivalTime    string   `json:"arrivalTime"`
	Duration       string   `json:"duration"`
	Price          float64  `json:"price"`
	SeatsAvailable int      `json:"seatsAvailable"`
	Rating         float64  `json:"rating"`
	BusType        string   `json:"busType"`
	Amenities      []string `json:"amenities"`
	Seats          []Seat   `json:"seats"`
}

// Seat returns the seat with the given id, if the bus has one.
func (b *Bus) Seat(id string) (Seat, bool) {
	for _, s := range b.Seats {
		if s.ID == id {
			return s, true
		}
	}
	return Seat{}, false
}

type Passenger struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// BookingDraft is the in-progress booking owned by a single session.
type BookingDraft struct {
	From          string        `json:"from"`
	To            string        `json:"to"`
	Date          time.Time     `json:"date"`
	SelectedBus   *Bus          `json:"selectedBus"`
	SelectedSeats []Seat        `json:"selectedSeats"`
	Passenger     Passenger     `json:"passenger"`
	TotalPrice    float64       `json:"totalPrice"`
	BookingID     string        `json:"bookingId,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// Reservation is a persisted booking. Only Status changes after creation.
type Reservation struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	From          string            `json:"from"`
	To            string            `json:"to"`
	Date          time.Time         `json:"date"`
	SelectedBus   *Bus              `json:"selectedBus"`
	SelectedSeats []Seat            `json:"selectedSeats"`
	Passenger     Passenger         `json:"passenger"`
	TotalPrice    float64           `json:"totalPrice"`
	BookingID     string            `json:"bookingId"`
	Status        ReservationStatus `json:"status"`
	BookingDate   time.Time         `json:"bookingDate"`
	PaymentMethod PaymentMethod     `json:"paymentMethod"`
}

type Offer struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Discount    int       `json:"discount"`
	ValidUntil  time.Time `json:"validUntil"`
	Description string    `json:"description"`
}
