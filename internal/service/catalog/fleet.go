package catalog

import (
	"fmt"
	"slices"
	"time"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

// Premium seats (the first of every group of four) cost this much more than
// the bus base fare.
const premiumSurcharge = 50.0

type busSpec struct {
	id, name           string
	departure, arrival string
	duration           string
	price              float64
	rating             float64
	busType            string
	amenities          []string
	totalSeats         int
	booked             []int
}

var fleet = []busSpec{
	{
		id: "bus-001", name: "TravelGlide Express",
		departure: "07:00", arrival: "11:30", duration: "4h 30m",
		price: 450, rating: 4.8, busType: "Volvo AC Sleeper",
		amenities:  []string{"WiFi", "USB Charging", "Air Conditioning", "Snacks"},
		totalSeats: 30, booked: []int{1, 4, 8, 12, 20},
	},
	{
		id: "bus-002", name: "WonderTour Deluxe",
		departure: "09:30", arrival: "14:45", duration: "5h 15m",
		price: 380, rating: 4.5, busType: "AC Seater",
		amenities:  []string{"WiFi", "Air Conditioning", "Blankets"},
		totalSeats: 25, booked: []int{2, 5, 9, 13, 17, 21, 22},
	},
	{
		id: "bus-003", name: "FleetCruise Premium",
		departure: "14:00", arrival: "19:15", duration: "5h 15m",
		price: 500, rating: 4.9, busType: "Volvo AC Sleeper Premium",
		amenities:  []string{"WiFi", "USB Charging", "Air Conditioning", "TV", "Food"},
		totalSeats: 28, booked: []int{3, 7, 11, 15, 23, 24},
	},
	{
		id: "bus-004", name: "RapidCoach Standard",
		departure: "18:30", arrival: "23:00", duration: "4h 30m",
		price: 320, rating: 4.2, busType: "Non-AC Sleeper",
		amenities:  []string{"Air Conditioning"},
		totalSeats: 35, booked: []int{6, 10, 14, 19, 25, 28, 32},
	},
	{
		id: "bus-005", name: "OceanTour Luxury",
		departure: "22:00", arrival: "04:30", duration: "6h 30m",
		price: 550, rating: 4.7, busType: "Volvo AC Sleeper Luxury",
		amenities:  []string{"WiFi", "USB Charging", "Air Conditioning", "Blankets", "Pillows", "Snacks", "Washroom"},
		totalSeats: 20, booked: []int{2, 8, 13, 16},
	},
}

var offers = []domain.Offer{
	{
		ID: "offer1", Title: "First Trip Discount", Code: "FIRST10", Discount: 10,
		ValidUntil:  time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		Description: "Get 10% off on your first booking with TravelGlide",
	},
	{
		ID: "offer2", Title: "Weekend Special", Code: "WEEKEND20", Discount: 20,
		ValidUntil:  time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		Description: "Enjoy 20% off on weekend travels",
	},
	{
		ID: "offer3", Title: "Summer Vacation Offer", Code: "SUMMER15", Discount: 15,
		ValidUntil:  time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC),
		Description: "15% discount on all summer bookings",
	},
}

var popularRoutes = []Route{
	{From: "New York", To: "Boston"},
	{From: "Los Angeles", To: "San Francisco"},
	{From: "Chicago", To: "Detroit"},
	{From: "Miami", To: "Orlando"},
	{From: "Seattle", To: "Portland"},
	{From: "Austin", To: "Houston"},
}

func (b busSpec) build() domain.Bus {
	seats := make([]domain.Seat, 0, b.totalSeats)
	for i := 1; i <= b.totalSeats; i++ {
		number := fmt.Sprintf("%02d", i)

		price := b.price
		if i%4 == 1 {
			price += premiumSurcharge
		}

		seats = append(seats, domain.Seat{
			ID:       fmt.Sprintf("%s-seat-%s", b.id, number),
			Number:   number,
			IsBooked: slices.Contains(b.booked, i),
			Price:    price,
		})
	}

	return domain.Bus{
		ID:             b.id,
		Name:           b.name,
		DepartureTime:  b.departure,
		ArrivalTime:    b.arrival,
		Duration:       b.duration,
		Price:          b.price,
		SeatsAvailable: b.totalSeats - len(b.booked),
		Rating:         b.rating,
		BusType:        b.busType,
		Amenities:      slices.Clone(b.amenities),
		Seats:          seats,
	}
}
