package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

// ServiceFee is added to the draft total on checkout screens only. Stored
// totals never include it.
const ServiceFee = 50.0

// CheckoutTotal is the amount shown at payment and confirmation.
func CheckoutTotal(d domain.BookingDraft) float64 {
	return d.TotalPrice + ServiceFee
}

// TicketExporter receives rendered tickets, e.g. to write them to disk or
// stream them to a client.
type TicketExporter interface {
	Export(ctx context.Context, filename string, content []byte) error
}

func TicketFilename(appName, bookingID string) string {
	return fmt.Sprintf("%s-Ticket-%s.txt", appName, bookingID)
}

// RenderTicket formats a reservation as a plain-text e-ticket.
func RenderTicket(appName string, r domain.Reservation) string {
	date := "N/A"
	if !r.Date.IsZero() {
		date = r.Date.Format("2006-01-02")
	}

	departure, arrival := "N/A", "N/A"
	if r.SelectedBus != nil {
		if r.SelectedBus.DepartureTime != "" {
			departure = r.SelectedBus.DepartureTime
		}
		if r.SelectedBus.ArrivalTime != "" {
			arrival = r.SelectedBus.ArrivalTime
		}
	}

	numbers := make([]string, 0, len(r.SelectedSeats))
	for _, s := range r.SelectedSeats {
		numbers = append(numbers, s.Number)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "===== %s E-TICKET =====\n\n", strings.ToUpper(appName))
	fmt.Fprintf(&b, "BOOKING ID: %s\n\n", r.BookingID)
	fmt.Fprintf(&b, "FROM: %s\n", r.From)
	fmt.Fprintf(&b, "TO: %s\n", r.To)
	fmt.Fprintf(&b, "DATE: %s\n", date)
	fmt.Fprintf(&b, "TIME: %s - %s\n\n", departure, arrival)
	fmt.Fprintf(&b, "PASSENGER: %s\n", r.Passenger.Name)
	fmt.Fprintf(&b, "SEAT(S): %s\n\n", strings.Join(numbers, ", "))
	fmt.Fprintf(&b, "TOTAL PAID: ₹%.2f\n", r.TotalPrice)
	fmt.Fprintf(&b, "PAYMENT METHOD: %s\n\n", r.PaymentMethod)
	fmt.Fprintf(&b, "==== Thank you for choosing %s ====\n", appName)

	return b.String()
}
