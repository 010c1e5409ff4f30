package httpgin

import (
	"time"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/booking"
	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

const dateLayout = "2006-01-02"

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SearchRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
}

type SelectBusRequest struct {
	BusID string `json:"busId" binding:"required"`
}

type PassengerRequest struct {
	Name          string `json:"name"`
	Age           string `json:"age"`
	Gender        string `json:"gender"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	TermsAccepted bool   `json:"termsAccepted"`
}

func (r PassengerRequest) passenger() domain.Passenger {
	return domain.Passenger{
		Name:   r.Name,
		Age:    r.Age,
		Gender: r.Gender,
		Email:  r.Email,
		Phone:  r.Phone,
	}
}

type PaymentMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type AuthResponse struct {
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type SessionResponse struct {
	ID            string              `json:"id"`
	Step          int                 `json:"step"`
	StepName      string              `json:"stepName"`
	Draft         domain.BookingDraft `json:"draft"`
	CheckoutTotal float64             `json:"checkoutTotal"`
	ServiceFee    float64             `json:"serviceFee"`
}

func sessionResponse(s *booking.Session) SessionResponse {
	st := s.State()

	return SessionResponse{
		ID:            s.ID(),
		Step:          int(st.Step),
		StepName:      st.Step.String(),
		Draft:         st.Draft,
		CheckoutTotal: st.CheckoutTotal,
		ServiceFee:    booking.ServiceFee,
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
