package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

type claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type AccessToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issuer signs and parses HS256 access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(u domain.User) (AccessToken, error) {
	const op = "auth.Issuer.Issue"

	now := i.now().UTC()
	exp := now.Add(i.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("%s:%w", op, err)
	}

	return AccessToken{Token: signed, ExpiresAt: exp}, nil
}

// Parse validates a token and returns the user it was issued for.
func (i *Issuer) Parse(raw string) (*domain.User, error) {
	const op = "auth.Issuer.Parse"

	var c claims
	tok, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid || c.Subject == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	return &domain.User{ID: c.Subject, Email: c.Email, Name: c.Name}, nil
}
