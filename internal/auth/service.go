package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

type Service struct {
	dir    *Directory
	issuer *Issuer
	logger *slog.Logger
}

func NewService(dir *Directory, issuer *Issuer, logger *slog.Logger) *Service {
	return &Service{dir: dir, issuer: issuer, logger: logger}
}

// Signup creates an account and returns a token for it.
//
// Returns:
//   - error: auth.ErrEmailTaken if the email is registered.
//   - error: auth.ErrMissingFields if a field is blank.
func (s *Service) Signup(ctx context.Context, name, email, password string) (domain.User, AccessToken, error) {
	const op = "service.auth.Signup"

	u, err := s.dir.Add(name, email, password)
	if err != nil {
		return domain.User{}, AccessToken{}, fmt.Errorf("%s:%w", op, err)
	}

	tok, err := s.issuer.Issue(u)
	if err != nil {
		return domain.User{}, AccessToken{}, fmt.Errorf("%s:%w", op, err)
	}

	s.logger.Info("user signed up", "user_id", u.ID)

	return u, tok, nil
}

// Login returns a token for valid credentials.
//
// Returns:
//   - error: auth.ErrInvalidCredentials if the email or password is wrong.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, AccessToken, error) {
	const op = "service.auth.Login"

	u, err := s.dir.Verify(email, password)
	if err != nil {
		return domain.User{}, AccessToken{}, fmt.Errorf("%s:%w", op, err)
	}

	tok, err := s.issuer.Issue(u)
	if err != nil {
		return domain.User{}, AccessToken{}, fmt.Errorf("%s:%w", op, err)
	}

	return u, tok, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.issuer.Parse(token)
}
