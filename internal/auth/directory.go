package auth

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

type account struct {
	user domain.User
	hash []byte
}

// Directory is an in-memory user registry keyed by lower-cased email.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]account
	cost     int
}

func NewDirectory(cost int) *Directory {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}

	return &Directory{
		accounts: make(map[string]account),
		cost:     cost,
	}
}

// userNamespace scopes user ids derived from email addresses.
var userNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:travelglide:users"))

// UserID derives the id of the account registered under email. The id only
// depends on the normalized email, so reservations keyed by it stay reachable
// across restarts of the in-memory directory.
func UserID(email string) string {
	return uuid.NewSHA1(userNamespace, []byte(normalizeEmail(email))).String()
}

// Add registers a user and returns it with an id derived from its email.
func (d *Directory) Add(name, email, password string) (domain.User, error) {
	const op = "auth.Directory.Add"

	key := normalizeEmail(email)
	if strings.TrimSpace(name) == "" || key == "" || password == "" {
		return domain.User{}, fmt.Errorf("%s:%w", op, ErrMissingFields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s:%w", op, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[key]; ok {
		return domain.User{}, fmt.Errorf("%s:%w", op, ErrEmailTaken)
	}

	u := domain.User{ID: UserID(key), Email: key, Name: strings.TrimSpace(name)}
	d.accounts[key] = account{user: u, hash: hash}

	return u, nil
}

// Verify checks a password and returns the matching user.
func (d *Directory) Verify(email, password string) (domain.User, error) {
	const op = "auth.Directory.Verify"

	d.mu.RLock()
	acc, ok := d.accounts[normalizeEmail(email)]
	d.mu.RUnlock()

	if !ok {
		return domain.User{}, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return domain.User{}, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	return acc.user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
