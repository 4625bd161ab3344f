package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/articlehub/internal/domain/user"
	"github.com/geocoder89/articlehub/internal/security"
	"golang.org/x/crypto/bcrypt"
)

// Keep this small interface so tests can fake it easily.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}

// dummyHash is a real bcrypt hash of a random string. When the email does
// not exist we still run one compare against it so the unknown-email path
// costs the same as the wrong-password path.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Authenticator struct {
	users UserReader
}

func NewAuthenticator(users UserReader) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate looks the user up by email and verifies the password.
// Unknown email and wrong password are indistinguishable to the caller:
// both return ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	email = NormalizeEmail(email)

	u, err := a.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return user.User{}, ErrInvalidCredentials
		}

		return user.User{}, err
	}

	ok, err := security.CheckPassword(u.PasswordHash, password)

	if err != nil {
		// corrupt stored hash; propagate so it gets logged, never shown
		return user.User{}, err
	}

	if !ok {
		return user.User{}, ErrInvalidCredentials
	}

	return u, nil
}

// NormalizeEmail is the single place deciding email case sensitivity:
// lookups and stored emails are lower-cased and trimmed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
