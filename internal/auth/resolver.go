package auth

import (
	"context"
	"errors"

	"github.com/geocoder89/articlehub/internal/domain/user"
)

// Resolver turns an inbound bearer token into a live user record. A token
// that verifies cryptographically but points at a deleted user resolves to
// nothing.
type Resolver struct {
	jwt   *Manager
	users UserReader
}

func NewResolver(jwt *Manager, users UserReader) *Resolver {
	return &Resolver{jwt: jwt, users: users}
}

func (r *Resolver) Resolve(ctx context.Context, tokenStr string) (user.User, error) {
	userID, err := r.jwt.VerifyAccessToken(tokenStr)

	if err != nil {
		return user.User{}, err
	}

	u, err := r.users.GetByID(ctx, userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrTokenInvalid
		}

		return user.User{}, err
	}

	return u, nil
}
