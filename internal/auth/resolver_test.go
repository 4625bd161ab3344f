package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/articlehub/internal/auth"
	"github.com/geocoder89/articlehub/internal/domain/user"
)

func TestResolve_Success(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Hour)

	token, err := m.GenerateAccessToken(7)

	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	reader := &fakeUserReader{
		getByID: func(_ context.Context, id int64) (user.User, error) {
			if id != 7 {
				t.Fatalf("lookup id = %d, want 7", id)
			}
			return user.User{ID: 7, Email: "ana@example.com"}, nil
		},
	}

	resolver := auth.NewResolver(m, reader)

	u, err := resolver.Resolve(context.Background(), token)

	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if u.ID != 7 || u.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestResolve_DeletedUser(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Hour)

	token, err := m.GenerateAccessToken(7)

	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	reader := &fakeUserReader{
		getByID: func(_ context.Context, _ int64) (user.User, error) {
			return user.User{}, user.ErrNotFound
		},
	}

	resolver := auth.NewResolver(m, reader)

	// a valid token whose subject no longer exists is just an invalid token
	_, err = resolver.Resolve(context.Background(), token)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got: %v", err)
	}
}

func TestResolve_ExpiredTokenSkipsLookup(t *testing.T) {
	m := auth.NewManager("test-secret-key", -time.Second)

	token, err := m.GenerateAccessToken(7)

	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	reader := &fakeUserReader{
		getByID: func(_ context.Context, _ int64) (user.User, error) {
			t.Fatalf("store must not be hit for an expired token")
			return user.User{}, nil
		},
	}

	resolver := auth.NewResolver(m, reader)

	_, err = resolver.Resolve(context.Background(), token)

	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got: %v", err)
	}
}
