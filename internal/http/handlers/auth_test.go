package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/geocoder89/articlehub/internal/auth"
	"github.com/geocoder89/articlehub/internal/domain/user"
	"github.com/geocoder89/articlehub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type fakeAuthenticator struct {
	authenticate func(ctx context.Context, email, password string) (user.User, error)
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	return f.authenticate(ctx, email, password)
}

type fakeIssuer struct {
	generate func(userID int64) (string, error)
}

func (f *fakeIssuer) GenerateAccessToken(userID int64) (string, error) {
	return f.generate(userID)
}

func newLoginRouter(authn handlers.Authenticator, issuer handlers.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := handlers.NewAuthHandler(authn, issuer)

	r := gin.New()
	r.POST("/login", h.Login)

	return r
}

func postLoginForm(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestLogin_Success(t *testing.T) {
	authn := &fakeAuthenticator{
		authenticate: func(_ context.Context, email, password string) (user.User, error) {
			if email != "ana@example.com" || password != "s3cret-pass" {
				t.Fatalf("unexpected credentials: %q / %q", email, password)
			}
			return user.User{ID: 7}, nil
		},
	}

	issuer := &fakeIssuer{
		generate: func(userID int64) (string, error) {
			if userID != 7 {
				t.Fatalf("token minted for user %d, want 7", userID)
			}
			return "signed-token", nil
		},
	}

	r := newLoginRouter(authn, issuer)

	w := postLoginForm(r, url.Values{
		"username": {"ana@example.com"},
		"password": {"s3cret-pass"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp handlers.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.AccessToken != "signed-token" {
		t.Fatalf("got access_token %q, want signed-token", resp.AccessToken)
	}

	if resp.TokenType != "bearer" {
		t.Fatalf("got token_type %q, want bearer", resp.TokenType)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	authn := &fakeAuthenticator{
		authenticate: func(_ context.Context, _, _ string) (user.User, error) {
			return user.User{}, auth.ErrInvalidCredentials
		},
	}

	issuer := &fakeIssuer{
		generate: func(_ int64) (string, error) {
			t.Fatalf("no token may be minted for bad credentials")
			return "", nil
		},
	}

	r := newLoginRouter(authn, issuer)

	w := postLoginForm(r, url.Values{
		"username": {"ana@example.com"},
		"password": {"wrong"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	if !strings.Contains(w.Body.String(), "Email or password is incorrect.") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestLogin_InfrastructureFailureIs500(t *testing.T) {
	authn := &fakeAuthenticator{
		authenticate: func(_ context.Context, _, _ string) (user.User, error) {
			return user.User{}, context.DeadlineExceeded
		},
	}

	issuer := &fakeIssuer{
		generate: func(_ int64) (string, error) { return "", nil },
	}

	r := newLoginRouter(authn, issuer)

	w := postLoginForm(r, url.Values{
		"username": {"ana@example.com"},
		"password": {"s3cret-pass"},
	})

	// a DB outage must not be reported as bad credentials
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	authn := &fakeAuthenticator{
		authenticate: func(_ context.Context, _, _ string) (user.User, error) {
			t.Fatalf("authenticator must not run for an invalid form")
			return user.User{}, nil
		},
	}

	issuer := &fakeIssuer{
		generate: func(_ int64) (string, error) { return "", nil },
	}

	r := newLoginRouter(authn, issuer)

	w := postLoginForm(r, url.Values{"username": {"ana@example.com"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}
