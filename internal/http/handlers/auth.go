package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/articlehub/internal/auth"
	"github.com/geocoder89/articlehub/internal/config"
	"github.com/geocoder89/articlehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID int64) (string, error)
}

type AuthHandler struct {
	authn Authenticator
	jwt   TokenIssuer
}

func NewAuthHandler(authn Authenticator, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		authn: authn,
		jwt:   jwt,
	}
}

// OAuth2 password form: the email travels in the username field.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login verifies credentials and issues a bearer token. The failure body
// is one generic 400 regardless of whether the email exists or the
// password was wrong.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var form LoginForm

	if !BindForm(ctx, &form) {
		return
	}

	// short timeout for DB lookup plus the bcrypt compare
	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	foundUser, err := h.authn.Authenticate(cctx, form.Username, form.Password)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			RespondBadRequest(ctx, "Email or password is incorrect.", nil)
			return
		}

		// corrupt hash or DB failure; keep the body generic
		RespondInternal(ctx, "Could not log in")
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}
