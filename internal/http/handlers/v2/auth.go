package v2

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/observability"
)

// TokenIssuer mints the opaque placeholder token pairs.
type TokenIssuer interface {
	Pair(userID string) (token, refreshToken string)
	RefreshedPair() (token, refreshToken string)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginResponse struct {
	Success      bool      `json:"success"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int       `json:"expiresIn"`
	User         LoginUser `json:"user"`
}

type AuthHandler struct {
	store   UserStore
	tokens  TokenIssuer
	metrics *observability.Prom
	now     func() time.Time
}

func NewAuthHandler(store UserStore, tokens TokenIssuer, metrics *observability.Prom) *AuthHandler {
	return &AuthHandler{
		store:   store,
		tokens:  tokens,
		metrics: metrics,
		now:     time.Now,
	}
}

func (h *AuthHandler) loginAttempt(result string) {
	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues(result).Inc()
	}
}

// Login scans the store by contact and compares the password by exact
// string equality. Unknown contact and wrong password surface the same
// message.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !handlers.BindJSON(ctx, &req) {
		return
	}

	found, err := h.store.FindByContact(req.Email)

	if err != nil || found.Password != req.Password {
		h.loginAttempt("rejected")
		handlers.RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials")
		return
	}

	token, refreshToken := h.tokens.Pair(found.ID)
	h.loginAttempt("ok")

	ctx.JSON(http.StatusOK, LoginResponse{
		Success:      true,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresIn:    auth.ExpiresInSeconds,
		User: LoginUser{
			ID:    found.ID,
			Email: found.Contact,
			Name:  found.Name,
		},
	})
}

// Refresh checks the presented token structurally and mints a fresh
// pair. Any string with the refresh prefix passes, issued or not.
// This variant reads the token from the query string, not a JSON body.
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	refreshToken := ctx.Query("refresh_token")

	if refreshToken == "" {
		handlers.RespondBadRequest(ctx, "Missing refresh_token parameter", nil)
		return
	}

	if !auth.IsRefreshToken(refreshToken) {
		handlers.RespondUnAuthorized(ctx, "invalid_refresh", "Invalid refresh token")
		return
	}

	token, refreshToken := h.tokens.RefreshedPair()

	ctx.JSON(http.StatusOK, gin.H{
		"token":        token,
		"refreshToken": refreshToken,
		"expiresIn":    auth.ExpiresInSeconds,
	})
}

// Profile checks the token structurally and always returns the first
// fixture record; it never resolves the token to its actual owner.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	token := ctx.Query("token")

	if !auth.IsAccessToken(token) {
		handlers.RespondUnAuthorized(ctx, "invalid_token", "Invalid token")
		return
	}

	rec, err := h.store.Get("user1")

	if err != nil {
		handlers.RespondInternal(ctx, "Could not fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":         rec.ID,
		"email":      rec.Contact,
		"name":       rec.Name,
		"mobile":     rec.Phone,
		"created_at": rec.CreatedAt,
		"lastLogin":  user.Timestamp(h.now()),
	})
}
