package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/domain/user"
)

// Version is the wire-visible API version reported by / and
// /api/status.
const Version = "1.0.0"

// StoreSizer is the slice of the user store the info endpoints need.
type StoreSizer interface {
	Len() int
}

type InfoHandler struct {
	store StoreSizer
	now   func() time.Time
}

func NewInfoHandler(store StoreSizer) *InfoHandler {
	return &InfoHandler{store: store, now: time.Now}
}

// Root serves the liveness/info payload.
func (h *InfoHandler) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "User API is running",
		"version": Version,
		"endpoints": []string{
			"GET /users/{id}",
			"POST /users",
			"POST /login",
			"GET /health",
		},
	})
}

func (h *InfoHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Status reports aggregate metadata: version, current timestamp and
// store size.
func (h *InfoHandler) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":      "running",
		"version":     Version,
		"timestamp":   user.Timestamp(h.now()),
		"users_count": h.store.Len(),
	})
}
