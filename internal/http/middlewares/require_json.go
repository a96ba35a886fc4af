package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/http/handlers"
)

// RequireJSON rejects write requests whose body is declared as anything
// other than JSON. Bodyless writes pass through untouched; the refresh
// endpoint on the second contract posts with nothing but query params.
func RequireJSON() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if ctx.Request.ContentLength == 0 {
				break
			}

			ct := strings.ToLower(ctx.GetHeader("Content-Type"))
			// allow "application/json; charset=utf-8"
			if !strings.HasPrefix(ct, "application/json") {
				handlers.RespondError(ctx, http.StatusUnsupportedMediaType,
					"unsupported_media_type", "Content-Type must be application/json", nil)
				ctx.Abort()
				return
			}
		}

		ctx.Next()
	}
}
