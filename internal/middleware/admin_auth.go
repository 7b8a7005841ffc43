package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"contact-intake-api/internal/response"
)

// AdminAuth returns a middleware that guards the read endpoints with a static
// API key. An empty configured key disables the endpoints entirely instead of
// leaving them open.
func AdminAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "管理APIは無効化されています")
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Admin-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "認証に失敗しました")
			c.Abort()
			return
		}

		c.Next()
	}
}
