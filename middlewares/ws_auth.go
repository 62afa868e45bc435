// middlewares/ws_auth.go
package middlewares

import (
	"strings"

	"backend/utils"

	"github.com/gin-gonic/gin"
)

// WSAuthMiddleware reads an optional JWT from the query string or the
// Authorization header. Unlike AuthMiddleware it never aborts: the
// websocket endpoint accepts anonymous connections, which authenticate
// in-band with the handshake message. A valid token just tags the
// connection up front.
func WSAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		if t := c.Query("token"); t != "" {
			tokenStr = t
		} else {
			h := c.GetHeader("Authorization")
			if h != "" && strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}

		if tokenStr != "" {
			if claims, err := utils.ParseToken(tokenStr, secret); err == nil {
				c.Set("userId", claims.UserID)
				c.Set("role", claims.Role)
			}
		}

		c.Next()
	}
}
