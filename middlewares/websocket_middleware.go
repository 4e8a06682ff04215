package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-pos/utils"
)

// WebSocketAuthMiddleware -> autentikasi koneksi websocket lewat query
// string karena browser tidak bisa mengirim header Authorization saat
// upgrade.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		if utils.IsTokenBlacklisted(token) {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("role", claims.Role)
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}
