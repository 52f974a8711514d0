package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swiftship/parcel-service/pkg/utils"
)

const userContextKey = "currentUser"

// AuthMiddleware authenticates the request from a Bearer token. The
// token may also arrive as a query parameter for WebSocket upgrades,
// where custom headers are not available.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header or token query parameter required"})
			c.Abort()
			return
		}

		user, err := utils.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				c.JSON(401, gin.H{"error": "Token expired"})
			} else {
				c.JSON(401, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the identity stored by AuthMiddleware.
func CurrentUser(c *gin.Context) utils.UserContext {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(utils.UserContext); ok {
			return user
		}
	}
	return utils.UserContext{}
}
