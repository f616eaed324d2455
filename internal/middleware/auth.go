package middleware

import (
	"net/http"
	"strings"

	"commflock/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// TokenStore checks the stored access token for a user; backed by redis in
// production so sessions can be revoked server side.
type TokenStore interface {
	GetUserToken(usrID uint64) (string, error)
	ExtendUserToken(usrID uint64) error
}

func AuthMiddleware(tokens TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header", "kind": "unauthorized"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format", "kind": "unauthorized"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token", "kind": "unauthorized"})
			c.Abort()
			return
		}

		// the token must match the stored session; a newer login replaces it
		originToken, err := tokens.GetUserToken(claims.UserID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "session expired or signed in elsewhere", "kind": "unauthorized"})
			c.Abort()
			return
		}

		if err = tokens.ExtendUserToken(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal error", "kind": "internal"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}
