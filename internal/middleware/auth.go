// Package middleware carries the HTTP middleware shared across routes.
package middleware

import (
	"net/http"
	"time"

	"recipebook/internal/auth"

	"github.com/gin-gonic/gin"
)

// SessionGuard rejects requests while no live session exists. Guarded
// handlers can read the user identity from the gin context.
func SessionGuard(orch *auth.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := orch.CurrentSession()
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized: not logged in",
			})
			return
		}

		// The timer normally ends the session first, but check anyway in
		// case a request races the expiry callback.
		if time.Now().After(sess.ExpirationDate) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized: session expired",
			})
			return
		}

		c.Set("user_id", sess.UserID)
		c.Set("email", sess.Email)

		c.Next()
	}
}
