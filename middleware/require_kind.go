package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/models"
)

// RequireKind authenticates the request, then allows only the given
// principal kind. Admin and student are disjoint: neither satisfies the
// other's check.
func RequireKind(authn Authenticator, kind models.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, authn)
		if !ok {
			return
		}
		if claims.Kind != kind {
			msg := "Student access required"
			if kind == models.KindAdmin {
				msg = "Admin access required"
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}
