package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/sloka-backend/models"
	"github.com/vnkhanh/sloka-backend/services"
)

const (
	CtxPrincipalEmail = "principal_email"
	CtxPrincipalKind  = "principal_kind"
)

// Authenticator verifies a raw bearer token.
type Authenticator interface {
	Authenticate(token string) (*services.Claims, error)
}

// bearerToken returns the token, or a client-facing reason when absent.
func bearerToken(c *gin.Context) (token, reason string) {
	authHeader := c.GetHeader("Authorization")
	// some mobile clients strip Authorization on redirects
	if authHeader == "" {
		authHeader = c.GetHeader("X-Auth-Token")
	}
	if authHeader == "" {
		return "", "Missing Authorization header"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "Authorization header must be Bearer <token>"
	}
	return strings.TrimSpace(parts[1]), ""
}

// authenticate verifies the bearer token and stores the principal in the gin
// context. On failure it aborts with 401 and returns false. It never calls
// c.Next, so callers decide when the chain continues.
func authenticate(c *gin.Context, authn Authenticator) (*services.Claims, bool) {
	token, reason := bearerToken(c)
	if reason != "" {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
		return nil, false
	}

	claims, err := authn.Authenticate(token)
	if err != nil {
		msg := "Could not validate credentials"
		if errors.Is(err, services.ErrTokenExpired) {
			msg = "Token has expired"
		}
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return nil, false
	}

	c.Set(CtxPrincipalEmail, claims.Email())
	c.Set(CtxPrincipalKind, claims.Kind)
	return claims, true
}

// AuthMiddleware rejects requests without a valid bearer token with 401 and
// stores the principal in the gin context.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, authn); !ok {
			return
		}
		c.Next()
	}
}

// Principal reads what AuthMiddleware stored.
func Principal(c *gin.Context) (string, models.PrincipalKind, bool) {
	email := c.GetString(CtxPrincipalEmail)
	kind, ok := c.Get(CtxPrincipalKind)
	if !ok || email == "" {
		return "", "", false
	}
	k, ok := kind.(models.PrincipalKind)
	return email, k, ok
}
