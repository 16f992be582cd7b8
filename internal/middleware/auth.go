package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-v2/backend/internal/policy"
	"github.com/forkful/forkful-v2/backend/internal/types"
)

// Context key under which the resolved principal is stored.
const PrincipalKey = "principal"

// SessionTokenHeader carries the guest chat session token for anonymous
// callers.
const SessionTokenHeader = "X-Session-Token"

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// RequireAuth validates the Bearer token and stores an authenticated
// principal in the context. Requests without a valid token are rejected.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, validator)
		if !ok {
			return
		}
		c.Set(PrincipalKey, policy.Principal{
			ID:   claims.UserID,
			Role: policy.Role(claims.Role),
		})
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// OptionalAuth resolves a principal without requiring one: a valid Bearer
// token yields an authenticated principal, anything else an anonymous one
// carrying the guest session token header. An invalid token still rejects.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(PrincipalKey, policy.Anonymous(c.GetHeader(SessionTokenHeader)))
			c.Next()
			return
		}
		claims, ok := bearerClaims(c, validator)
		if !ok {
			return
		}
		c.Set(PrincipalKey, policy.Principal{
			ID:   claims.UserID,
			Role: policy.Role(claims.Role),
		})
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, validator TokenValidator) (*types.TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		c.Abort()
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return nil, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		c.Abort()
		return nil, false
	}
	return claims, true
}

// Principal returns the principal stored by RequireAuth or OptionalAuth,
// defaulting to anonymous when neither ran.
func Principal(c *gin.Context) policy.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(policy.Principal); ok {
			return p
		}
	}
	return policy.Anonymous(c.GetHeader(SessionTokenHeader))
}
