package service

import (
	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/types"
)

// TokenValidator is the slice of AuthService the middleware needs.
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// TokenIssuer is used by handlers and tests that mint tokens.
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
}
