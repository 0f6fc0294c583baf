package service

import (
	"context"
	"strings"

	"careerflow-api/internal/core/auth"
	"careerflow-api/internal/domain"
)

// Tokens issues and verifies bearer tokens; *auth.JWTer satisfies it.
type Tokens interface {
	Issue(uid string) (string, error)
	Parse(token string) (*auth.Claims, error)
}

// Gate turns a bearer token into the caller's current account.
type Gate struct {
	tokens   Tokens
	accounts domain.AccountRepository
}

func NewGate(tokens Tokens, accounts domain.AccountRepository) *Gate {
	return &Gate{tokens: tokens, accounts: accounts}
}

// Resolve verifies token and loads the account fresh from the store so
// role or profile changes apply immediately.
func (g *Gate) Resolve(ctx context.Context, token string) (*domain.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.Unauthenticated("missing token")
	}
	claims, err := g.tokens.Parse(token)
	if err != nil || claims.UID == "" {
		return nil, domain.Unauthenticated("invalid or expired token")
	}
	acct, err := g.accounts.FindByID(ctx, claims.UID)
	if err != nil {
		return nil, domain.Internal("load account", err)
	}
	if acct == nil {
		return nil, domain.Unauthenticated("account no longer exists")
	}
	return acct, nil
}

func RequireRole(acct *domain.Account, roles ...domain.Role) error {
	if acct == nil {
		return domain.Unauthenticated("authentication required")
	}
	if !acct.HasRole(roles...) {
		return domain.Forbidden("role not permitted")
	}
	return nil
}

func RequireOwnerOrAdmin(acct *domain.Account, ownerID string) error {
	if acct == nil {
		return domain.Unauthenticated("authentication required")
	}
	if acct.IsAdmin() || acct.ID == ownerID {
		return nil
	}
	return domain.Forbidden("not the owner")
}
