package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"careerflow-api/internal/domain"
	resp "careerflow-api/internal/transport/http/response"
)

const (
	ctxAccount   = "account"
	ctxAuthError = "authError"
)

// Resolver turns a bearer token into the current account; *service.Gate satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.Account, error)
}

func bearer(c *gin.Context) string {
	ah := c.GetHeader("Authorization")
	if len(ah) < 7 || !strings.EqualFold(ah[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[7:])
}

// Authenticate resolves the bearer token. With required=false a missing or
// bad token leaves the request anonymous and RequireAuth decides later.
func Authenticate(r Resolver, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" {
			if required {
				resp.Fail(c, domain.Unauthenticated("missing token"))
				return
			}
			c.Next()
			return
		}
		acct, err := r.Resolve(c.Request.Context(), tok)
		if err != nil {
			if required || !domain.IsKind(err, domain.KindUnauthenticated) {
				resp.Fail(c, err)
				return
			}
			c.Set(ctxAuthError, err)
			c.Next()
			return
		}
		c.Set(ctxAccount, acct)
		c.Next()
	}
}

// CurrentAccount returns the authenticated caller or nil.
func CurrentAccount(c *gin.Context) *domain.Account {
	if v, ok := c.Get(ctxAccount); ok {
		if a, ok := v.(*domain.Account); ok {
			return a
		}
	}
	return nil
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticated(c) {
			return
		}
		c.Next()
	}
}

// authenticated aborts with the stored auth error when nobody is signed in.
func authenticated(c *gin.Context) bool {
	if CurrentAccount(c) != nil {
		return true
	}
	if v, ok := c.Get(ctxAuthError); ok {
		if err, ok := v.(error); ok {
			resp.Fail(c, err)
			return false
		}
	}
	resp.Fail(c, domain.Unauthenticated("authentication required"))
	return false
}

// RequireRoles implies RequireAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticated(c) {
			return
		}
		if !CurrentAccount(c).HasRole(roles...) {
			resp.Fail(c, domain.Forbidden("role not permitted"))
			return
		}
		c.Next()
	}
}
