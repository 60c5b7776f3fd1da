package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pixelpursuit/pixelpursuit-api/internal/application"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/apperror"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/helpers"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/response"
)

const principalKey = "principal"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (helpers.TokenClaims, error)
}

// Authenticate requires an "Authorization: Bearer <token>" header and attaches
// the verified principal to the context.
func Authenticate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, application.ErrMissingCredential)
			return
		}
		claims, err := v.VerifyToken(token)
		if err != nil {
			abort(c, application.ErrInvalidCredential)
			return
		}
		c.Set(principalKey, application.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// RestrictTo lets the request through only when the attached principal has
// one of roles. It must run after Authenticate.
func RestrictTo(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, application.ErrMissingCredential)
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		abort(c, application.ErrForbidden)
	}
}

// PrincipalFrom returns the principal attached by Authenticate.
func PrincipalFrom(c *gin.Context) (application.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return application.Principal{}, false
	}
	p, ok := v.(application.Principal)
	return p, ok
}

// WithPrincipal adapts a handler that needs the caller. Requests without a
// principal are rejected as unauthenticated.
func WithPrincipal(h func(c *gin.Context, p application.Principal)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, application.ErrMissingCredential)
			return
		}
		h(c, p)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abort(c *gin.Context, err *apperror.Error) {
	status := http.StatusUnauthorized
	if err.Kind == apperror.KindAuthorization {
		status = http.StatusForbidden
	}
	response.Error[any](c, status, err.Message, nil)
}
