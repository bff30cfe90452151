package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/pkg/helpers"
)

const (
	MsgMissingCredentials = "missing credentials"
	MsgInvalidCredentials = "invalid credentials"
	MsgExpiredToken       = "expired or malformed token"
)

// TokenFromHeaders finds the bearer token of a request. The jwt cookie wins
// over an Authorization header. Malformed headers count as absent.
func TokenFromHeaders(h http.Header) (string, bool) {
	for _, line := range h.Values("Cookie") {
		for _, part := range strings.Split(line, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok && name == helpers.TokenCookie && value != "" {
				return value, true
			}
		}
	}

	fields := strings.Fields(h.Get("Authorization"))
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return fields[1], true
	}
	return "", false
}

// Auth rejects requests without a valid token and attaches the Principal to
// the request context otherwise. Every rejection is a 401.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := TokenFromHeaders(c.Request.Header)
		if !ok {
			reject(c, MsgMissingCredentials+": "+c.Request.URL.Path)
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			reject(c, MsgInvalidCredentials)
			return
		}
		p, err := entity.PrincipalFromClaims(claims, time.Now())
		if err != nil {
			reject(c, MsgExpiredToken)
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Set(CtxUserIDKey, p.ID)
		c.Next()
	}
}

func reject(c *gin.Context, msg string) {
	_ = c.Error(apperror.NotAuthorized(msg))
	c.Abort()
}
