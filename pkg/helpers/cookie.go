package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TokenCookie carries the session token for browser clients.
const TokenCookie = "jwt"

// Manager writes the token cookie. It is always httpOnly and scoped to "/".
type Manager struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure, SameSite: http.SameSiteLaxMode}
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookie,
		Value:    value,
		Path:     "/",
		Domain:   m.Domain,
		MaxAge:   maxAge,
		Secure:   m.Secure,
		HttpOnly: true,
		SameSite: m.SameSite,
	}
}

// SetToken lives exactly as long as the token: Max-Age is the time left
// until exp.
func (m *Manager) SetToken(c *gin.Context, token string, exp time.Time) {
	left := int(time.Until(exp) / time.Second)
	if left <= 0 {
		m.Clear(c)
		return
	}
	http.SetCookie(c.Writer, m.cookie(token, left))
}

func (m *Manager) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, m.cookie("", -1))
}
