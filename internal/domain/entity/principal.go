package entity

import (
	"errors"
	"time"
)

var ErrMalformedPrincipal = errors.New("expired or malformed token")

// Principal is the identity decoded from a verified token. It lives for one
// request only.
type Principal struct {
	ID        string
	IssuedAt  int64
	ExpiresAt int64
}

// PrincipalFromClaims checks a decoded token payload against the principal
// shape: string _id, numeric iat and exp, exp strictly after now.
func PrincipalFromClaims(claims map[string]any, now time.Time) (Principal, error) {
	id, ok := claims["_id"].(string)
	if !ok || id == "" {
		return Principal{}, ErrMalformedPrincipal
	}
	iat, ok := numeric(claims["iat"])
	if !ok {
		return Principal{}, ErrMalformedPrincipal
	}
	exp, ok := numeric(claims["exp"])
	if !ok {
		return Principal{}, ErrMalformedPrincipal
	}
	if exp <= now.Unix() {
		return Principal{}, ErrMalformedPrincipal
	}
	return Principal{ID: id, IssuedAt: iat, ExpiresAt: exp}, nil
}

func numeric(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
