package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies HS256 tokens with a single secret.
type JWTManager struct {
	secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), TTL: ttl, now: time.Now}
}

// Sign issues a token with payload {_id, iat, exp}.
func (m *JWTManager) Sign(userID string) (string, time.Time, error) {
	iat := m.now()
	exp := iat.Add(m.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": userID,
		"iat": iat.Unix(),
		"exp": exp.Unix(),
	})
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Verify checks the signature and algorithm and returns the decoded payload.
// Payload shape and expiry are left to the caller.
func (m *JWTManager) Verify(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return claims, nil
}
