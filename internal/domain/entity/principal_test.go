package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalFromClaims(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	future := float64(now.Add(time.Hour).Unix())

	t.Run("valid", func(t *testing.T) {
		p, err := PrincipalFromClaims(map[string]any{"_id": "u1", "iat": float64(now.Unix()), "exp": future}, now)
		require.NoError(t, err)
		assert.Equal(t, "u1", p.ID)
		assert.Equal(t, now.Unix(), p.IssuedAt)
		assert.Equal(t, int64(future), p.ExpiresAt)
	})

	bad := map[string]map[string]any{
		"missing id":     {"iat": 1.0, "exp": future},
		"numeric id":     {"_id": 7.0, "iat": 1.0, "exp": future},
		"string iat":     {"_id": "u1", "iat": "1", "exp": future},
		"missing exp":    {"_id": "u1", "iat": 1.0},
		"expired":        {"_id": "u1", "iat": 1.0, "exp": float64(now.Unix() - 1)},
		"expires at now": {"_id": "u1", "iat": 1.0, "exp": float64(now.Unix())},
	}
	for name, claims := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := PrincipalFromClaims(claims, now)
			assert.ErrorIs(t, err, ErrMalformedPrincipal)
		})
	}
}

func TestCardLikes(t *testing.T) {
	c := &Card{}
	assert.True(t, c.AddLike("u1"))
	assert.False(t, c.AddLike("u1"))
	assert.True(t, c.AddLike("u2"))
	assert.Equal(t, []string{"u1", "u2"}, c.Likes)

	assert.False(t, c.RemoveLike("u3"))
	assert.True(t, c.RemoveLike("u1"))
	assert.Equal(t, []string{"u2"}, c.Likes)
}

func TestProfilePatch(t *testing.T) {
	assert.True(t, ProfilePatch{}.Empty())

	name := "Ann"
	u := &User{Name: "Old", About: "keep"}
	ProfilePatch{Name: &name}.Apply(u)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "keep", u.About)
}
