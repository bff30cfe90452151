package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DB_CONNECT_ATTEMPTS", "")
	t.Setenv("JWT_TTL", "")

	cfg := Load()
	assert.Equal(t, StoreCouchDB, cfg.StoreDriver)
	assert.Equal(t, 50, cfg.DBConnectAttempts)
	assert.Equal(t, 5*time.Second, cfg.DBConnectInterval)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_CONNECT_ATTEMPTS", "many")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	cfg := Load()
	assert.Equal(t, 50, cfg.DBConnectAttempts)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			name: "ok couchdb",
			cfg:  Config{StoreDriver: StoreCouchDB, DatabaseURI: "http://localhost:5984", JWTSecret: "s3cr3t-value", Env: "development"},
		},
		{
			name: "memory needs no uri",
			cfg:  Config{StoreDriver: StoreMemory, JWTSecret: "s3cr3t-value", Env: "development"},
		},
		{
			name: "missing uri",
			cfg:  Config{StoreDriver: StorePostgres, JWTSecret: "s3cr3t-value"},
			want: ErrMissingDatabaseURI,
		},
		{
			name: "missing secret",
			cfg:  Config{StoreDriver: StoreCouchDB, DatabaseURI: "http://localhost:5984"},
			want: ErrMissingJWTSecret,
		},
		{
			name: "secret equals env name",
			cfg:  Config{StoreDriver: StoreMemory, JWTSecret: "production", Env: "production"},
			want: ErrWeakJWTSecret,
		},
		{
			name: "unknown driver",
			cfg:  Config{StoreDriver: "mongo", JWTSecret: "s3cr3t-value"},
			want: ErrUnknownStoreDriver,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.com, ,http://b.com "}
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.CORSOrigins())
}
