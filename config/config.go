package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreCouchDB  = "couchdb"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var (
	ErrMissingDatabaseURI = errors.New("DATABASE_URI is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrWeakJWTSecret      = errors.New("JWT_SECRET must not be an environment name")
	ErrUnknownStoreDriver = errors.New("STORE_DRIVER must be one of couchdb, postgres, memory")
)

// Config is the process configuration, read once at startup.
type Config struct {
	AppName   string
	Env       string // development, staging, production
	Port      string
	GinMode   string
	APIPrefix string

	// Store
	StoreDriver       string
	DatabaseURI       string
	DBNamePrefix      string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnLife     time.Duration
	DBConnectAttempts int
	DBConnectInterval time.Duration

	// Migrations (postgres only)
	MigrationsDir string

	// JWT
	JWTSecret string
	JWTTTL    time.Duration

	// Cookies
	CookieDomain string
	CookieSecure bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Redis (rate limiting); empty address disables it
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Elasticsearch; empty addresses disable user search indexing
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	// Google Cloud Storage
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used

	// RabbitMQ
	RabbitMQURL        string
	RabbitMQEmailQueue string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// Email sending toggle
	MailSendEnabled bool

	// Request/error log files, rotated. Empty disables file logs.
	LogDir string

	// Debug metrics (/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool

	// Take the client IP from CF-Connecting-IP / X-Forwarded-For
	TrustProxyHeaders bool
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// parsed reads key with parse, keeping def when the variable is unset or
// malformed.
func parsed[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Printf("config: %s=%q is invalid (%v), using %v", key, raw, err, def)
		return def
	}
	return v
}

func getbool(key string, def bool) bool { return parsed(key, def, strconv.ParseBool) }

func getint(key string, def int) int { return parsed(key, def, strconv.Atoi) }

func getdur(key string, def time.Duration) time.Duration {
	return parsed(key, def, time.ParseDuration)
}

// Load reads the process environment. Unset values fall back to local
// development defaults.
func Load() *Config {
	return &Config{
		AppName:   getenv("APP_NAME", "mesto-api"),
		Env:       getenv("APP_ENV", "development"),
		Port:      getenv("PORT", "3000"),
		GinMode:   getenv("GIN_MODE", "release"),
		APIPrefix: getenv("API_PREFIX", ""),

		StoreDriver:       strings.ToLower(getenv("STORE_DRIVER", StoreCouchDB)),
		DatabaseURI:       getenv("DATABASE_URI", ""),
		DBNamePrefix:      getenv("DB_NAME_PREFIX", "mesto_"),
		DBMaxConns:        int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:        int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife:     getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		DBConnectAttempts: getint("DB_CONNECT_ATTEMPTS", 50),
		DBConnectInterval: getdur("DB_CONNECT_INTERVAL", 5*time.Second),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		JWTSecret: getenv("JWT_SECRET", ""),
		JWTTTL:    getdur("JWT_TTL", 7*24*time.Hour),

		CookieDomain: getenv("COOKIE_DOMAIN", ""),
		CookieSecure: getbool("COOKIE_SECURE", false),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		RedisDB:         getint("REDIS_DB", 0),
		RateLimitMax:    getint("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getdur("RATE_LIMIT_WINDOW", 15*time.Minute),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESUsersIndex:       getenv("ES_USERS_INDEX", "users"),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "emails"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", false),

		LogDir: getenv("LOG_DIR", "logs"),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),

		TrustProxyHeaders: getbool("TRUST_PROXY_HEADERS", false),
	}
}

// Validate reports configuration the process cannot start without.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreCouchDB, StorePostgres:
		if strings.TrimSpace(c.DatabaseURI) == "" {
			return ErrMissingDatabaseURI
		}
	case StoreMemory:
	default:
		return ErrUnknownStoreDriver
	}
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" {
		return ErrMissingJWTSecret
	}
	switch strings.ToLower(secret) {
	case "development", "production", "staging", "test", strings.ToLower(c.Env):
		return ErrWeakJWTSecret
	}
	return nil
}

// IsProduction reports whether stack traces and debug output must be hidden.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
