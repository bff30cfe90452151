package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
)

// KeyFunc names the counter a request is charged to.
type KeyFunc func(c *gin.Context) string

// SkipFunc exempts a request from limiting when it returns true.
type SkipFunc func(c *gin.Context) bool

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "ratelimit:ip:" + clientIP(c) }
}

// KeyByIPAndPath gives every route its own budget per client.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		return "ratelimit:route:" + route + ":" + clientIP(c)
	}
}

// KeyByUserID must run after Auth; anonymous callers fall back to their IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "ratelimit:user:" + uid
		}
		return "ratelimit:anon:" + clientIP(c)
	}
}

// hitScript bumps the counter, starts the window on the first hit and
// returns {count, pttl}.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type hit struct {
	count int
	reset time.Duration
}

func record(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (hit, error) {
	vals, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return hit{}, err
	}
	h := hit{}
	if len(vals) > 0 {
		h.count = int(vals[0])
	}
	if len(vals) > 1 && vals[1] > 0 {
		h.reset = time.Duration(vals[1]) * time.Millisecond
	}
	return h, nil
}

// RateLimit allows max requests per key in a fixed window kept in Redis and
// reports RateLimited (429) to the error stage beyond that. It is a no-op without a client, and a Redis
// failure lets the request through.
func RateLimit(rdb *redis.Client, max int, window time.Duration, key KeyFunc, skip SkipFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (skip != nil && skip(c)) {
			c.Next()
			return
		}

		h, err := record(c, rdb, key(c), window)
		if err != nil {
			c.Next()
			return
		}

		resetSec := int(h.reset.Round(time.Second) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max-min(h.count, max)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if h.count <= max {
			c.Next()
			return
		}
		if resetSec > 0 {
			c.Header("Retry-After", strconv.Itoa(resetSec))
		}
		_ = c.Error(apperror.RateLimited(""))
		c.Abort()
	}
}
