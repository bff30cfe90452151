package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP skips limiting for loopback and private-range clients.
func AllowPrivateIP() SkipFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(clientIP(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowPaths skips limiting for the given request paths.
func AllowPaths(paths ...string) SkipFunc {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(c *gin.Context) bool {
		_, ok := set[c.Request.URL.Path]
		return ok
	}
}
