package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxSanitizeBody caps how much of a body is buffered for escaping.
const maxSanitizeBody = 1 << 20

// SanitizeBody HTML-escapes the top-level string fields of JSON object
// bodies, except the fields named in keep. Other bodies pass through
// untouched. Link fields belong in keep: they are validated as URLs and must
// be stored byte for byte.
func SanitizeBody(keep ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		skip[k] = struct{}{}
	}
	return func(c *gin.Context) {
		if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
			c.Next()
			return
		}
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSanitizeBody+1))
		_ = c.Request.Body.Close()
		if err != nil || len(raw) > maxSanitizeBody {
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			c.Next()
			return
		}

		out := raw
		if escaped, ok := escapeTopLevel(raw, skip); ok {
			out = escaped
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(out))
		c.Request.ContentLength = int64(len(out))
		c.Next()
	}
}

func escapeTopLevel(raw []byte, skip map[string]struct{}) ([]byte, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	for k, v := range obj {
		if _, ok := skip[k]; ok {
			continue
		}
		var s string
		if json.Unmarshal(v, &s) != nil {
			continue
		}
		b, err := json.Marshal(html.EscapeString(s))
		if err != nil {
			return nil, false
		}
		obj[k] = b
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, false
	}
	return b, true
}
