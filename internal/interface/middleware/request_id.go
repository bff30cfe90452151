package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware tags the request with an id, echoed in the response
// header and the error envelope. Only a UUID from the client is trusted.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(HeaderRequestID))
		if err != nil {
			id = uuid.New()
		}
		s := id.String()
		c.Set("request_id", s)
		c.Header(HeaderRequestID, s)
		c.Next()
	}
}
