// Package response holds the JSON envelopes written by the API. Entity
// endpoints reply with the bare entity; failures and status replies use
// Envelope.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of error and status replies.
type Envelope struct {
	Success   bool      `json:"success"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Error     any       `json:"error,omitempty"`
	Stack     string    `json:"stack,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func newEnvelope(c *gin.Context, ok bool, status int, message string) *Envelope {
	return &Envelope{
		Success:   ok,
		Status:    status,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Timestamp: time.Now().UTC(),
	}
}

// Failure builds an error envelope; detail goes under "error".
func Failure(c *gin.Context, status int, message string, detail any) *Envelope {
	if status == 0 {
		status = http.StatusBadRequest
	}
	e := newEnvelope(c, false, status, message)
	e.Error = detail
	return e
}

// OK writes a success envelope carrying data.
func OK(c *gin.Context, message string, data any) {
	e := newEnvelope(c, true, http.StatusOK, message)
	e.Data = data
	c.JSON(http.StatusOK, e)
}

// Message writes a bare {message} body, the confirmation shape clients of
// the delete endpoints expect.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
