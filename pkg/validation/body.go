package validation

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
)

const bodyKey = "validation.body"

// Body binds the JSON body into T and runs its `binding` rules before the
// handler. On failure the chain stops with a validation error carrying the
// field details.
func Body[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var v T
		if err := c.ShouldBindJSON(&v); err != nil {
			_ = c.Error(apperror.Validation("", ToDetails(err)))
			c.Abort()
			return
		}
		c.Set(bodyKey, &v)
		c.Next()
	}
}

// BodyFrom returns the value bound by Body[T]. It panics when the route was
// not wrapped with Body[T] for the same T.
func BodyFrom[T any](c *gin.Context) *T {
	return c.MustGet(bodyKey).(*T)
}
