package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/pkg/response"
)

const MsgRouteNotFound = "resource not found"

// ErrorHandler renders the last error recorded with c.Error as the error
// envelope. Stack traces are included only when showStack is set. Internal
// errors are logged with their cause; every failure goes to errLog.
func ErrorHandler(logger, errLog *logrus.Logger, showStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		ae := apperror.From(c.Errors.Last().Err)

		fields := logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     ae.Status,
			"kind":       ae.Kind.String(),
		}
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			fields["user_id"] = uid
		}
		if ae.Kind == apperror.KindInternal && logger != nil {
			logger.WithFields(fields).WithError(ae.Cause()).Error(ae.Message)
		}
		if errLog != nil {
			entry := errLog.WithFields(fields)
			if cause := ae.Cause(); cause != nil {
				entry = entry.WithError(cause)
			}
			entry.Warn(ae.Message)
		}

		resp := response.Failure(c, ae.Status, ae.Message, ae.Detail)
		if showStack {
			resp.Stack = ae.Stack()
		}
		c.AbortWithStatusJSON(ae.Status, resp)
	}
}

// Recovery turns a panic into an internal error for ErrorHandler.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		_ = c.Error(apperror.Internal("", fmt.Errorf("panic: %v", rec)))
		c.Abort()
	})
}

// NoRoute reports unknown routes through the error stage.
func NoRoute(c *gin.Context) {
	_ = c.Error(apperror.NotFound(MsgRouteNotFound))
	c.Abort()
}

// NoMethod is NoRoute for a known path with an unsupported method.
func NoMethod(c *gin.Context) {
	e := apperror.NotFound(MsgRouteNotFound)
	e.Status = http.StatusMethodNotAllowed
	_ = c.Error(e)
	c.Abort()
}
