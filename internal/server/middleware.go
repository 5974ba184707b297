package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"iqtest-service/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request through logger.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		attrs := []any{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", append(attrs, "error", c.Errors.String())...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}

// ErrorHandler renders errors attached with c.Error when the handler did
// not write a response itself.
func ErrorHandler(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		handlers.ErrorResponse(c, status, http.StatusText(status), c.Errors.Last().Err, debug)
	}
}

// Recovery turns panics into a 500 envelope under the same debug policy
// as ErrorHandler.
func Recovery(logger *slog.Logger, debug bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", recovered)
		}
		if errors.Is(err, http.ErrAbortHandler) {
			panic(err)
		}
		logger.Error("panic recovered", "path", c.Request.URL.Path, "error", err)
		handlers.ErrorResponse(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), err, debug)
		c.Abort()
	})
}
