package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gatekit/logger"
)

// RequestLogger returns a Gin middleware that logs every request with
// method, path, status and duration. Paths in skip are not logged. A nil
// log uses the "http" registry logger.
func RequestLogger(log *logger.Logger, skip ...string) gin.HandlerFunc {
	if log == nil {
		log = logger.Get(logger.ComponentHTTP)
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			"status", status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
		if token, ok := TokenFromGin(c); ok {
			fields[logger.FieldUsername] = token.Username
		}
		logByStatus(log.WithContext(c.Request.Context()), fields, status)
	}
}

// logByStatus logs request fields at the level matching the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
