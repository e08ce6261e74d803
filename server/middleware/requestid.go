package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/gatekit/header"
	"github.com/kbukum/gatekit/logger"
	"github.com/kbukum/gatekit/validation"
)

// HeaderRequestID is the request/response header carrying the request ID.
const HeaderRequestID = "X-Request-Id"

// RequestID propagates a valid incoming X-Request-Id or generates a new
// UUID. The ID is echoed in the response, stored in the Gin context and
// added to the request context for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if bag, err := header.FromHTTP(c.Request.Header, header.KindRequest); err == nil {
			id = bag.Get(HeaderRequestID)
		}
		if validation.New().RequiredUUID("request_id", id).HasErrors() {
			id = uuid.New().String()
		}

		c.Set(logger.FieldRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
