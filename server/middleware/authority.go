package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/gatekit/auth/permission"
	"github.com/kbukum/gatekit/errors"
	"github.com/kbukum/gatekit/logger"
)

// RequireAuthority returns a Gin middleware that lets the request through
// only when the token stored by BasicAuth holds every required permission.
// A nil checker only honours the token's own authorities.
//
// Requests without a token get 401, tokens lacking a permission get 403.
func RequireAuthority(checker permission.Checker, required ...string) gin.HandlerFunc {
	log := logger.Get(logger.ComponentHTTPAuth)
	return func(c *gin.Context) {
		token, ok := TokenFromGin(c)
		if !ok {
			abort(c, "gatekit", errors.Unauthorized(""))
			return
		}
		if !permission.GrantedAll(checker, token, required...) {
			log.WithContext(c.Request.Context()).Warn("permission denied", logger.Fields(
				logger.FieldPath, c.Request.URL.Path,
				"required", required,
			))
			abort(c, "", errors.Forbidden("").WithDetail("required", required))
			return
		}
		c.Next()
	}
}
