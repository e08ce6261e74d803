package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gatekit/errors"
	"github.com/kbukum/gatekit/server/middleware"
)

// Principal is the JSON view of an authenticated token.
type Principal struct {
	Username    string   `json:"username"`
	Provider    string   `json:"provider,omitempty"`
	Authorities []string `json:"authorities"`
}

// Me returns a handler describing the authenticated caller. It must run
// behind middleware.BasicAuth.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := middleware.TokenFromGin(c)
		if !ok {
			appErr := errors.Unauthorized("")
			c.JSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		authorities := token.Authorities()
		if authorities == nil {
			authorities = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"data": Principal{
			Username:    token.Username,
			Provider:    token.ProviderKey,
			Authorities: authorities,
		}})
	}
}
