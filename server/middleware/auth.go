package middleware

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gatekit/auth"
	"github.com/kbukum/gatekit/errors"
	"github.com/kbukum/gatekit/header"
	"github.com/kbukum/gatekit/logger"
)

// ContextKeyToken is the gin context key holding the authenticated token.
const ContextKeyToken = "auth_token"

// Authenticator is satisfied by auth.DaoProvider and auth.Manager.
type Authenticator interface {
	Authenticate(ctx context.Context, t *auth.Token) (*auth.Token, error)
}

// BasicAuthConfig configures the HTTP Basic authentication middleware.
type BasicAuthConfig struct {
	// Realm is sent in the WWW-Authenticate challenge (default: "gatekit").
	Realm string
	// ProviderKey is set on every token built from a request.
	ProviderKey string
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
	// Logger defaults to the "http.auth" registry logger.
	Logger *logger.Logger
}

// BasicAuth returns a Gin middleware that authenticates "Authorization:
// Basic" credentials against authn. On success the authenticated token is
// stored in the Gin context and the request context (auth.TokenFromContext).
// On failure the request is aborted with the AppError JSON body and a
// WWW-Authenticate challenge for 401 responses.
func BasicAuth(authn Authenticator, cfg BasicAuthConfig) gin.HandlerFunc {
	if cfg.Realm == "" {
		cfg.Realm = "gatekit"
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get(logger.ComponentHTTPAuth)
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		reqHeaders, err := header.FromHTTP(c.Request.Header, header.KindRequest)
		if err != nil {
			abort(c, cfg.Realm, errors.Internal(err))
			return
		}

		username, password, ok := parseBasic(reqHeaders.Get("Authorization"))
		if !ok {
			abort(c, cfg.Realm, errors.Unauthorized(""))
			return
		}

		ctx := c.Request.Context()
		token, err := authn.Authenticate(ctx, auth.NewUsernamePasswordToken(username, password, cfg.ProviderKey))
		if err != nil {
			log.WithContext(ctx).Debug("basic authentication rejected", logger.Fields(
				logger.FieldPath, path,
				logger.FieldOutcome, auth.Outcome(err),
			))
			abort(c, cfg.Realm, toAppError(err))
			return
		}

		ctx = auth.WithToken(ctx, token)
		ctx = logger.ContextWithUsername(ctx, token.Username)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// TokenFromGin returns the token stored by BasicAuth.
func TokenFromGin(c *gin.Context) (*auth.Token, bool) {
	v, ok := c.Get(ContextKeyToken)
	if !ok {
		return nil, false
	}
	t, ok := v.(*auth.Token)
	return t, ok && t != nil
}

// parseBasic decodes a "Basic base64(user:pass)" header value. The scheme
// is matched case-insensitively.
func parseBasic(value string) (username, password string, ok bool) {
	scheme, encoded, found := strings.Cut(strings.TrimSpace(value), " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	username, password, found = strings.Cut(string(raw), ":")
	if !found || username == "" {
		return "", "", false
	}
	return username, password, true
}

// toAppError maps an authentication failure onto the HTTP error model.
func toAppError(err error) *errors.AppError {
	var authErr *auth.Error
	if stderrors.As(err, &authErr) {
		return authErr.AppError()
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.Internal(err)
}

// abort writes appErr as JSON. 401 responses carry a Basic challenge and
// every error response is marked uncacheable.
func abort(c *gin.Context, realm string, appErr *errors.AppError) {
	resp := header.MustNew(nil, header.KindResponse)
	resp.AddCacheControlDirective("no-store", "")
	if appErr.HTTPStatus == http.StatusUnauthorized {
		resp.Set("WWW-Authenticate", `Basic realm="`+strings.ReplaceAll(realm, `"`, `\"`)+`", charset="UTF-8"`)
	}
	for name, values := range resp.Header() {
		for _, v := range values {
			c.Writer.Header().Add(name, v)
		}
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
