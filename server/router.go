package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gatekit/logger"
	"github.com/kbukum/gatekit/server/endpoint"
	"github.com/kbukum/gatekit/server/middleware"
)

// Router is a Gin engine with the standard middleware stack and an
// authenticated API group.
type Router struct {
	engine    *gin.Engine
	protected *gin.RouterGroup
	config    Config
	log       *logger.Logger
}

// Option configures a Router.
type Option func(*routerOptions)

type routerOptions struct {
	log     *logger.Logger
	metrics http.Handler
}

// WithLogger sets the logger for request logging and recovery.
func WithLogger(l *logger.Logger) Option {
	return func(o *routerOptions) { o.log = l }
}

// WithMetricsHandler serves h at the configured metrics path.
func WithMetricsHandler(h http.Handler) Option {
	return func(o *routerOptions) { o.metrics = h }
}

// New builds a Router. Requests under cfg.APIPrefix are authenticated with
// HTTP Basic against authn; the health and metrics paths are public.
func New(cfg Config, authn middleware.Authenticator, opts ...Option) (*Router, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := routerOptions{log: logger.Get(logger.ComponentHTTP)}
	for _, opt := range opts {
		opt(&o)
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(o.log),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.RequestLogger(o.log, cfg.HealthPath, cfg.MetricsPath),
	)

	engine.GET(cfg.HealthPath, endpoint.Health())
	if o.metrics != nil {
		engine.GET(cfg.MetricsPath, gin.WrapH(o.metrics))
	}

	protected := engine.Group(cfg.APIPrefix, middleware.BasicAuth(authn, middleware.BasicAuthConfig{
		Realm:       cfg.Realm,
		ProviderKey: cfg.ProviderKey,
		Logger:      o.log,
	}))
	protected.GET("/me", endpoint.Me())

	o.log.Info("router ready", logger.Fields("config", cfg.Describe()))

	return &Router{engine: engine, protected: protected, config: cfg, log: o.log}, nil
}

// Engine returns the underlying Gin engine for route registration.
func (r *Router) Engine() *gin.Engine { return r.engine }

// Protected returns the authenticated route group.
func (r *Router) Protected() *gin.RouterGroup { return r.protected }

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}
