// Package middleware provides Gin middleware for HTTP Basic authentication
// against a gatekit auth provider, authority checks, request IDs, tracing,
// request logging and panic recovery.
//
//	r := gin.New()
//	r.Use(middleware.Recovery(nil), middleware.RequestID(), middleware.Tracing(), middleware.RequestLogger(nil, "/metrics"))
//	api := r.Group("/api", middleware.BasicAuth(provider, middleware.BasicAuthConfig{Realm: "api"}))
//	api.DELETE("/articles/:id", middleware.RequireAuthority(checker, "article:delete"), handler)
package middleware
