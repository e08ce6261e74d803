// Package server assembles a Gin router around a gatekit authenticator:
// recovery, request IDs, tracing and request logging on every route, a
// public health check and Prometheus endpoint, and an API group protected
// by HTTP Basic authentication.
//
//	r, err := server.New(cfg, provider, server.WithMetricsHandler(prom.Handler()))
//	r.Protected().GET("/articles", middleware.RequireAuthority(checker, "article:read"), listArticles)
//	http.ListenAndServe(":8080", r)
package server
