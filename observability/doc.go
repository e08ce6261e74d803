// Package observability wires OpenTelemetry tracing and metrics and
// Prometheus export for authentication.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultConfig("gatekit"))
//	defer tp.Shutdown(ctx)
//
// Metrics, as an auth.Recorder:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultConfig("gatekit"))
//	defer mp.Shutdown(ctx)
//	metrics, err := observability.NewAuthMetrics(nil)
//	provider := auth.NewDaoProvider(users, nil, enc, auth.WithRecorder(metrics))
//
// Prometheus:
//
//	prom, err := observability.NewPromRecorder("gatekit", nil)
//	router.GET("/metrics", gin.WrapH(prom.Handler()))
package observability
