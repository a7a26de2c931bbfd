/*
Package monitoring provides Prometheus metrics for the supervisor daemon and
the animation engine.

# Usage

	metrics := monitoring.NewMetrics()

	// Gin middleware for HTTP request metrics
	router.Use(monitoring.Middleware(metrics))

	// Exposition endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Domain metrics
	metrics.RecordStart("retro-clock")
	metrics.FramesPresented.Inc()

Each Metrics value owns a private registry so multiple collectors can coexist
in one process (and in tests) without duplicate-registration panics.
*/
package monitoring
