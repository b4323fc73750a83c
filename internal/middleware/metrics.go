package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// SlugCollisionRetries counts create/update attempts that hit the
	// slug unique constraint and were retried.
	SlugCollisionRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_slug_collision_retries_total",
		Help: "Total number of slug unique-constraint collisions that triggered a retry",
	})

	// CommentsModerated counts moderation decisions by outcome.
	CommentsModerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_comments_moderated_total",
		Help: "Total number of comment moderation decisions by outcome",
	}, []string{"outcome"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
