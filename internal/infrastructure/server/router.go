package server

import (
	"log/slog"
	"net/http"

	"github.com/qj0r9j0vc2/paper-bridge/internal/adapter/handler"
	"github.com/qj0r9j0vc2/paper-bridge/internal/adapter/handler/middleware"
	"github.com/qj0r9j0vc2/paper-bridge/internal/infrastructure/observability"
)

// Handlers holds all HTTP handlers.
type Handlers struct {
	SlackEvents *handler.SlackEventsHandler
	Health      *handler.HealthHandler
	Metrics     *handler.MetricsHandler
}

// NewRouter creates the HTTP router. The webhook endpoint sits behind
// signature verification; health and metrics are open.
func NewRouter(handlers *Handlers, verifier middleware.SignatureVerifier, metrics *observability.Metrics, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints
	mux.Handle("/health", handlers.Health)
	mux.Handle("/", handlers.Health) // Root path returns health

	if handlers.Metrics != nil {
		mux.Handle("/metrics", handlers.Metrics)
	}

	// Webhook endpoint, signature-verified
	if handlers.SlackEvents != nil {
		var events http.Handler = handlers.SlackEvents
		events = middleware.SlackAuth(verifier, logger)(events)
		mux.Handle("/slack/events", events)
	}

	// Apply middleware stack
	var h http.Handler = mux
	if metrics != nil {
		h = middleware.Observability(metrics)(h)
	}
	h = middleware.RequestID(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
