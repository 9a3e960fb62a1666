// Package handler holds the HTTP adapters: the webhook endpoint, the
// health endpoint, and the metrics endpoint.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/qj0r9j0vc2/paper-bridge/internal/adapter/dto"
	"github.com/qj0r9j0vc2/paper-bridge/internal/adapter/handler/middleware"
	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

// EventDispatcher routes a file-share event into the processing
// pipeline. Implemented by the dispatch use case.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event *entity.FileShareEvent)
}

// EventMetrics records webhook event counters. May be nil.
type EventMetrics interface {
	RecordEventReceived(ctx context.Context, eventType string)
	RecordEventDiscarded(ctx context.Context, reason string)
}

// SlackEventsHandler handles POST /slack/events. Signature verification
// happens in middleware before this handler runs.
type SlackEventsHandler struct {
	dispatcher EventDispatcher
	metrics    EventMetrics
	logger     *slog.Logger
}

// NewSlackEventsHandler creates the events webhook handler.
func NewSlackEventsHandler(dispatcher EventDispatcher, metrics EventMetrics, logger *slog.Logger) *SlackEventsHandler {
	return &SlackEventsHandler{
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// ServeHTTP parses the event, runs the dispatch pipeline, and
// acknowledges. Document processing itself runs in the worker pool, so
// the response only waits on the dispatcher's bounded Slack calls.
func (h *SlackEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	event, err := dto.ParseInboundEvent(body)
	if err != nil {
		h.logger.Warn("malformed event payload",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordEventReceived(r.Context(), string(event.Type))
	}

	switch event.Type {
	case entity.EventTypeURLVerification:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"challenge": event.Challenge})

	case entity.EventTypeCallback:
		if event.FileShare == nil {
			if h.metrics != nil {
				h.metrics.RecordEventDiscarded(r.Context(), "unsupported_subtype")
			}
			w.WriteHeader(http.StatusOK)
			return
		}

		// Dedup, metadata lookup, and the status post happen on the
		// request path; only the processing job enters the worker pool.
		// Detached from cancellation so a dropped connection does not
		// abort the Slack calls mid-flight.
		h.dispatcher.Dispatch(context.WithoutCancel(r.Context()), event.FileShare)
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusOK)
	}
}
