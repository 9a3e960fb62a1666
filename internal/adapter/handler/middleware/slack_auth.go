package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

// SignatureVerifier validates a request against Slack's signing
// protocol. Implemented by the slack infrastructure package.
type SignatureVerifier interface {
	VerifySignature(timestamp string, body []byte, signature string) error
}

// SlackAuth verifies the Slack request signature before the handler
// runs. The body is buffered for verification and restored for the
// handler.
func SlackAuth(verifier SignatureVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Error("failed to read request body", "error", err)
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			r.Body.Close()

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")
			if timestamp == "" || signature == "" {
				logger.Warn("missing slack signature headers",
					"request_id", GetRequestID(r.Context()),
				)
				http.Error(w, "missing signature headers", http.StatusUnauthorized)
				return
			}

			if err := verifier.VerifySignature(timestamp, body, signature); err != nil {
				logger.Warn("invalid slack signature",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}

			// Restore body for handler
			r.Body = io.NopCloser(bytes.NewReader(body))

			next.ServeHTTP(w, r)
		})
	}
}
