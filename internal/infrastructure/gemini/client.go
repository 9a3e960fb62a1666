// Package gemini implements the text generation client for the Google
// Gemini REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "github.com/qj0r9j0vc2/paper-bridge/internal/domain/errors"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Generation parameters tuned for faithful, low-variance summaries.
const (
	generationTemperature     = 0.3
	generationTopP            = 0.8
	generationMaxOutputTokens = 4096
)

// MetricsRecorder records generation call outcomes. Implemented by the
// observability package.
type MetricsRecorder interface {
	RecordGenerationCall(ctx context.Context, model string, success bool, duration time.Duration)
}

// Client calls the Gemini generateContent endpoint. Implements the
// summarize.Generator interface.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    MetricsRecorder
}

// NewClient creates a Gemini client. endpoint overrides the API base
// URL for tests; empty means the public API.
func NewClient(apiKey, model string, timeout time.Duration, logger *slog.Logger, endpoint ...string) *Client {
	base := defaultEndpoint
	if len(endpoint) > 0 && endpoint[0] != "" {
		base = strings.TrimSuffix(endpoint[0], "/")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		endpoint:   base,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// SetMetrics attaches a metrics recorder to the client.
func (c *Client) SetMetrics(m MetricsRecorder) { c.metrics = m }

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate performs a single generateContent call and returns the
// first candidate's text. Retrying is the caller's responsibility.
func (c *Client) Generate(ctx context.Context, prompt string) (text string, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordGenerationCall(ctx, c.model, err == nil, time.Since(start))
		}
	}()
	return c.generate(ctx, prompt)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     generationTemperature,
			TopP:            generationTopP,
			MaxOutputTokens: generationMaxOutputTokens,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding generation request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domainerrors.NewTransientError("calling generation API", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", domainerrors.NewTransientError("reading generation response", err)
	}

	c.logger.Debug("generation API call finished",
		"model", c.model,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, body)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding generation response: %w", err)
	}
	if parsed.Error != nil {
		return "", statusError(parsed.Error.Code, body)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("generation response has no candidates")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// statusError classifies an API failure: throttling and server errors
// are transient, everything else permanent.
func statusError(code int, body []byte) error {
	msg := apiErrorMessage(body)
	if msg == "" {
		msg = http.StatusText(code)
	}

	if code == http.StatusTooManyRequests || code >= http.StatusInternalServerError {
		return domainerrors.NewTransientError(
			fmt.Sprintf("generation API returned %d: %s", code, msg),
			nil,
		)
	}
	return domainerrors.NewPermanentError(
		fmt.Sprintf("generation API returned %d: %s", code, msg),
		nil,
	)
}

func apiErrorMessage(body []byte) string {
	var parsed struct {
		Error apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}
