// Package pdf downloads shared files from Slack and extracts their
// text content.
package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "github.com/qj0r9j0vc2/paper-bridge/internal/domain/errors"
)

// Fetcher downloads files from Slack's private file URLs, which
// require the bot token as a bearer credential. Implements the
// summarize.Fetcher interface.
type Fetcher struct {
	botToken   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a fetcher authenticated with botToken.
func NewFetcher(botToken string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Fetcher{
		botToken:   botToken,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Download fetches the file at url and returns its bytes.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domainerrors.NewFetchError("building download request", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.botToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewFetchError("downloading file", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, domainerrors.NewFetchError(
			fmt.Sprintf("download returned status %d", resp.StatusCode),
			nil,
		)
	}

	// Slack serves an HTML login page instead of an error status when
	// the token lacks access; the content type is the only hint.
	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "pdf") &&
		!strings.Contains(contentType, "octet-stream") {
		f.logger.Warn("unexpected content type for file download",
			"url", url,
			"content_type", contentType,
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domainerrors.NewFetchError("reading file body", err)
	}
	if len(data) == 0 {
		return nil, domainerrors.NewFetchError("downloaded file is empty", nil)
	}

	f.logger.Debug("file downloaded", "url", url, "bytes", len(data))
	return data, nil
}
