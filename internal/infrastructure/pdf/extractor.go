package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	domainerrors "github.com/qj0r9j0vc2/paper-bridge/internal/domain/errors"
)

// Extractor pulls plain text out of PDF bytes. Implements the
// summarize.Extractor interface.
type Extractor struct {
	maxPages int
	logger   *slog.Logger
}

// NewExtractor creates an extractor reading at most maxPages pages;
// zero or negative means all pages.
func NewExtractor(maxPages int, logger *slog.Logger) *Extractor {
	return &Extractor{
		maxPages: maxPages,
		logger:   logger,
	}
}

// Extract returns the concatenated page text. Pages that fail to parse
// are skipped; the document fails only when no page yields text.
func (e *Extractor) Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domainerrors.NewExtractError("opening pdf", err)
	}

	total := reader.NumPage()
	pages := total
	if e.maxPages > 0 && pages > e.maxPages {
		pages = e.maxPages
		e.logger.Info("limiting extraction", "total_pages", total, "max_pages", e.maxPages)
	}

	var texts []string
	for i := 1; i <= pages; i++ {
		text, err := e.extractPage(reader, i)
		if err != nil {
			e.logger.Warn("skipping unreadable page", "page", i, "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			texts = append(texts, text)
		}
	}

	if len(texts) == 0 {
		return "", domainerrors.NewExtractError("no extractable text in document", nil)
	}
	return strings.Join(texts, "\n\n"), nil
}

// extractPage isolates the library's panics on malformed content
// streams to a single page.
func (e *Extractor) extractPage(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page parser panic: %v", r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", num)
	}
	return page.GetPlainText(nil)
}
