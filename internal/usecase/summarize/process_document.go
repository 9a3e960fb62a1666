package summarize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/paper-bridge/internal/domain/errors"
)

// Failure replies shown to the channel, keyed by pipeline stage.
const (
	msgFetchFailed   = "PDF 다운로드 오류: %v\n\n파일을 가져오지 못했습니다. 잠시 후 다시 시도해주세요."
	msgExtractFailed = "PDF 파싱 오류: %v\n\n파일이 손상되었거나 텍스트 추출이 불가능한 형식일 수 있습니다."
	msgSummaryFailed = "요약 생성 오류: %v\n\nAPI 할당량을 확인하거나 잠시 후 다시 시도해주세요."
	msgUnexpected    = "처리 중 예상치 못한 오류가 발생했습니다: %s"
)

// SummaryProvider produces a summary for extracted paper text.
// Satisfied by *Summarizer.
type SummaryProvider interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Processor runs a single document job end to end: download the PDF,
// extract its text, summarize it, and post the result to the thread
// the file was shared in.
type Processor struct {
	fetcher    Fetcher
	extractor  Extractor
	summarizer SummaryProvider
	poster     Poster
	metrics    MetricsRecorder
	logger     Logger
}

// NewProcessor wires the pipeline stages together. metrics may be nil.
func NewProcessor(
	fetcher Fetcher,
	extractor Extractor,
	summarizer SummaryProvider,
	poster Poster,
	metrics MetricsRecorder,
	logger Logger,
) *Processor {
	return &Processor{
		fetcher:    fetcher,
		extractor:  extractor,
		summarizer: summarizer,
		poster:     poster,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run executes the job and reports any failure back to the thread. It
// never returns an error: the channel reply is the error surface.
func (p *Processor) Run(ctx context.Context, job entity.ProcessingJob) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic while processing document",
				"file_id", job.File.ID,
				"panic", r,
			)
			p.reportFailure(ctx, job, fmt.Errorf("panic: %v", r))
			p.record(ctx, "panic", time.Since(start))
		}
	}()

	p.logger.Info("processing document",
		"file_id", job.File.ID,
		"file_name", job.File.Name,
		"channel_id", job.Target.ChannelID,
	)

	if err := p.run(ctx, job); err != nil {
		p.logger.Error("document processing failed",
			"file_id", job.File.ID,
			"file_name", job.File.Name,
			"error", err,
		)
		p.reportFailure(ctx, job, err)
		p.record(ctx, "failure", time.Since(start))
		return
	}

	p.logger.Info("document processed",
		"file_id", job.File.ID,
		"file_name", job.File.Name,
		"duration", time.Since(start),
	)
	p.record(ctx, "success", time.Since(start))
}

func (p *Processor) run(ctx context.Context, job entity.ProcessingJob) error {
	data, err := p.fetcher.Download(ctx, job.File.DownloadURL)
	if err != nil {
		return err
	}
	p.logger.Debug("downloaded file", "file_id", job.File.ID, "bytes", len(data))

	text, err := p.extractor.Extract(data)
	if err != nil {
		return err
	}
	p.logger.Debug("extracted text", "file_id", job.File.ID, "chars", len(text))

	summary, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		return err
	}

	if _, err := p.poster.PostSummary(ctx, job.Target, job.File.Name, summary); err != nil {
		return err
	}

	// The "analyzing" placeholder is obsolete once the summary lands.
	if job.StatusTS != "" {
		p.poster.DeleteMessage(ctx, job.Target.ChannelID, job.StatusTS)
	}
	return nil
}

// reportFailure surfaces the failure in the thread: the status message
// is rewritten when one exists, otherwise a fresh reply is posted. A
// failed post means the posting path itself is broken, so no further
// message is attempted.
func (p *Processor) reportFailure(ctx context.Context, job entity.ProcessingJob, err error) {
	var postErr *domainerrors.PostError
	if errors.As(err, &postErr) {
		return
	}

	text := failureText(err)

	if job.StatusTS != "" {
		p.poster.UpdateMessage(ctx, job.Target.ChannelID, job.StatusTS, text)
		return
	}
	if _, postErr := p.poster.PostThreadReply(ctx, job.Target, text); postErr != nil {
		p.logger.Error("failed to report failure to channel",
			"file_id", job.File.ID,
			"error", postErr,
		)
	}
}

func failureText(err error) string {
	var (
		fetchErr   *domainerrors.FetchError
		extractErr *domainerrors.ExtractError
		summaryErr *domainerrors.SummaryError
	)
	switch {
	case errors.As(err, &fetchErr):
		return fmt.Sprintf(msgFetchFailed, err)
	case errors.As(err, &extractErr):
		return fmt.Sprintf(msgExtractFailed, err)
	case errors.As(err, &summaryErr):
		return fmt.Sprintf(msgSummaryFailed, err)
	default:
		return fmt.Sprintf(msgUnexpected, err)
	}
}

func (p *Processor) record(ctx context.Context, outcome string, d time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordJob(ctx, outcome, d)
}
