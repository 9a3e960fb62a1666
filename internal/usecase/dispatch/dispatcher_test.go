package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fakeGateway struct {
	file      *entity.FileDescriptor
	infoErr   error
	statusTS  string
	statusErr error

	infoCalls     int
	reactions     []entity.ThreadTarget
	statusTargets []entity.ThreadTarget
}

func (g *fakeGateway) FileInfo(ctx context.Context, fileID string) (*entity.FileDescriptor, error) {
	g.infoCalls++
	if g.infoErr != nil {
		return nil, g.infoErr
	}
	return g.file, nil
}

func (g *fakeGateway) AddReaction(ctx context.Context, target entity.ThreadTarget, emoji string) error {
	g.reactions = append(g.reactions, target)
	return nil
}

func (g *fakeGateway) PostStatus(ctx context.Context, target entity.ThreadTarget, filename string) (string, error) {
	g.statusTargets = append(g.statusTargets, target)
	return g.statusTS, g.statusErr
}

// inlineQueue runs submitted jobs synchronously.
type inlineQueue struct {
	submitted int
	err       error
}

func (q *inlineQueue) Submit(job func(ctx context.Context)) error {
	if q.err != nil {
		return q.err
	}
	q.submitted++
	job(context.Background())
	return nil
}

type recordingRunner struct {
	jobs []entity.ProcessingJob
}

func (r *recordingRunner) Run(ctx context.Context, job entity.ProcessingJob) {
	r.jobs = append(r.jobs, job)
}

func pdfFile() *entity.FileDescriptor {
	return &entity.FileDescriptor{
		ID:          "F123",
		Name:        "paper.pdf",
		DownloadURL: "https://files.example.com/F123/paper.pdf",
		Filetype:    "pdf",
		Shares: entity.ShareInfo{
			Public: map[string][]string{"C123": {"1700000000.000100"}},
		},
	}
}

func fileEvent() *entity.FileShareEvent {
	return &entity.FileShareEvent{
		FileID:    "F123",
		ChannelID: "C123",
		EventTS:   "1700000099.000500",
	}
}

func newTestDispatcher(gw *fakeGateway, queue *inlineQueue, runner *recordingRunner) *Dispatcher {
	return NewDispatcher(gw, runner, queue, []string{"C123"}, "party_blob", nopLogger{})
}

func TestDispatcher_HappyPath(t *testing.T) {
	gw := &fakeGateway{file: pdfFile(), statusTS: "1700000100.000001"}
	queue := &inlineQueue{}
	runner := &recordingRunner{}
	d := newTestDispatcher(gw, queue, runner)

	d.Dispatch(context.Background(), fileEvent())

	if len(gw.reactions) != 1 {
		t.Fatalf("reactions = %d, want 1", len(gw.reactions))
	}
	if len(runner.jobs) != 1 {
		t.Fatalf("jobs run = %d, want 1", len(runner.jobs))
	}

	job := runner.jobs[0]
	if job.Target.ChannelID != "C123" {
		t.Errorf("job channel = %q, want C123", job.Target.ChannelID)
	}
	// Thread target comes from the public share, not the event timestamp.
	if job.Target.ThreadTS != "1700000000.000100" {
		t.Errorf("job thread_ts = %q, want share timestamp", job.Target.ThreadTS)
	}
	if job.StatusTS != "1700000100.000001" {
		t.Errorf("job status_ts = %q", job.StatusTS)
	}
	if job.File.Name != "paper.pdf" {
		t.Errorf("job file name = %q", job.File.Name)
	}
}

func TestDispatcher_UnwatchedChannel(t *testing.T) {
	gw := &fakeGateway{file: pdfFile()}
	queue := &inlineQueue{}
	d := newTestDispatcher(gw, queue, &recordingRunner{})

	event := fileEvent()
	event.ChannelID = "C999"
	d.Dispatch(context.Background(), event)

	if gw.infoCalls != 0 {
		t.Error("unwatched channel must not trigger a metadata lookup")
	}
	if queue.submitted != 0 {
		t.Error("unwatched channel must not enqueue work")
	}
}

func TestDispatcher_DuplicateEvent(t *testing.T) {
	gw := &fakeGateway{file: pdfFile()}
	queue := &inlineQueue{}
	d := newTestDispatcher(gw, queue, &recordingRunner{})

	d.Dispatch(context.Background(), fileEvent())
	d.Dispatch(context.Background(), fileEvent())

	if queue.submitted != 1 {
		t.Errorf("submitted = %d, want 1 (duplicate discarded)", queue.submitted)
	}
	if gw.infoCalls != 1 {
		t.Errorf("infoCalls = %d, want 1", gw.infoCalls)
	}
}

func TestDispatcher_NonPDFDiscarded(t *testing.T) {
	file := pdfFile()
	file.Name = "notes.txt"
	file.Filetype = "text"
	gw := &fakeGateway{file: file}
	queue := &inlineQueue{}
	d := newTestDispatcher(gw, queue, &recordingRunner{})

	d.Dispatch(context.Background(), fileEvent())

	if queue.submitted != 0 {
		t.Error("non-PDF file must not enqueue work")
	}
	if len(gw.reactions) != 0 {
		t.Error("non-PDF file must not get a reaction")
	}
}

func TestDispatcher_MetadataFailureDiscards(t *testing.T) {
	gw := &fakeGateway{infoErr: errors.New("files_info: timeout")}
	queue := &inlineQueue{}
	d := newTestDispatcher(gw, queue, &recordingRunner{})

	d.Dispatch(context.Background(), fileEvent())

	if queue.submitted != 0 {
		t.Error("metadata failure must not enqueue work")
	}
}

func TestDispatcher_StatusFailureStillEnqueues(t *testing.T) {
	gw := &fakeGateway{file: pdfFile(), statusErr: errors.New("rate_limited")}
	queue := &inlineQueue{}
	runner := &recordingRunner{}
	d := newTestDispatcher(gw, queue, runner)

	d.Dispatch(context.Background(), fileEvent())

	if len(runner.jobs) != 1 {
		t.Fatal("job must still run when the status post fails")
	}
	if runner.jobs[0].StatusTS != "" {
		t.Errorf("StatusTS = %q, want empty", runner.jobs[0].StatusTS)
	}
}

func TestDispatcher_SetChannels(t *testing.T) {
	gw := &fakeGateway{file: pdfFile()}
	queue := &inlineQueue{}
	d := newTestDispatcher(gw, queue, &recordingRunner{})

	d.SetChannels([]string{"C777"})

	d.Dispatch(context.Background(), fileEvent())
	if queue.submitted != 0 {
		t.Error("channel removed from watch-list must be ignored")
	}

	event := fileEvent()
	event.ChannelID = "C777"
	event.FileID = "F456"
	d.Dispatch(context.Background(), event)
	if queue.submitted != 1 {
		t.Error("newly watched channel must be dispatched")
	}
}
