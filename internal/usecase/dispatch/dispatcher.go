// Package dispatch implements the webhook ingestion pipeline: channel
// filtering, event deduplication, file and thread-target resolution,
// and hand-off to the background worker pool. The webhook response
// never waits on document processing.
package dispatch

import (
	"context"
	"sync"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

// Dispatcher routes file_shared events into background processing jobs.
type Dispatcher struct {
	gateway FileGateway
	runner  JobRunner
	queue   JobQueue
	dedup   *DedupSet
	logger  Logger

	emoji string

	mu       sync.RWMutex
	channels map[string]struct{}
}

// NewDispatcher creates a dispatcher watching the given channels.
func NewDispatcher(
	gateway FileGateway,
	runner JobRunner,
	queue JobQueue,
	channelIDs []string,
	reactionEmoji string,
	logger Logger,
) *Dispatcher {
	d := &Dispatcher{
		gateway: gateway,
		runner:  runner,
		queue:   queue,
		dedup:   NewDedupSet(),
		logger:  logger,
		emoji:   reactionEmoji,
	}
	d.SetChannels(channelIDs)
	return d
}

// SetChannels replaces the channel watch-list. Safe to call while the
// dispatcher is serving events; used by config hot reload.
func (d *Dispatcher) SetChannels(channelIDs []string) {
	channels := make(map[string]struct{}, len(channelIDs))
	for _, id := range channelIDs {
		channels[id] = struct{}{}
	}

	d.mu.Lock()
	d.channels = channels
	d.mu.Unlock()
}

// Channels returns the current watch-list.
func (d *Dispatcher) Channels() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.channels))
	for id := range d.channels {
		ids = append(ids, id)
	}
	return ids
}

func (d *Dispatcher) watched(channelID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.channels[channelID]
	return ok
}

// Dispatch runs the request-path portion of the pipeline for a
// file_shared event. Every outcome acknowledges the webhook: events
// that are filtered, duplicated, or fail metadata resolution are
// discarded without error.
func (d *Dispatcher) Dispatch(ctx context.Context, event *entity.FileShareEvent) {
	if !d.watched(event.ChannelID) {
		d.logger.Debug("ignoring file from unwatched channel",
			"channel", event.ChannelID,
			"file_id", event.FileID,
		)
		return
	}

	if !d.dedup.ShouldProcess(event.FileID) {
		d.logger.Debug("duplicate file_shared event",
			"file_id", event.FileID,
		)
		return
	}

	file, err := d.gateway.FileInfo(ctx, event.FileID)
	if err != nil {
		// No thread target is known yet, so there is nobody to tell.
		d.logger.Error("failed to resolve file metadata",
			"file_id", event.FileID,
			"error", err,
		)
		return
	}

	if !file.IsPDF() {
		d.logger.Debug("ignoring non-PDF file",
			"file_id", file.ID,
			"name", file.Name,
			"filetype", file.Filetype,
		)
		return
	}

	target := file.ThreadTargetFor(event.ChannelID, event.EventTS)

	d.logger.Info("found PDF via file_shared",
		"file_id", file.ID,
		"name", file.Name,
		"channel", target.ChannelID,
		"thread_ts", target.ThreadTS,
	)

	if err := d.gateway.AddReaction(ctx, target, d.emoji); err != nil {
		d.logger.Warn("failed to add reaction",
			"file_id", file.ID,
			"error", err,
		)
	}

	statusTS, err := d.gateway.PostStatus(ctx, target, file.Name)
	if err != nil {
		d.logger.Warn("failed to post status message",
			"file_id", file.ID,
			"error", err,
		)
		statusTS = ""
	}

	job := entity.ProcessingJob{
		Target:   target,
		File:     *file,
		StatusTS: statusTS,
	}

	if err := d.queue.Submit(func(ctx context.Context) {
		d.runner.Run(ctx, job)
	}); err != nil {
		d.logger.Error("failed to enqueue processing job",
			"file_id", file.ID,
			"error", err,
		)
		return
	}

	d.logger.Info("queued PDF for processing",
		"file_id", file.ID,
		"name", file.Name,
	)
}
