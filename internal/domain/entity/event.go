package entity

import "strings"

// EventType is the top-level type of an Events API payload.
type EventType string

const (
	// EventTypeURLVerification is Slack's endpoint ownership challenge.
	EventTypeURLVerification EventType = "url_verification"

	// EventTypeCallback wraps a regular workspace event.
	EventTypeCallback EventType = "event_callback"
)

// InboundEvent is a parsed Events API payload. Exactly one of the
// type-specific fields is populated depending on Type.
type InboundEvent struct {
	Type EventType

	// Challenge token to echo back (url_verification only).
	Challenge string

	// FileShare is set when the callback carries a file_shared event;
	// nil for every other callback sub-type.
	FileShare *FileShareEvent
}

// FileShareEvent is the file_shared callback event.
type FileShareEvent struct {
	FileID    string
	ChannelID string
	UserID    string
	EventTS   string
}

// ThreadTarget identifies the thread a reply must be posted into.
type ThreadTarget struct {
	ChannelID string
	ThreadTS  string
}

// FileDescriptor is file metadata resolved from the files.info API.
type FileDescriptor struct {
	ID          string
	Name        string
	DownloadURL string
	Size        int
	Filetype    string
	Shares      ShareInfo
}

// ShareInfo maps channel IDs to the timestamps of the messages the file
// was shared in, split by channel visibility.
type ShareInfo struct {
	Public  map[string][]string
	Private map[string][]string
}

// IsPDF reports whether the file should enter the summarization pipeline.
func (f *FileDescriptor) IsPDF() bool {
	return f.Filetype == "pdf" || strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
}

// ThreadTargetFor resolves the thread to reply in for the given channel.
// The public share timestamp wins, then the private one, then the
// fallback (normally the event's own timestamp).
func (f *FileDescriptor) ThreadTargetFor(channelID, fallbackTS string) ThreadTarget {
	ts := fallbackTS
	if shares := f.Shares.Public[channelID]; len(shares) > 0 {
		ts = shares[0]
	} else if shares := f.Shares.Private[channelID]; len(shares) > 0 {
		ts = shares[0]
	}
	return ThreadTarget{ChannelID: channelID, ThreadTS: ts}
}

// ProcessingJob is the unit of background work created by the dispatcher
// after the status message is posted. Consumed exactly once; not
// persisted across restarts.
type ProcessingJob struct {
	Target ThreadTarget
	File   FileDescriptor

	// StatusTS is the timestamp of the "processing" status message,
	// empty if posting it failed.
	StatusTS string
}
