// Package errors defines the error classification used across the
// pipeline: a transient/permanent split that drives retry decisions,
// plus typed failures for each processing stage.
package errors

import (
	"errors"
	"fmt"
)

// TransientError marks a failure that may succeed on retry (network
// errors, rate limits, upstream 5xx).
type TransientError struct {
	msg   string
	cause error
}

// NewTransientError wraps err as a transient failure.
func NewTransientError(msg string, cause error) *TransientError {
	return &TransientError{msg: msg, cause: cause}
}

func (e *TransientError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *TransientError) Unwrap() error { return e.cause }

// PermanentError marks a failure that retrying cannot fix (bad auth,
// unknown channel, malformed input).
type PermanentError struct {
	msg   string
	cause error
}

// NewPermanentError wraps err as a permanent failure.
func NewPermanentError(msg string, cause error) *PermanentError {
	return &PermanentError{msg: msg, cause: cause}
}

func (e *PermanentError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *PermanentError) Unwrap() error { return e.cause }

// IsTransientError reports whether err is classified as transient.
func IsTransientError(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// stageError is the shared shape of the stage-specific failures below.
type stageError struct {
	msg   string
	cause error
}

func (e *stageError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *stageError) Unwrap() error { return e.cause }

// FetchError means the document download failed; the job terminates
// with a user-visible message.
type FetchError struct{ stageError }

// NewFetchError wraps a download failure.
func NewFetchError(msg string, cause error) *FetchError {
	return &FetchError{stageError{msg: msg, cause: cause}}
}

// ExtractError means no text could be extracted from the document.
type ExtractError struct{ stageError }

// NewExtractError wraps a text extraction failure.
func NewExtractError(msg string, cause error) *ExtractError {
	return &ExtractError{stageError{msg: msg, cause: cause}}
}

// SummaryError means the generation API exhausted its retries or
// returned nothing usable.
type SummaryError struct{ stageError }

// NewSummaryError wraps a summarization failure.
func NewSummaryError(msg string, cause error) *SummaryError {
	return &SummaryError{stageError{msg: msg, cause: cause}}
}

// PostError means the final reply could not be posted. Logged only; no
// further user notification is attempted.
type PostError struct{ stageError }

// NewPostError wraps a message posting failure.
func NewPostError(msg string, cause error) *PostError {
	return &PostError{stageError{msg: msg, cause: cause}}
}
