package internal

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound marks an absent local record or remote resource
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedContent marks a non-text message content part
	ErrUnsupportedContent = errors.New("unsupported content")
	// ErrRunFailed marks a run that ended in a status other than completed
	ErrRunFailed = errors.New("run failed")
	// ErrTimeout marks a run that did not finish within the poll bounds
	ErrTimeout = errors.New("run timed out")
	// ErrSafetyViolation marks a refused deletion outside the data directory
	ErrSafetyViolation = errors.New("safety violation")
	// ErrLocked marks a data directory already owned by another session
	ErrLocked = errors.New("data directory is locked by another session")
)

// ConfigError represents missing or malformed configuration
type ConfigError struct {
	Key string // config key, file path or environment variable
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IOError represents a local file operation failure
type IOError struct {
	Op   string // "read", "write", "delete", "mkdir", "list"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// RemoteError represents a failed call to the remote service
type RemoteError struct {
	Op  string // e.g. "thread.run.retrieve"
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error [%s]: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// RunFailedError represents a run that reached a non-completed terminal status
type RunFailedError struct {
	RunID   RunID
	Status  RunStatus
	Message string
}

func (e *RunFailedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("run %s ended with status %q: %s", e.RunID, e.Status, e.Message)
	}
	return fmt.Sprintf("run %s ended with status %q", e.RunID, e.Status)
}

func (e *RunFailedError) Is(target error) bool {
	return target == ErrRunFailed
}

// TimeoutError represents a run still pending when the poll bounds ran out
type TimeoutError struct {
	RunID   RunID
	Polls   int
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run %s still pending after %d poll(s) in %s", e.RunID, e.Polls, e.Elapsed.Round(time.Millisecond))
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// SafetyError represents a deletion target outside the private data directory
type SafetyError struct {
	Path string
	Root string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("refusing to delete %q: not inside %q", e.Path, e.Root)
}

func (e *SafetyError) Is(target error) bool {
	return target == ErrSafetyViolation
}

// UnsupportedContentError represents a message content part that is not text
type UnsupportedContentError struct {
	Kind string // "image", or the raw remote content type
}

func (e *UnsupportedContentError) Error() string {
	return fmt.Sprintf("unsupported content: %s message parts are not supported yet", e.Kind)
}

func (e *UnsupportedContentError) Is(target error) bool {
	return target == ErrUnsupportedContent
}
