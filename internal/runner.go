package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// PollConfig paces and bounds the run polling loop
type PollConfig struct {
	Interval time.Duration // wait between status retrievals
	MaxPolls int           // 0 means unbounded
	Timeout  time.Duration // 0 means no wall-clock bound
}

// DefaultPollConfig returns the default polling bounds
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval: 500 * time.Millisecond,
		MaxPolls: 1200,
		Timeout:  10 * time.Minute,
	}
}

// RunPoller executes chat turns by driving a remote run to a terminal state
type RunPoller struct {
	threads ThreadService
	config  PollConfig
}

// NewRunPoller creates a new RunPoller
func NewRunPoller(threads ThreadService, config PollConfig) *RunPoller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollConfig().Interval
	}
	return &RunPoller{
		threads: threads,
		config:  config,
	}
}

// RunTurn appends text to thread as a user message, runs assistant on the thread
// and returns the text of the newest message once the run completes.
func (p *RunPoller) RunTurn(ctx context.Context, assistant AssistantID, thread ThreadID, text string) (string, error) {
	if _, err := p.threads.CreateMessage(ctx, thread, RoleUser, text); err != nil {
		return "", &RemoteError{Op: "thread.message.create", Err: err}
	}

	run, err := p.threads.CreateRun(ctx, thread, assistant)
	if err != nil {
		return "", &RemoteError{Op: "thread.run.create", Err: err}
	}
	LogDebug("Created run %s on thread %s", run.ID, thread)

	return p.Await(ctx, thread, run.ID)
}

// Await polls run until it leaves the pending states. A completed run yields the
// newest thread message text; any other terminal status is a RunFailedError.
func (p *RunPoller) Await(ctx context.Context, thread ThreadID, runID RunID) (string, error) {
	start := time.Now()

	pollCtx := ctx
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	limiter := rate.NewLimiter(rate.Every(p.config.Interval), 1)
	// The first token is free; spend it so the first poll waits one interval
	limiter.Allow()

	for polls := 0; ; polls++ {
		if p.config.MaxPolls > 0 && polls >= p.config.MaxPolls {
			return "", &TimeoutError{RunID: runID, Polls: polls, Elapsed: time.Since(start)}
		}

		if err := limiter.Wait(pollCtx); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", &TimeoutError{RunID: runID, Polls: polls, Elapsed: time.Since(start)}
		}

		run, err := p.threads.RetrieveRun(pollCtx, thread, runID)
		if err != nil {
			if ctx.Err() == nil && errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
				return "", &TimeoutError{RunID: runID, Polls: polls + 1, Elapsed: time.Since(start)}
			}
			return "", &RemoteError{Op: "thread.run.retrieve", Err: err}
		}

		Logger().Debug().
			Str("run", run.ID.String()).
			Str("status", string(run.Status)).
			Int("poll", polls+1).
			Msg("polled run")

		switch {
		case run.Status == RunStatusCompleted:
			return p.latestReply(ctx, thread)
		case run.Status.Pending():
			continue
		default:
			return "", &RunFailedError{RunID: runID, Status: run.Status, Message: run.LastError}
		}
	}
}

func (p *RunPoller) latestReply(ctx context.Context, thread ThreadID) (string, error) {
	messages, err := p.threads.ListMessages(ctx, thread, 1)
	if err != nil {
		return "", &RemoteError{Op: "thread.message.list", Err: err}
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("thread %s has no messages: %w", thread, ErrNotFound)
	}
	return TextContent(messages[0])
}
