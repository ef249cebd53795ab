package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPoll() PollConfig {
	return PollConfig{Interval: time.Millisecond, MaxPolls: 100, Timeout: 5 * time.Second}
}

func newTestThread(t *testing.T, fake *FakeRemote) ThreadID {
	t.Helper()
	thread, err := fake.CreateThread(context.Background())
	require.NoError(t, err)
	fake.ResetCalls()
	return thread
}

func repeatStatus(status RunStatus, n int) []RunStatus {
	statuses := make([]RunStatus, n)
	for i := range statuses {
		statuses[i] = status
	}
	return statuses
}

func TestRunTurn_Converges(t *testing.T) {
	fake := NewFakeRemote()
	thread := newTestThread(t, fake)
	fake.RunStatuses = []RunStatus{RunStatusQueued, RunStatusInProgress, RunStatusCompleted}
	fake.Reply = []ContentPart{TextPart{Value: "the answer"}}

	reply, err := NewRunPoller(fake, fastPoll()).RunTurn(context.Background(), "asst_1", thread, "the question")
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)

	want := []string{
		"thread.message.create",
		"thread.run.create",
		"thread.run.retrieve",
		"thread.run.retrieve",
		"thread.run.retrieve",
		"thread.message.list",
	}
	if diff := cmp.Diff(want, fake.Calls); diff != "" {
		t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
	}

	messages := fake.Messages(thread)
	require.Len(t, messages, 2)
	assert.Equal(t, RoleUser, messages[0].Role)
}

func TestRunTurn_TerminalStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status RunStatus
	}{
		{name: "unrecognized", status: "exploded"},
		{name: "failed", status: RunStatusFailed},
		{name: "cancelled", status: RunStatusCancelled},
		{name: "expired", status: RunStatusExpired},
		{name: "requires action", status: RunStatusRequiresAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := NewFakeRemote()
			thread := newTestThread(t, fake)
			fake.RunStatuses = []RunStatus{tt.status, RunStatusCompleted}

			_, err := NewRunPoller(fake, fastPoll()).RunTurn(context.Background(), "asst_1", thread, "hi")

			var failed *RunFailedError
			require.ErrorAs(t, err, &failed)
			assert.Equal(t, tt.status, failed.Status)
			assert.Contains(t, err.Error(), string(tt.status))
			assert.True(t, errors.Is(err, ErrRunFailed))

			assert.Equal(t, 1, fake.CallCount("thread.run.retrieve"), "no polling after a terminal status")
			assert.Zero(t, fake.CallCount("thread.message.list"))
		})
	}
}

func TestRunTurn_MaxPolls(t *testing.T) {
	fake := NewFakeRemote()
	thread := newTestThread(t, fake)
	fake.RunStatuses = repeatStatus(RunStatusInProgress, 10)

	config := fastPoll()
	config.MaxPolls = 3
	_, err := NewRunPoller(fake, config).RunTurn(context.Background(), "asst_1", thread, "hi")

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 3, timeout.Polls)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, 3, fake.CallCount("thread.run.retrieve"))
}

func TestRunTurn_WallClockTimeout(t *testing.T) {
	fake := NewFakeRemote()
	thread := newTestThread(t, fake)
	fake.RunStatuses = repeatStatus(RunStatusQueued, 100000)

	config := PollConfig{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}
	start := time.Now()
	_, err := NewRunPoller(fake, config).RunTurn(context.Background(), "asst_1", thread, "hi")

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunTurn_Canceled(t *testing.T) {
	fake := NewFakeRemote()
	thread := newTestThread(t, fake)
	fake.RunStatuses = repeatStatus(RunStatusQueued, 100000)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	config := PollConfig{Interval: time.Millisecond}
	_, err := NewRunPoller(fake, config).RunTurn(ctx, "asst_1", thread, "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRunTurn_RemoteFailures(t *testing.T) {
	tests := []struct {
		name      string
		failing   string
		wantCalls map[string]int
	}{
		{
			name:      "message append",
			failing:   "thread.message.create",
			wantCalls: map[string]int{"thread.run.create": 0, "thread.run.retrieve": 0},
		},
		{
			name:      "run creation",
			failing:   "thread.run.create",
			wantCalls: map[string]int{"thread.run.retrieve": 0},
		},
		{
			name:      "status retrieval is not retried",
			failing:   "thread.run.retrieve",
			wantCalls: map[string]int{"thread.run.retrieve": 1, "thread.message.list": 0},
		},
		{
			name:      "message fetch",
			failing:   "thread.message.list",
			wantCalls: map[string]int{"thread.message.list": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := NewFakeRemote()
			thread := newTestThread(t, fake)
			boom := errors.New("service unavailable")
			fake.Errors[tt.failing] = boom

			_, err := NewRunPoller(fake, fastPoll()).RunTurn(context.Background(), "asst_1", thread, "hi")

			var remoteErr *RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.failing, remoteErr.Op)
			assert.ErrorIs(t, err, boom)
			for op, n := range tt.wantCalls {
				assert.Equal(t, n, fake.CallCount(op), op)
			}
		})
	}
}

func TestRunTurn_ReplyContent(t *testing.T) {
	tests := []struct {
		name    string
		reply   []ContentPart
		wantErr error
	}{
		{name: "image reply", reply: []ContentPart{ImagePart{FileID: "file_img"}}, wantErr: ErrUnsupportedContent},
		{name: "empty reply", reply: []ContentPart{}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := NewFakeRemote()
			thread := newTestThread(t, fake)
			fake.Reply = tt.reply

			_, err := NewRunPoller(fake, fastPoll()).RunTurn(context.Background(), "asst_1", thread, "draw")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRunPoller_DefaultsInterval(t *testing.T) {
	p := NewRunPoller(NewFakeRemote(), PollConfig{})
	assert.Equal(t, DefaultPollConfig().Interval, p.config.Interval)
}
