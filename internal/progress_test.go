package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		fn      func() error
		wantErr bool
	}{
		{name: "successful function", fn: func() error { return nil }},
		{name: "function with error", fn: func() error { return errors.New("test error") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, "Testing", tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	var ran []string
	step := func(name string, err error) ProgressStep {
		return ProgressStep{Message: name, Fn: func() error {
			ran = append(ran, name)
			return err
		}}
	}

	err := ShowProgressWithSteps(context.Background(), []ProgressStep{
		step("one", nil),
		step("two", errors.New("broken")),
		step("three", nil),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two")
	assert.Equal(t, []string{"one", "two"}, ran)
}

func TestShowSpinner(t *testing.T) {
	var buf bytes.Buffer
	err := showSpinner(context.Background(), &buf, "working", func() error {
		time.Sleep(150 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(buf.String(), "working\n"))
	assert.Contains(t, buf.String(), "✓")
}

func TestShowSpinner_ContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	var buf bytes.Buffer
	err := showSpinner(ctx, &buf, "waiting", func() error {
		<-release
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPrintSyncResult(t *testing.T) {
	var buf bytes.Buffer
	PrintSyncResult(&buf, &SyncResult{
		Uploaded:  1,
		Artifacts: []string{"a", "b"},
		Deleted:   []string{"/data/old"},
		Skipped:   []string{"docs"},
	})

	out := buf.String()
	assert.Contains(t, out, "deleted stale /data/old")
	assert.Contains(t, out, "skipped bundle docs")
	assert.Contains(t, out, "1 of 2 bundle(s) uploaded")
}
