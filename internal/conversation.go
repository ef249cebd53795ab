package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Conversation is the persisted handle of the active thread
type Conversation struct {
	ThreadID ThreadID `json:"thread_id"`
}

// ConversationManager loads, validates and recreates the persisted conversation
type ConversationManager struct {
	threads ThreadService
	path    string
}

// NewConversationManager creates a manager persisting its record at path
func NewConversationManager(threads ThreadService, path string) *ConversationManager {
	return &ConversationManager{
		threads: threads,
		path:    path,
	}
}

// LoadOrCreate returns the persisted conversation when its thread still exists
// remotely, otherwise creates a new thread and persists it. recreate discards the
// persisted record first.
func (m *ConversationManager) LoadOrCreate(ctx context.Context, recreate bool) (Conversation, error) {
	if recreate {
		if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Conversation{}, &IOError{Op: "remove", Path: m.path, Err: err}
		}
	}

	conv, err := m.Load()
	if err == nil {
		err = m.threads.RetrieveThread(ctx, conv.ThreadID)
		if err == nil {
			LogDebug("Using conversation %s", conv.ThreadID)
			return conv, nil
		}
		LogInfo("Conversation %s is no longer available, starting a new one: %v", conv.ThreadID, err)
	} else if !errors.Is(err, ErrNotFound) {
		LogWarn("Ignoring conversation record: %v", err)
	}

	return m.create(ctx)
}

// Load reads the persisted record. A missing record wraps ErrNotFound.
func (m *ConversationManager) Load() (Conversation, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return Conversation{}, fmt.Errorf("conversation record %s: %w", m.path, ErrNotFound)
	}
	if err != nil {
		return Conversation{}, &IOError{Op: "read", Path: m.path, Err: err}
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return Conversation{}, fmt.Errorf("failed to parse conversation record: %w", err)
	}
	if conv.ThreadID == "" {
		return Conversation{}, fmt.Errorf("conversation record %s has no thread id", m.path)
	}
	return conv, nil
}

func (m *ConversationManager) create(ctx context.Context) (Conversation, error) {
	thread, err := m.threads.CreateThread(ctx)
	if err != nil {
		return Conversation{}, &RemoteError{Op: "thread.create", Err: err}
	}

	conv := Conversation{ThreadID: thread}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return Conversation{}, fmt.Errorf("failed to encode conversation record: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return Conversation{}, &IOError{Op: "write", Path: m.path, Err: err}
	}

	LogInfo("Started conversation %s", thread)
	return conv, nil
}
