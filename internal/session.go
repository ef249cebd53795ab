package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Buddy is one session bound to a buddy directory and a remote assistant.
// A Buddy is never modified after construction; Recreate returns a new value that
// takes over the store and the directory lock.
type Buddy struct {
	config    *Config
	workspace Workspace
	remote    Remote
	store     *Store
	lock      *DirLock
	assistant AssistantID
	now       func() time.Time
}

// Open loads the configuration of dir, locks its data directory, opens the store
// and binds the assistant named in the configuration, creating it when absent.
// recreate deletes and recreates an existing assistant.
func Open(ctx context.Context, dir string, remote Remote, recreate bool) (*Buddy, error) {
	config, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	workspace := NewWorkspace(dir)
	if err := workspace.Ensure(); err != nil {
		return nil, err
	}

	lock, err := AcquireDirLock(workspace.LockPath())
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(workspace.StorePath())
	if err != nil {
		_ = lock.Release()
		return nil, &IOError{Op: "open", Path: workspace.StorePath(), Err: err}
	}

	b := &Buddy{
		config:    config,
		workspace: workspace,
		remote:    remote,
		store:     store,
		lock:      lock,
		now:       time.Now,
	}

	b.assistant, err = LoadOrCreateAssistant(ctx, remote, b.assistantRequest(), recreate)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	return b, nil
}

// InitFromDir opens the session of dir, then uploads the instructions and syncs
// the file bundles.
func InitFromDir(ctx context.Context, dir string, remote Remote, recreate bool) (*Buddy, error) {
	b, err := Open(ctx, dir, remote, recreate)
	if err != nil {
		return nil, err
	}
	if err := b.refresh(ctx); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Buddy) refresh(ctx context.Context) error {
	if _, err := b.UploadInstructions(ctx); err != nil {
		return err
	}
	_, err := b.UploadFiles(ctx, false)
	return err
}

func (b *Buddy) assistantRequest() AssistantRequest {
	return AssistantRequest{
		Name:         b.config.Name,
		Model:        b.config.Model,
		Capabilities: []Capability{CapabilityRetrieval},
	}
}

// Name returns the configured session name
func (b *Buddy) Name() string { return b.config.Name }

// Model returns the configured model
func (b *Buddy) Model() string { return b.config.Model }

// AssistantID returns the bound assistant
func (b *Buddy) AssistantID() AssistantID { return b.assistant }

// Workspace returns the directory layout of the session
func (b *Buddy) Workspace() Workspace { return b.workspace }

// Store returns the local store
func (b *Buddy) Store() *Store { return b.store }

// UploadInstructions replaces the assistant instructions with the configured file
func (b *Buddy) UploadInstructions(ctx context.Context) (bool, error) {
	return UploadInstructions(ctx, b.remote, b.assistant, b.workspace.Resolve(b.config.InstructionsFile))
}

// UploadFiles syncs the file bundles to the assistant
func (b *Buddy) UploadFiles(ctx context.Context, recreate bool) (*SyncResult, error) {
	cache := NewUploadCache(b.remote, b.store)
	return NewSyncer(b.workspace, b.config, cache, b.store).Sync(ctx, b.assistant, recreate)
}

// LoadOrCreateConversation returns the active conversation, creating one when needed
func (b *Buddy) LoadOrCreateConversation(ctx context.Context, recreate bool) (Conversation, error) {
	return b.conversations().LoadOrCreate(ctx, recreate)
}

// LoadConversation returns the persisted conversation without contacting the remote
func (b *Buddy) LoadConversation() (Conversation, error) {
	return b.conversations().Load()
}

func (b *Buddy) conversations() *ConversationManager {
	return NewConversationManager(b.remote, b.workspace.ConversationPath())
}

// Chat sends text on conv and returns the assistant reply. Both sides of a
// successful turn are appended to the local transcript.
func (b *Buddy) Chat(ctx context.Context, conv Conversation, text string) (string, error) {
	asked := b.now()

	reply, err := NewRunPoller(b.remote, b.config.Run.PollConfig()).RunTurn(ctx, b.assistant, conv.ThreadID, text)
	if err != nil {
		return "", err
	}

	turns := []Turn{
		{ID: uuid.NewString(), Role: RoleUser, Content: text, CreatedAt: asked},
		{ID: uuid.NewString(), Role: RoleAssistant, Content: reply, CreatedAt: b.now()},
	}
	for _, turn := range turns {
		if err := b.store.AppendTurn(ctx, conv.ThreadID, turn); err != nil {
			LogWarn("Recording turn failed: %v", err)
		}
	}

	return reply, nil
}

// Transcript returns the locally recorded history of conv
func (b *Buddy) Transcript(ctx context.Context, conv Conversation) (*Transcript, error) {
	return LoadTranscript(ctx, b.store, b.config, conv.ThreadID)
}

// Recreate deletes the assistant, creates a fresh one and refreshes its
// instructions and files. The receiver must not be used afterwards. When only
// the refresh fails the new value is returned along with the error. When the
// old assistant is gone but its replacement could not be created, the error
// says so and a later Recreate creates it from scratch.
func (b *Buddy) Recreate(ctx context.Context) (*Buddy, error) {
	next := *b

	id, err := LoadOrCreateAssistant(ctx, b.remote, b.assistantRequest(), true)
	if err != nil {
		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Op == "assistant.create" {
			return nil, fmt.Errorf("assistant %s was deleted but creating its replacement failed, run /r again: %w", b.assistant, err)
		}
		return nil, err
	}
	next.assistant = id

	if err := next.refresh(ctx); err != nil {
		return &next, fmt.Errorf("assistant %s recreated but refresh failed: %w", id, err)
	}
	return &next, nil
}

// Close releases the store and the directory lock
func (b *Buddy) Close() error {
	var errs []error
	if b.store != nil {
		errs = append(errs, b.store.Close())
	}
	errs = append(errs, b.lock.Release())
	return errors.Join(errs...)
}
