package internal

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// FakeRemote is an in-memory Remote for tests. It records every call by
// operation name ("file.upload", "thread.run.retrieve", ...), plays back scripted
// run statuses and fails any operation listed in Errors.
type FakeRemote struct {
	mu sync.Mutex

	// RunStatuses is consumed by RetrieveRun, one status per call. Once empty,
	// runs report completed.
	RunStatuses []RunStatus
	// Reply is appended to the thread as the assistant message when a run completes.
	// The default is a text part holding "ok".
	Reply []ContentPart
	// Errors fails the named operation with the given error
	Errors map[string]error
	// PageSize caps ListAssistants pages; 0 honors the caller's limit
	PageSize int

	Calls        []string
	Instructions map[AssistantID]string
	Attached     map[AssistantID][]FileID
	Uploaded     map[FileID][]byte

	assistants []AssistantSummary
	models     map[AssistantID]string
	threads    map[ThreadID][]Message
	runs       map[RunID]ThreadID
	seq        int
}

// NewFakeRemote creates an empty FakeRemote
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		Errors:       make(map[string]error),
		Instructions: make(map[AssistantID]string),
		Attached:     make(map[AssistantID][]FileID),
		Uploaded:     make(map[FileID][]byte),
		models:       make(map[AssistantID]string),
		threads:      make(map[ThreadID][]Message),
		runs:         make(map[RunID]ThreadID),
	}
}

func (f *FakeRemote) call(op string) error {
	f.Calls = append(f.Calls, op)
	return f.Errors[op]
}

func (f *FakeRemote) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_%03d", prefix, f.seq)
}

// CallCount returns how many times op was called
func (f *FakeRemote) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

// ResetCalls clears the recorded calls
func (f *FakeRemote) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

// AddAssistant registers an existing assistant and returns its id
func (f *FakeRemote) AddAssistant(name string) AssistantID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := AssistantID(f.nextID("asst"))
	f.assistants = append(f.assistants, AssistantSummary{ID: id, Name: name})
	return id
}

// Assistants returns the registered assistants
func (f *FakeRemote) Assistants() []AssistantSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AssistantSummary(nil), f.assistants...)
}

// ForgetThread drops a thread as if it had been deleted remotely
func (f *FakeRemote) ForgetThread(id ThreadID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.threads, id)
}

// ForgetFile drops an uploaded file as if it had been deleted remotely
func (f *FakeRemote) ForgetFile(id FileID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Uploaded, id)
}

// Messages returns the messages of a thread, oldest first
func (f *FakeRemote) Messages(id ThreadID) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.threads[id]...)
}

func (f *FakeRemote) CreateAssistant(ctx context.Context, req AssistantRequest) (AssistantID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("assistant.create"); err != nil {
		return "", err
	}
	id := AssistantID(f.nextID("asst"))
	f.assistants = append(f.assistants, AssistantSummary{ID: id, Name: req.Name})
	f.models[id] = req.Model
	return id, nil
}

func (f *FakeRemote) ListAssistants(ctx context.Context, limit int, after AssistantID) (AssistantPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("assistant.list"); err != nil {
		return AssistantPage{}, err
	}
	if f.PageSize > 0 && (limit <= 0 || f.PageSize < limit) {
		limit = f.PageSize
	}

	start := 0
	if after != "" {
		for i, a := range f.assistants {
			if a.ID == after {
				start = i + 1
			}
		}
	}
	end := len(f.assistants)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	page := AssistantPage{
		Assistants: append([]AssistantSummary(nil), f.assistants[start:end]...),
		HasMore:    end < len(f.assistants),
	}
	if len(page.Assistants) > 0 {
		page.LastID = page.Assistants[len(page.Assistants)-1].ID
	}
	return page, nil
}

func (f *FakeRemote) UpdateInstructions(ctx context.Context, id AssistantID, instructions string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("assistant.update"); err != nil {
		return err
	}
	f.Instructions[id] = instructions
	return nil
}

func (f *FakeRemote) DeleteAssistant(ctx context.Context, id AssistantID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("assistant.delete"); err != nil {
		return err
	}
	for i, a := range f.assistants {
		if a.ID == id {
			f.assistants = append(f.assistants[:i], f.assistants[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("assistant %s: %w", id, ErrNotFound)
}

func (f *FakeRemote) CreateThread(ctx context.Context) (ThreadID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("thread.create"); err != nil {
		return "", err
	}
	id := ThreadID(f.nextID("thread"))
	f.threads[id] = nil
	return id, nil
}

func (f *FakeRemote) RetrieveThread(ctx context.Context, id ThreadID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("thread.retrieve"); err != nil {
		return err
	}
	if _, ok := f.threads[id]; !ok {
		return fmt.Errorf("thread %s: %w", id, ErrNotFound)
	}
	return nil
}

func (f *FakeRemote) CreateMessage(ctx context.Context, thread ThreadID, role Role, content string) (MessageID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("thread.message.create"); err != nil {
		return "", err
	}
	if _, ok := f.threads[thread]; !ok {
		return "", fmt.Errorf("thread %s: %w", thread, ErrNotFound)
	}
	id := MessageID(f.nextID("msg"))
	f.threads[thread] = append(f.threads[thread], Message{ID: id, Role: role, Content: []ContentPart{TextPart{Value: content}}})
	return id, nil
}

func (f *FakeRemote) ListMessages(ctx context.Context, thread ThreadID, limit int) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("thread.message.list"); err != nil {
		return nil, err
	}
	messages := f.threads[thread]
	var newest []Message
	for i := len(messages) - 1; i >= 0 && (limit <= 0 || len(newest) < limit); i-- {
		newest = append(newest, messages[i])
	}
	return newest, nil
}

func (f *FakeRemote) CreateRun(ctx context.Context, thread ThreadID, assistant AssistantID) (Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("thread.run.create"); err != nil {
		return Run{}, err
	}
	id := RunID(f.nextID("run"))
	f.runs[id] = thread
	return Run{ID: id, Status: RunStatusQueued}, nil
}

func (f *FakeRemote) RetrieveRun(ctx context.Context, thread ThreadID, run RunID) (Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("thread.run.retrieve"); err != nil {
		return Run{}, err
	}
	if _, ok := f.runs[run]; !ok {
		return Run{}, fmt.Errorf("run %s: %w", run, ErrNotFound)
	}

	status := RunStatusCompleted
	if len(f.RunStatuses) > 0 {
		status = f.RunStatuses[0]
		f.RunStatuses = f.RunStatuses[1:]
	}

	result := Run{ID: run, Status: status}
	switch {
	case status == RunStatusCompleted:
		delete(f.runs, run)
		reply := f.Reply
		if reply == nil {
			reply = []ContentPart{TextPart{Value: "ok"}}
		}
		f.threads[thread] = append(f.threads[thread], Message{
			ID:      MessageID(f.nextID("msg")),
			Role:    RoleAssistant,
			Content: reply,
		})
	case !status.Pending():
		delete(f.runs, run)
		result.LastError = "scripted " + string(status)
	}
	return result, nil
}

func (f *FakeRemote) UploadFile(ctx context.Context, path string) (FileID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("file.upload"); err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	id := FileID(f.nextID("file"))
	f.Uploaded[id] = content
	return id, nil
}

func (f *FakeRemote) RetrieveFile(ctx context.Context, id FileID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("file.retrieve"); err != nil {
		return err
	}
	if _, ok := f.Uploaded[id]; !ok {
		return fmt.Errorf("file %s: %w", id, ErrNotFound)
	}
	return nil
}

func (f *FakeRemote) DeleteFile(ctx context.Context, id FileID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("file.delete"); err != nil {
		return err
	}
	if _, ok := f.Uploaded[id]; !ok {
		return fmt.Errorf("file %s: %w", id, ErrNotFound)
	}
	delete(f.Uploaded, id)
	return nil
}

func (f *FakeRemote) AttachFile(ctx context.Context, assistant AssistantID, id FileID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("assistant.attach_file"); err != nil {
		return err
	}
	f.Attached[assistant] = append(f.Attached[assistant], id)
	return nil
}

// CreateTestTranscript creates a transcript with one exchange
func CreateTestTranscript(thread ThreadID) *Transcript {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Transcript{
		ThreadID:  thread,
		BuddyName: "test-buddy",
		Model:     "test-model",
		Turns: []Turn{
			{ID: "turn-1", Role: RoleUser, Content: "Hello, how are you?", CreatedAt: at},
			{ID: "turn-2", Role: RoleAssistant, Content: "I'm doing well, thank you!", CreatedAt: at.Add(2 * time.Second)},
		},
	}
}
