package internal

import "context"

// AssistantService manages remote assistants
type AssistantService interface {
	CreateAssistant(ctx context.Context, req AssistantRequest) (AssistantID, error)
	// ListAssistants returns one page of assistants, starting after the given cursor
	// (empty for the first page).
	ListAssistants(ctx context.Context, limit int, after AssistantID) (AssistantPage, error)
	UpdateInstructions(ctx context.Context, id AssistantID, instructions string) error
	DeleteAssistant(ctx context.Context, id AssistantID) error
}

// ThreadService manages threads, their messages and runs
type ThreadService interface {
	CreateThread(ctx context.Context) (ThreadID, error)
	// RetrieveThread returns an error wrapping ErrNotFound when the thread is gone
	RetrieveThread(ctx context.Context, id ThreadID) error
	CreateMessage(ctx context.Context, thread ThreadID, role Role, content string) (MessageID, error)
	// ListMessages returns the newest messages first
	ListMessages(ctx context.Context, thread ThreadID, limit int) ([]Message, error)
	CreateRun(ctx context.Context, thread ThreadID, assistant AssistantID) (Run, error)
	RetrieveRun(ctx context.Context, thread ThreadID, run RunID) (Run, error)
}

// FileService manages files in the remote knowledge store
type FileService interface {
	UploadFile(ctx context.Context, path string) (FileID, error)
	// RetrieveFile returns nil when the file still exists remotely
	RetrieveFile(ctx context.Context, id FileID) error
	DeleteFile(ctx context.Context, id FileID) error
	// AttachFile makes an uploaded file searchable by the assistant
	AttachFile(ctx context.Context, assistant AssistantID, id FileID) error
}

// Remote is the hosted assistant service
type Remote interface {
	AssistantService
	ThreadService
	FileService
}
