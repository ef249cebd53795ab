package internal

// AssistantID identifies a remote assistant resource
type AssistantID string

// ThreadID identifies a remote conversation thread
type ThreadID string

// RunID identifies one remote run of an assistant against a thread
type RunID string

// FileID identifies a file uploaded to the remote knowledge store
type FileID string

// MessageID identifies a message inside a thread
type MessageID string

func (id AssistantID) String() string { return string(id) }
func (id ThreadID) String() string    { return string(id) }
func (id RunID) String() string       { return string(id) }
func (id FileID) String() string      { return string(id) }
func (id MessageID) String() string   { return string(id) }

// Capability is a tool enabled on an assistant
type Capability string

const (
	// CapabilityRetrieval lets the assistant search the files attached to it
	CapabilityRetrieval Capability = "retrieval"
)

// AssistantRequest describes an assistant to create
type AssistantRequest struct {
	Name         string
	Model        string
	Capabilities []Capability
}

// AssistantSummary is one entry of an assistant listing
type AssistantSummary struct {
	ID   AssistantID
	Name string
}

// AssistantPage is one page of an assistant listing
type AssistantPage struct {
	Assistants []AssistantSummary
	HasMore    bool
	LastID     AssistantID
}

// RunStatus is the remote status of a run
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusExpired        RunStatus = "expired"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusIncomplete     RunStatus = "incomplete"
)

// Pending reports whether the run has not reached a terminal state yet
func (s RunStatus) Pending() bool {
	return s == RunStatusQueued || s == RunStatusInProgress
}

// Run is a snapshot of a remote run
type Run struct {
	ID        RunID
	Status    RunStatus
	LastError string // remote failure description, if any
}

// Role is the author of a thread message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a thread message with its content parts
type Message struct {
	ID      MessageID
	Role    Role
	Content []ContentPart
}
