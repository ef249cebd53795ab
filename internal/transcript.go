package internal

import (
	"context"
	"time"
)

// Turn is one stored transcript entry
type Turn struct {
	ID        string    `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Transcript is the locally recorded history of one conversation
type Transcript struct {
	ThreadID  ThreadID `json:"thread_id" yaml:"thread_id"`
	BuddyName string   `json:"buddy" yaml:"buddy"`
	Model     string   `json:"model,omitempty" yaml:"model,omitempty"`
	Turns     []Turn   `json:"turns" yaml:"turns"`
}

// LoadTranscript reads the stored turns of thread
func LoadTranscript(ctx context.Context, store *Store, config *Config, thread ThreadID) (*Transcript, error) {
	turns, err := store.Turns(ctx, thread)
	if err != nil {
		return nil, err
	}
	return &Transcript{
		ThreadID:  thread,
		BuddyName: config.Name,
		Model:     config.Model,
		Turns:     turns,
	}, nil
}
