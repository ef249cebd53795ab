package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// assistantPageSize is the page size used when looking an assistant up by name
const assistantPageSize = 100

// FindAssistantByName walks every page of assistants and returns the first one
// named exactly name. Absence wraps ErrNotFound.
func FindAssistantByName(ctx context.Context, svc AssistantService, name string) (AssistantID, error) {
	var after AssistantID
	for {
		page, err := svc.ListAssistants(ctx, assistantPageSize, after)
		if err != nil {
			return "", &RemoteError{Op: "assistant.list", Err: err}
		}
		for _, a := range page.Assistants {
			if a.Name == name {
				return a.ID, nil
			}
		}
		if !page.HasMore || page.LastID == "" || page.LastID == after {
			return "", fmt.Errorf("assistant %q: %w", name, ErrNotFound)
		}
		after = page.LastID
	}
}

// LoadOrCreateAssistant returns the assistant named req.Name, creating it with the
// retrieval capability when absent. recreate deletes an existing one first.
func LoadOrCreateAssistant(ctx context.Context, svc AssistantService, req AssistantRequest, recreate bool) (AssistantID, error) {
	id, err := FindAssistantByName(ctx, svc, req.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}

	if id != "" && recreate {
		if err := svc.DeleteAssistant(ctx, id); err != nil {
			return "", &RemoteError{Op: "assistant.delete", Err: err}
		}
		LogInfo("Deleted assistant %s (%s)", req.Name, id)
		id = ""
	}

	if id != "" {
		LogDebug("Using assistant %s (%s)", req.Name, id)
		return id, nil
	}

	if !hasCapability(req.Capabilities, CapabilityRetrieval) {
		req.Capabilities = append(req.Capabilities, CapabilityRetrieval)
	}
	id, err = svc.CreateAssistant(ctx, req)
	if err != nil {
		return "", &RemoteError{Op: "assistant.create", Err: err}
	}
	LogInfo("Created assistant %s (%s)", req.Name, id)
	return id, nil
}

// UploadInstructions replaces the assistant's instructions with the content of path.
// It returns false without error when path does not exist.
func UploadInstructions(ctx context.Context, svc AssistantService, id AssistantID, path string) (bool, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		LogDebug("No instructions file at %s", path)
		return false, nil
	}
	if err != nil {
		return false, &IOError{Op: "read", Path: path, Err: err}
	}

	if err := svc.UpdateInstructions(ctx, id, string(content)); err != nil {
		return false, &RemoteError{Op: "assistant.update", Err: err}
	}
	return true, nil
}

func hasCapability(caps []Capability, c Capability) bool {
	for _, have := range caps {
		if have == c {
			return true
		}
	}
	return false
}
