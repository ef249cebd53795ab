// Package remote implements the hosted assistant service on top of the OpenAI
// assistants API.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/iksnae/buddy/internal"
	openai "github.com/sashabaranov/go-openai"
)

// Client is an internal.Remote backed by go-openai
type Client struct {
	api *openai.Client
}

var _ internal.Remote = (*Client)(nil)

// New creates a client authenticated with apiKey. A non-empty baseURL points the
// client at a compatible endpoint.
func New(apiKey, baseURL string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(config)}
}

// classify maps a 404 response to internal.ErrNotFound
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", internal.ErrNotFound, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", internal.ErrNotFound, err)
	}
	return err
}

func toolsFor(caps []internal.Capability) []openai.AssistantTool {
	var tools []openai.AssistantTool
	for _, c := range caps {
		if c == internal.CapabilityRetrieval {
			tools = append(tools, openai.AssistantTool{Type: openai.AssistantToolTypeFileSearch})
		}
	}
	return tools
}

func (c *Client) CreateAssistant(ctx context.Context, req internal.AssistantRequest) (internal.AssistantID, error) {
	name := req.Name
	assistant, err := c.api.CreateAssistant(ctx, openai.AssistantRequest{
		Model: req.Model,
		Name:  &name,
		Tools: toolsFor(req.Capabilities),
	})
	if err != nil {
		return "", classify(err)
	}
	return internal.AssistantID(assistant.ID), nil
}

func (c *Client) ListAssistants(ctx context.Context, limit int, after internal.AssistantID) (internal.AssistantPage, error) {
	var afterPtr *string
	if after != "" {
		s := string(after)
		afterPtr = &s
	}
	list, err := c.api.ListAssistants(ctx, &limit, nil, afterPtr, nil)
	if err != nil {
		return internal.AssistantPage{}, classify(err)
	}

	page := internal.AssistantPage{HasMore: list.HasMore}
	for _, a := range list.Assistants {
		summary := internal.AssistantSummary{ID: internal.AssistantID(a.ID)}
		if a.Name != nil {
			summary.Name = *a.Name
		}
		page.Assistants = append(page.Assistants, summary)
	}
	if list.LastID != nil {
		page.LastID = internal.AssistantID(*list.LastID)
	} else if n := len(page.Assistants); n > 0 {
		page.LastID = page.Assistants[n-1].ID
	}
	return page, nil
}

// modify applies change to the current definition of the assistant
func (c *Client) modify(ctx context.Context, id internal.AssistantID, change func(current openai.Assistant, req *openai.AssistantRequest)) error {
	current, err := c.api.RetrieveAssistant(ctx, string(id))
	if err != nil {
		return classify(err)
	}

	// Model is always sent; the API rejects modifications without it
	req := openai.AssistantRequest{Model: current.Model}
	change(current, &req)

	if _, err := c.api.ModifyAssistant(ctx, string(id), req); err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) UpdateInstructions(ctx context.Context, id internal.AssistantID, instructions string) error {
	return c.modify(ctx, id, func(_ openai.Assistant, req *openai.AssistantRequest) {
		req.Instructions = &instructions
	})
}

func (c *Client) DeleteAssistant(ctx context.Context, id internal.AssistantID) error {
	_, err := c.api.DeleteAssistant(ctx, string(id))
	return classify(err)
}

func (c *Client) CreateThread(ctx context.Context) (internal.ThreadID, error) {
	thread, err := c.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", classify(err)
	}
	return internal.ThreadID(thread.ID), nil
}

func (c *Client) RetrieveThread(ctx context.Context, id internal.ThreadID) error {
	_, err := c.api.RetrieveThread(ctx, string(id))
	return classify(err)
}

func (c *Client) CreateMessage(ctx context.Context, thread internal.ThreadID, role internal.Role, content string) (internal.MessageID, error) {
	msg, err := c.api.CreateMessage(ctx, string(thread), openai.MessageRequest{
		Role:    string(role),
		Content: content,
	})
	if err != nil {
		return "", classify(err)
	}
	return internal.MessageID(msg.ID), nil
}

func (c *Client) ListMessages(ctx context.Context, thread internal.ThreadID, limit int) ([]internal.Message, error) {
	order := "desc"
	list, err := c.api.ListMessage(ctx, string(thread), &limit, &order, nil, nil, nil)
	if err != nil {
		return nil, classify(err)
	}

	messages := make([]internal.Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		messages = append(messages, toMessage(m))
	}
	return messages, nil
}

func toMessage(m openai.Message) internal.Message {
	msg := internal.Message{
		ID:   internal.MessageID(m.ID),
		Role: internal.Role(m.Role),
	}
	for _, part := range m.Content {
		msg.Content = append(msg.Content, toContentPart(part))
	}
	return msg
}

func toContentPart(part openai.MessageContent) internal.ContentPart {
	switch {
	case part.Text != nil:
		return internal.TextPart{Value: part.Text.Value}
	case part.ImageFile != nil:
		return internal.ImagePart{FileID: internal.FileID(part.ImageFile.FileID)}
	case part.ImageURL != nil:
		return internal.ImagePart{}
	default:
		return internal.OtherPart{Kind: part.Type}
	}
}

func (c *Client) CreateRun(ctx context.Context, thread internal.ThreadID, assistant internal.AssistantID) (internal.Run, error) {
	run, err := c.api.CreateRun(ctx, string(thread), openai.RunRequest{AssistantID: string(assistant)})
	if err != nil {
		return internal.Run{}, classify(err)
	}
	return toRun(run), nil
}

func (c *Client) RetrieveRun(ctx context.Context, thread internal.ThreadID, run internal.RunID) (internal.Run, error) {
	r, err := c.api.RetrieveRun(ctx, string(thread), string(run))
	if err != nil {
		return internal.Run{}, classify(err)
	}
	return toRun(r), nil
}

func toRun(r openai.Run) internal.Run {
	run := internal.Run{
		ID:     internal.RunID(r.ID),
		Status: internal.RunStatus(r.Status),
	}
	if r.LastError != nil {
		run.LastError = r.LastError.Message
	}
	return run
}

func (c *Client) UploadFile(ctx context.Context, path string) (internal.FileID, error) {
	file, err := c.api.CreateFile(ctx, openai.FileRequest{
		FileName: filepath.Base(path),
		FilePath: path,
		Purpose:  string(openai.PurposeAssistants),
	})
	if err != nil {
		return "", classify(err)
	}
	return internal.FileID(file.ID), nil
}

func (c *Client) RetrieveFile(ctx context.Context, id internal.FileID) error {
	_, err := c.api.GetFile(ctx, string(id))
	return classify(err)
}

func (c *Client) DeleteFile(ctx context.Context, id internal.FileID) error {
	return classify(c.api.DeleteFile(ctx, string(id)))
}

// AttachFile adds the file to the assistant's vector store, creating the store on
// first use.
func (c *Client) AttachFile(ctx context.Context, assistant internal.AssistantID, id internal.FileID) error {
	storeID, err := c.vectorStore(ctx, assistant)
	if err != nil {
		return err
	}
	_, err = c.api.CreateVectorStoreFile(ctx, storeID, openai.VectorStoreFileRequest{FileID: string(id)})
	return classify(err)
}

func (c *Client) vectorStore(ctx context.Context, assistant internal.AssistantID) (string, error) {
	current, err := c.api.RetrieveAssistant(ctx, string(assistant))
	if err != nil {
		return "", classify(err)
	}
	if res := current.ToolResources; res != nil && res.FileSearch != nil && len(res.FileSearch.VectorStoreIDs) > 0 {
		return res.FileSearch.VectorStoreIDs[0], nil
	}

	name := string(assistant)
	if current.Name != nil {
		name = *current.Name
	}
	store, err := c.api.CreateVectorStore(ctx, openai.VectorStoreRequest{Name: name + "-files"})
	if err != nil {
		return "", classify(err)
	}

	err = c.modify(ctx, assistant, func(current openai.Assistant, req *openai.AssistantRequest) {
		req.Tools = current.Tools
		if len(req.Tools) == 0 {
			req.Tools = []openai.AssistantTool{{Type: openai.AssistantToolTypeFileSearch}}
		}
		req.ToolResources = &openai.AssistantToolResource{
			FileSearch: &openai.AssistantToolFileSearch{VectorStoreIDs: []string{store.ID}},
		}
	})
	if err != nil {
		return "", err
	}
	internal.LogDebug("Created vector store %s for assistant %s", store.ID, assistant)
	return store.ID, nil
}
