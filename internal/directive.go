package internal

import (
	"context"
	"fmt"
	"strings"
)

// Directive is a control command typed at the chat prompt
type Directive int

const (
	DirectiveNone Directive = iota // plain chat message
	DirectiveQuit
	DirectiveRefreshAll
	DirectiveRefreshConversation
	DirectiveRefreshInstructions
	DirectiveRefreshFiles
	DirectiveHelp
)

var directiveNames = map[string]Directive{
	"/q":  DirectiveQuit,
	"/r":  DirectiveRefreshAll,
	"/rc": DirectiveRefreshConversation,
	"/ri": DirectiveRefreshInstructions,
	"/rf": DirectiveRefreshFiles,
	"/h":  DirectiveHelp,
}

// HelpText lists the directives
const HelpText = `Commands:
  /q   quit
  /r   refresh all: recreate the assistant, upload instructions and files, start a new conversation
  /rc  start a new conversation
  /ri  upload the instructions again
  /rf  upload the files again
  /h   show this help
Anything else is sent to the assistant.`

// ParseInput classifies one line of prompt input. The returned text is the
// trimmed input.
func ParseInput(input string) (Directive, string) {
	text := strings.TrimSpace(input)
	if d, ok := directiveNames[text]; ok {
		return d, text
	}
	return DirectiveNone, text
}

// ChatState is the state of an interactive session
type ChatState struct {
	Buddy        *Buddy
	Conversation Conversation
}

// Outcome is what applying one input produced
type Outcome struct {
	Reply   string // assistant reply to a chat message
	Message string // status text for directives
	Quit    bool
}

// NewChatState opens the conversation of b
func NewChatState(ctx context.Context, b *Buddy) (ChatState, error) {
	conv, err := b.LoadOrCreateConversation(ctx, false)
	if err != nil {
		return ChatState{}, err
	}
	return ChatState{Buddy: b, Conversation: conv}, nil
}

// Apply handles one line of input and returns the resulting state. The input
// state is never modified; on error the returned state is the one to keep using.
func Apply(ctx context.Context, st ChatState, input string) (ChatState, Outcome, error) {
	directive, text := ParseInput(input)

	switch directive {
	case DirectiveQuit:
		return st, Outcome{Quit: true}, nil

	case DirectiveHelp:
		return st, Outcome{Message: HelpText}, nil

	case DirectiveRefreshConversation:
		conv, err := st.Buddy.LoadOrCreateConversation(ctx, true)
		if err != nil {
			return st, Outcome{}, err
		}
		return ChatState{Buddy: st.Buddy, Conversation: conv}, Outcome{Message: "Started conversation " + conv.ThreadID.String()}, nil

	case DirectiveRefreshInstructions:
		uploaded, err := st.Buddy.UploadInstructions(ctx)
		if err != nil {
			return st, Outcome{}, err
		}
		if !uploaded {
			return st, Outcome{Message: "No instructions file found"}, nil
		}
		return st, Outcome{Message: "Instructions uploaded"}, nil

	case DirectiveRefreshFiles:
		result, err := st.Buddy.UploadFiles(ctx, true)
		if err != nil {
			return st, Outcome{}, err
		}
		return st, Outcome{Message: fmt.Sprintf("Uploaded %d file bundle(s)", result.Uploaded)}, nil

	case DirectiveRefreshAll:
		next, err := st.Buddy.Recreate(ctx)
		if next == nil {
			return st, Outcome{}, err
		}
		nextState := ChatState{Buddy: next, Conversation: st.Conversation}
		if err != nil {
			return nextState, Outcome{}, err
		}
		conv, err := next.LoadOrCreateConversation(ctx, true)
		if err != nil {
			return nextState, Outcome{}, err
		}
		nextState.Conversation = conv
		return nextState, Outcome{Message: fmt.Sprintf("Recreated assistant %s, conversation %s", next.AssistantID(), conv.ThreadID)}, nil
	}

	if text == "" {
		return st, Outcome{}, nil
	}

	reply, err := st.Buddy.Chat(ctx, st.Conversation, text)
	if err != nil {
		return st, Outcome{}, err
	}
	return st, Outcome{Reply: reply}, nil
}
