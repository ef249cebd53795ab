package internal

import "fmt"

// ContentPart is one part of a message's content.
// The set of kinds is closed: each kind has a method on ContentVisitor, so adding
// a kind breaks every visitor until it handles the new case.
type ContentPart interface {
	Accept(v ContentVisitor) (string, error)
}

// ContentVisitor handles every content kind
type ContentVisitor interface {
	VisitText(p TextPart) (string, error)
	VisitImage(p ImagePart) (string, error)
	VisitOther(p OtherPart) (string, error)
}

// TextPart is textual content
type TextPart struct {
	Value string
}

// ImagePart references an image file generated or attached remotely
type ImagePart struct {
	FileID FileID
}

// OtherPart is a content kind this client does not model, kept with its raw type
type OtherPart struct {
	Kind string
}

func (p TextPart) Accept(v ContentVisitor) (string, error)  { return v.VisitText(p) }
func (p ImagePart) Accept(v ContentVisitor) (string, error) { return v.VisitImage(p) }
func (p OtherPart) Accept(v ContentVisitor) (string, error) { return v.VisitOther(p) }

type textExtractor struct{}

func (textExtractor) VisitText(p TextPart) (string, error) {
	return p.Value, nil
}

func (textExtractor) VisitImage(ImagePart) (string, error) {
	return "", &UnsupportedContentError{Kind: "image"}
}

func (textExtractor) VisitOther(p OtherPart) (string, error) {
	return "", &UnsupportedContentError{Kind: p.Kind}
}

// TextContent returns the text of the first content part of msg.
// Later parts are ignored.
func TextContent(msg Message) (string, error) {
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("message %s has no content: %w", msg.ID, ErrNotFound)
	}
	return msg.Content[0].Accept(textExtractor{})
}
