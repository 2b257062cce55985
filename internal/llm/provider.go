// Package llm generates career plans and mentor replies through a
// pluggable model backend. Backends share one Request/Response shape;
// retries, timeouts and request logging are layered on as decorators.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is a model backend.
type Provider interface {
	// Generate runs one request. With a Schema set the returned Content
	// has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider sends requests to.
	ModelID() string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is one generation: a system prompt, the conversation so far and
// an optional output schema. Temperature 0 leaves the backend default.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Schema is a JSON Schema the answer must satisfy. Name is kebab-case and
// doubles as the schema name sent to backends that take one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type Response struct {
	// Content is the validated document for schema requests and the
	// answer encoded as a JSON string otherwise. Use Text for chat replies.
	Content json.RawMessage
	Usage   Usage
	// Model is the model that served the request as reported by the host,
	// which may be a dated variant of ModelID.
	Model string
	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Text returns the answer as plain text. String-encoded content is
// unquoted; anything else is returned verbatim.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s
	}
	return string(r.Content)
}
