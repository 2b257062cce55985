package llm

import (
	"encoding/json"
	"strings"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// reply is a backend's answer before it is checked against the request.
type reply struct {
	text  string
	usage Usage
	model string
	stop  string
}

// finish turns a backend reply into a Response. With a schema the text must
// be a document that validates; a reply that fails and was cut off at the
// token limit is reported as ErrMaxTokensExceeded. Without a schema the text
// is stored as a JSON string.
func finish(req Request, r reply) (*Response, error) {
	resp := &Response{Usage: r.usage, Model: r.model, StopReason: r.stop}
	if resp.Usage.TotalTokens == 0 {
		resp.Usage.TotalTokens = resp.Usage.InputTokens + resp.Usage.OutputTokens
	}

	if req.Schema == nil {
		text, _ := json.Marshal(r.text)
		resp.Content = text
		return resp, nil
	}

	content := json.RawMessage(stripFence(r.text))
	if err := validateResponse(req.Schema, content); err != nil {
		if r.stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		return nil, err
	}
	resp.Content = content
	return resp, nil
}

// stripFence removes a markdown code fence some models wrap JSON in even
// when told not to.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
