package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// compatHosts lists the OpenAI-compatible chat completion endpoints. Groq
// has no json_schema response format, so the schema travels in the system
// prompt and the host is asked for a bare JSON object instead.
var compatHosts = map[string]struct {
	baseURL    string
	jsonObject bool
}{
	"openai":     {},
	"groq":       {baseURL: "https://api.groq.com/openai/v1", jsonObject: true},
	"openrouter": {baseURL: "https://openrouter.ai/api/v1"},
}

// CompatProvider talks to any OpenAI-compatible chat completions API.
type CompatProvider struct {
	host       string
	client     *openai.Client
	model      string
	jsonObject bool
}

// NewCompatProvider builds the provider for one of "openai", "groq" or
// "openrouter".
func NewCompatProvider(name string, cfg EndpointConfig) (*CompatProvider, error) {
	spec, ok := compatHosts[name]
	if !ok {
		return nil, fmt.Errorf("%q is not an OpenAI-compatible provider", name)
	}
	h, _ := lookupHost(name)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	switch {
	case cfg.BaseURL != "":
		oc.BaseURL = cfg.BaseURL
	case spec.baseURL != "":
		oc.BaseURL = spec.baseURL
	}

	return &CompatProvider{
		host:       name,
		client:     openai.NewClientWithConfig(oc),
		model:      h.model(cfg),
		jsonObject: spec.jsonObject,
	}, nil
}

func (p *CompatProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	cr, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, cr)
	if err != nil {
		return nil, compatError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("%s returned no choices", p.host)}
	}

	choice := resp.Choices[0]
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	return finish(req, reply{
		text: choice.Message.Content,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		model: resp.Model,
		stop:  stop,
	})
}

func (p *CompatProvider) ModelID() string {
	return p.model
}

func (p *CompatProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	system := req.System
	if req.Schema != nil && p.jsonObject {
		system = withSchemaPrompt(system, req.Schema)
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	cr := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            msgs,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}

	switch {
	case req.Schema == nil:
	case p.jsonObject:
		cr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	default:
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return cr, fmt.Errorf("marshal schema %s: %w", req.Schema.Name, err)
		}
		cr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		}
	}
	return cr, nil
}

// withSchemaPrompt appends the schema to the system prompt for hosts that
// only support JSON object mode.
func withSchemaPrompt(system string, s *Schema) string {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return system
	}
	var b strings.Builder
	if system != "" {
		b.WriteString(system)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Responde solo con un objeto JSON (%s) que cumpla este JSON Schema, sin markdown:\n%s", s.Name, def)
	return b.String()
}

func compatError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, nil, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ErrProviderUnavailable{Err: err}
}
