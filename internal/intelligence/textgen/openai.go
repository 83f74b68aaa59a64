package textgen

import (
	"context"
	"net/http"
	"strings"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com"
	defaultOpenAIModel    = "gpt-4o-mini"
)

type openAIBackend struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	hc        *http.Client
}

func newOpenAIBackend(cfg Config, hc *http.Client) *openAIBackend {
	b := &openAIBackend{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		model:     cfg.Model,
		apiKey:    cfg.resolveAPIKey(),
		maxTokens: cfg.MaxTokens,
		hc:        hc,
	}
	if b.endpoint == "" {
		b.endpoint = defaultOpenAIEndpoint
	}
	if b.model == "" {
		b.model = defaultOpenAIModel
	}
	return b
}

func (b *openAIBackend) Name() string  { return string(BackendOpenAI) }
func (b *openAIBackend) Model() string { return b.model }

type openAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (b *openAIBackend) Complete(ctx context.Context, req *Request) (*Response, error) {
	msgs := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, req.Messages...)

	var out openAIResponse
	err := postJSON(ctx, b.hc, b.endpoint+"/v1/chat/completions", openAIRequest{
		Model:     b.model,
		Messages:  msgs,
		MaxTokens: capTokens(req.MaxTokens, b.maxTokens),
	}, &out, map[string]string{"Authorization": "Bearer " + b.apiKey})
	if err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, ErrBadResponse.WithDetail("no choices")
	}
	return &Response{Text: out.Choices[0].Message.Content, Model: out.Model}, nil
}

//Personal.AI order the ending
