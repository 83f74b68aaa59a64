package textgen

import (
	"context"
	"net/http"
)

// httpBackend speaks a minimal JSON protocol for self-hosted generators:
//
//	POST <endpoint>  {"operation","system","messages","max_tokens","model"}
//	200              {"text": "...", "model": "..."}
type httpBackend struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	hc        *http.Client
}

func newHTTPBackend(cfg Config, hc *http.Client) *httpBackend {
	return &httpBackend{
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		apiKey:    cfg.resolveAPIKey(),
		maxTokens: cfg.MaxTokens,
		hc:        hc,
	}
}

func (b *httpBackend) Name() string  { return string(BackendHTTP) }
func (b *httpBackend) Model() string { return b.model }

type httpRequest struct {
	Operation string    `json:"operation"`
	Model     string    `json:"model,omitempty"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

func (b *httpBackend) Complete(ctx context.Context, req *Request) (*Response, error) {
	var headers map[string]string
	if b.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + b.apiKey}
	}
	var out Response
	err := postJSON(ctx, b.hc, b.endpoint, httpRequest{
		Operation: string(req.Operation),
		Model:     b.model,
		System:    req.System,
		Messages:  req.Messages,
		MaxTokens: capTokens(req.MaxTokens, b.maxTokens),
	}, &out, headers)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
