package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/turtacn/ContractLens/pkg/errors"
)

const (
	defaultAnthropicEndpoint = "https://api.anthropic.com"
	defaultAnthropicModel    = "claude-3-5-haiku-latest"
	anthropicVersion         = "2023-06-01"
)

type anthropicBackend struct {
	endpoint  string
	model     string
	apiKey    string
	maxTokens int
	hc        *http.Client
}

func newAnthropicBackend(cfg Config, hc *http.Client) *anthropicBackend {
	b := &anthropicBackend{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		model:     cfg.Model,
		apiKey:    cfg.resolveAPIKey(),
		maxTokens: cfg.MaxTokens,
		hc:        hc,
	}
	if b.endpoint == "" {
		b.endpoint = defaultAnthropicEndpoint
	}
	if b.model == "" {
		b.model = defaultAnthropicModel
	}
	return b
}

func (b *anthropicBackend) Name() string  { return string(BackendAnthropic) }
func (b *anthropicBackend) Model() string { return b.model }

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (b *anthropicBackend) Complete(ctx context.Context, req *Request) (*Response, error) {
	payload := anthropicRequest{
		Model:     b.model,
		MaxTokens: capTokens(req.MaxTokens, b.maxTokens),
		System:    req.System,
		Messages:  req.Messages,
	}
	var out anthropicResponse
	err := postJSON(ctx, b.hc, b.endpoint+"/v1/messages", payload, &out, map[string]string{
		"x-api-key":         b.apiKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, c := range out.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	return &Response{Text: sb.String(), Model: out.Model}, nil
}

func capTokens(requested, limit int) int {
	if requested <= 0 || (limit > 0 && requested > limit) {
		return limit
	}
	return requested
}

// postJSON sends body as JSON and decodes a 2xx response into out.  Non-2xx
// responses map to ErrUnavailable (429, 5xx) or ErrFailed (other 4xx).
func postJSON(ctx context.Context, hc *http.Client, url string, body, out interface{}, headers map[string]string) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := hc.Do(httpReq)
	if err != nil {
		return ErrUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return ErrUnavailable.WithCause(err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return ErrUnavailable.WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 300 {
		return ErrFailed.WithDetail(fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(data), 200)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return ErrBadResponse.WithCause(err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

//Personal.AI order the ending
