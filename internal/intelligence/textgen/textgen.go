// Package textgen is the optional text-generation collaborator used for
// Hindi translation and plain-language clause explanations.  The analysis
// pipeline never depends on it for correctness: every caller has a
// deterministic fallback.
package textgen

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractLens/pkg/errors"
)

// BackendType selects the wire protocol.
type BackendType string

const (
	BackendAnthropic BackendType = "anthropic"
	BackendOpenAI    BackendType = "openai"
	BackendHTTP      BackendType = "http"
)

// Operation labels a request for metrics and caching.
type Operation string

const (
	OpTranslate Operation = "translate"
	OpExplain   Operation = "explain"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a backend-neutral completion request.
type Request struct {
	Operation Operation
	System    string
	Messages  []Message
	MaxTokens int
}

// Response carries the generated text.
type Response struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// Backend performs one completion.
type Backend interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req *Request) (*Response, error)
}

var (
	ErrUnavailable = errors.New(errors.ErrCodeTextGenUnavailable, "text generation unavailable")
	ErrFailed      = errors.New(errors.ErrCodeTextGenFailed, "text generation failed")
	ErrBadResponse = errors.New(errors.ErrCodeTextGenBadResponse, "text generation returned an unusable response")
)

// Config configures a Backend.
type Config struct {
	Backend   BackendType
	Endpoint  string
	Model     string
	APIKey    string
	APIKeyEnv string
	Timeout   time.Duration
	MaxTokens int
}

// Validate checks the configuration for the selected backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAnthropic, BackendOpenAI:
		if c.resolveAPIKey() == "" {
			return errors.New(errors.ErrCodeValidation, "api key required").WithDetail("backend=" + string(c.Backend))
		}
	case BackendHTTP:
		if c.Endpoint == "" {
			return errors.New(errors.ErrCodeValidation, "endpoint required for http backend")
		}
	default:
		return errors.New(errors.ErrCodeValidation, "unknown backend").WithDetail(string(c.Backend))
	}
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeValidation, "timeout must be positive")
	}
	return nil
}

func (c *Config) resolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.APIKeyEnv != "" {
		return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
	}
	return ""
}

// NewBackend builds the Backend named by cfg.Backend.
func NewBackend(cfg Config, hc *http.Client) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	switch cfg.Backend {
	case BackendAnthropic:
		return newAnthropicBackend(cfg, hc), nil
	case BackendOpenAI:
		return newOpenAIBackend(cfg, hc), nil
	default:
		return newHTTPBackend(cfg, hc), nil
	}
}

// Client wraps a Backend with a timeout, metrics and optional caching.
type Client struct {
	backend Backend
	timeout time.Duration
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	prompts *PromptSet
}

type ClientOption func(*Client)

func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *prometheus.AppMetrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

func NewClient(backend Backend, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		backend: backend,
		timeout: timeout,
		logger:  logging.NewNopLogger(),
		prompts: DefaultPromptSet(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.Named("textgen")
	return c
}

func (c *Client) call(ctx context.Context, req *Request) (string, error) {
	if c == nil || c.backend == nil {
		return "", ErrUnavailable
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.backend.Complete(ctx, req)
	prometheus.RecordTextGenCall(c.metrics, c.backend.Name(), string(req.Operation), err == nil, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.StageTimeout("textgen."+string(req.Operation), 0).WithCause(err)
		}
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrBadResponse.WithDetail("empty completion")
	}
	return text, nil
}

// TranslateToEnglish translates Hindi (or mixed) contract text.
func (c *Client) TranslateToEnglish(ctx context.Context, text string) (string, error) {
	req, err := c.prompts.Translate(text)
	if err != nil {
		return "", err
	}
	return c.call(ctx, req)
}

// ExplainClause returns a one-sentence plain-language explanation.
func (c *Client) ExplainClause(ctx context.Context, heading, text, intent string) (string, error) {
	req, err := c.prompts.Explain(heading, text, intent)
	if err != nil {
		return "", err
	}
	out, err := c.call(ctx, req)
	if err != nil {
		return "", err
	}
	return firstSentence(out), nil
}

func firstSentence(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' || r == '।' {
			end := i + len(string(r))
			if end == len(s) || s[end] == ' ' {
				return s[:end]
			}
		}
	}
	return s
}

//Personal.AI order the ending
