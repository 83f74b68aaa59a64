package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/ContractLens/pkg/errors"
)

type stubBackend struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
	delay time.Duration
}

func (s *stubBackend) Name() string  { return "stub" }
func (s *stubBackend) Model() string { return "stub-1" }

func (s *stubBackend) Complete(ctx context.Context, _ *Request) (*Response, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Text: s.text, Model: "stub-1"}, nil
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Backend: BackendHTTP, Timeout: time.Second}
	assert.Error(t, cfg.Validate())

	cfg.Endpoint = "http://localhost:1"
	assert.NoError(t, cfg.Validate())

	cfg = Config{Backend: BackendAnthropic, Timeout: time.Second}
	assert.Error(t, cfg.Validate())
	cfg.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())

	assert.Error(t, (&Config{Backend: "grpc", Timeout: time.Second}).Validate())
}

func TestConfig_APIKeyFromEnv(t *testing.T) {
	t.Setenv("CL_TEST_KEY", " secret ")
	cfg := Config{Backend: BackendOpenAI, APIKeyEnv: "CL_TEST_KEY", Timeout: time.Second}
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "secret", cfg.resolveAPIKey())
}

func TestClient_ExplainReturnsFirstSentence(t *testing.T) {
	c := NewClient(&stubBackend{text: "  You must pay within 30 days. Late fees apply.  "}, time.Second)
	out, err := c.ExplainClause(context.Background(), "Payment", "Payment within 30 days.", "Payment")
	require.NoError(t, err)
	assert.Equal(t, "You must pay within 30 days.", out)
}

func TestClient_EmptyCompletionIsBadResponse(t *testing.T) {
	c := NewClient(&stubBackend{text: "   "}, time.Second)
	_, err := c.TranslateToEnglish(context.Background(), "भुगतान 30 दिनों में")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadResponse))
}

func TestClient_TimeoutMapsToStageTimeout(t *testing.T) {
	c := NewClient(&stubBackend{text: "late", delay: time.Second}, 20*time.Millisecond)
	_, err := c.ExplainClause(context.Background(), "Term", "Three years.", "Term")
	require.Error(t, err)
	assert.True(t, errors.IsStageTimeout(err))
}

func TestClient_NilIsUnavailable(t *testing.T) {
	var c *Client
	_, err := c.call(context.Background(), &Request{Operation: OpExplain})
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestPromptSet_TranslateRejectsOversizeInput(t *testing.T) {
	ps := DefaultPromptSet()
	ps.MaxTranslateRunes = 10
	_, err := ps.Translate(strings.Repeat("क", 11))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	_, err = ps.Translate("  ")
	assert.True(t, errors.IsInputError(err))
}

func TestPromptSet_ExplainRendersHeadingAndIntent(t *testing.T) {
	req, err := DefaultPromptSet().Explain("", "Either party may terminate.", "Termination")
	require.NoError(t, err)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "(none)")
	assert.Contains(t, req.Messages[0].Content, "Termination")
	assert.Equal(t, OpExplain, req.Operation)
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "One.", firstSentence("One. Two."))
	assert.Equal(t, "No terminator", firstSentence("No terminator"))
	assert.Equal(t, "Pay 1.5 lakh now.", firstSentence("Pay 1.5 lakh now. Then more."))
	assert.Equal(t, "भुगतान करें।", firstSentence("भुगतान करें। बाकी"))
}

func TestAnthropicBackend_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		var body anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sys", body.System)
		assert.Equal(t, 100, body.MaxTokens)
		_, _ = w.Write([]byte(`{"model":"m","content":[{"type":"text","text":"hello"}]}`))
	}))
	defer srv.Close()

	b, err := NewBackend(Config{Backend: BackendAnthropic, Endpoint: srv.URL, APIKey: "k", Timeout: time.Second, MaxTokens: 100}, srv.Client())
	require.NoError(t, err)
	resp, err := b.Complete(context.Background(), &Request{System: "sys", Messages: []Message{{Role: "user", Content: "hi"}}, MaxTokens: 500})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
}

func TestOpenAIBackend_StatusMapping(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.WriteHeader(status)
	}))
	defer srv.Close()

	b, err := NewBackend(Config{Backend: BackendOpenAI, Endpoint: srv.URL, APIKey: "k", Timeout: time.Second}, srv.Client())
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), &Request{})
	assert.True(t, errors.Is(err, ErrUnavailable))

	status = http.StatusBadRequest
	_, err = b.Complete(context.Background(), &Request{})
	assert.True(t, errors.Is(err, ErrFailed))
}

func TestOpenAIBackend_PrependsSystemMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	b, err := NewBackend(Config{Backend: BackendOpenAI, Endpoint: srv.URL, APIKey: "k", Timeout: time.Second}, srv.Client())
	require.NoError(t, err)
	resp, err := b.Complete(context.Background(), &Request{System: "s", Messages: []Message{{Role: "user", Content: "u"}}})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
}

func TestHTTPBackend_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	b, err := NewBackend(Config{Backend: BackendHTTP, Endpoint: srv.URL, Timeout: time.Second}, srv.Client())
	require.NoError(t, err)
	_, err = b.Complete(context.Background(), &Request{Operation: OpTranslate})
	assert.True(t, errors.Is(err, ErrBadResponse))
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) GetOrSet(ctx context.Context, key string, dest interface{}, _ time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		v, err := loader(ctx)
		if err != nil {
			return err
		}
		if raw, err = json.Marshal(v); err != nil {
			return err
		}
		m.mu.Lock()
		m.data[key] = raw
		m.mu.Unlock()
	}
	return json.Unmarshal(raw, dest)
}

func TestCachedBackend_MemoisesSuccessOnly(t *testing.T) {
	stub := &stubBackend{text: "cached"}
	b := NewCachedBackend(stub, &memCache{data: map[string][]byte{}}, time.Hour)
	req := &Request{Operation: OpExplain, Messages: []Message{{Role: "user", Content: "x"}}}

	for i := 0; i < 3; i++ {
		resp, err := b.Complete(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "cached", resp.Text)
	}
	assert.Equal(t, 1, stub.calls)

	failing := &stubBackend{err: ErrFailed}
	fb := NewCachedBackend(failing, &memCache{data: map[string][]byte{}}, time.Hour)
	_, err := fb.Complete(context.Background(), req)
	require.Error(t, err)
	_, _ = fb.Complete(context.Background(), req)
	assert.Equal(t, 2, failing.calls)
}

func TestCacheKey_DependsOnPrompt(t *testing.T) {
	stub := &stubBackend{}
	a := cacheKey(stub, &Request{Operation: OpExplain, Messages: []Message{{Role: "user", Content: "a"}}})
	b := cacheKey(stub, &Request{Operation: OpExplain, Messages: []Message{{Role: "user", Content: "b"}}})
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "textgen:explain:"))
}

func TestNewCachedBackend_NilCachePassesThrough(t *testing.T) {
	stub := &stubBackend{}
	assert.Same(t, Backend(stub), NewCachedBackend(stub, nil, time.Hour))
}

//Personal.AI order the ending
