package textgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache is the subset of redis.Cache used to memoise completions.
type Cache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

type cachedBackend struct {
	next  Backend
	cache Cache
	ttl   time.Duration
}

// NewCachedBackend memoises completions of next.  Identical prompts to the
// same model return the stored text; failures are never cached.
func NewCachedBackend(next Backend, cache Cache, ttl time.Duration) Backend {
	if cache == nil {
		return next
	}
	return &cachedBackend{next: next, cache: cache, ttl: ttl}
}

func (b *cachedBackend) Name() string  { return b.next.Name() }
func (b *cachedBackend) Model() string { return b.next.Model() }

func (b *cachedBackend) Complete(ctx context.Context, req *Request) (*Response, error) {
	var out Response
	err := b.cache.GetOrSet(ctx, cacheKey(b.next, req), &out, b.ttl, func(ctx context.Context) (interface{}, error) {
		return b.next.Complete(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func cacheKey(b Backend, req *Request) string {
	h := sha256.New()
	for _, part := range []string{b.Name(), b.Model(), string(req.Operation), req.System, strconv.Itoa(req.MaxTokens)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	for _, m := range req.Messages {
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
		h.Write([]byte{0})
	}
	return "textgen:" + string(req.Operation) + ":" + hex.EncodeToString(h.Sum(nil))
}

//Personal.AI order the ending
