package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/ContractLens/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache Cache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	client := NewClientFromUniversal(db, nil, logging.NewNopLogger())
	s.cache = NewRedisCache(client, logging.NewNopLogger(), WithPrefix("test:"), WithJitter(0))
}

func (s *CacheTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

type explanation struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

func (s *CacheTestSuite) TestGet_Hit() {
	val := explanation{Text: "pay within 30 days", Model: "m"}
	raw, _ := json.Marshal(val)
	s.mock.ExpectGet("test:k1").SetVal(string(raw))

	var dest explanation
	s.Require().NoError(s.cache.Get(context.Background(), "k1", &dest))
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:k1").RedisNil()

	var dest explanation
	err := s.cache.Get(context.Background(), "k1", &dest)
	s.Equal(ErrCacheMiss, err)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestGet_Corrupt() {
	s.mock.ExpectGet("test:k1").SetVal("{not json")

	var dest explanation
	err := s.cache.Get(context.Background(), "k1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestSet_UsesDefaultTTL() {
	raw, _ := json.Marshal("v")
	s.mock.ExpectSet("test:k1", raw, 24*time.Hour).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "k1", "v", 0))
}

func (s *CacheTestSuite) TestSet_Error() {
	raw, _ := json.Marshal("v")
	s.mock.ExpectSet("test:k1", raw, time.Minute).SetErr(errors.New("READONLY"))

	err := s.cache.Set(context.Background(), "k1", "v", time.Minute)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "a", "b"))
	s.NoError(s.cache.Delete(context.Background()))
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func newMiniCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(&RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, nil, WithPrefix("t:")), mr
}

func TestGetOrSet_LoadsOnceAndCaches(t *testing.T) {
	cache, mr := newMiniCache(t)
	ctx := context.Background()

	var calls int32
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return explanation{Text: "loaded"}, nil
	}

	var first, second explanation
	require.NoError(t, cache.GetOrSet(ctx, "k", &first, time.Hour, loader))
	require.NoError(t, cache.GetOrSet(ctx, "k", &second, time.Hour, loader))

	assert.Equal(t, "loaded", first.Text)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists("t:k"))
}

func TestGetOrSet_ConcurrentCallersShareLoad(t *testing.T) {
	cache, _ := newMiniCache(t)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = cache.GetOrSet(ctx, "same", &results[i], time.Hour, loader)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestGetOrSet_LoaderError(t *testing.T) {
	cache, mr := newMiniCache(t)

	var dest string
	err := cache.GetOrSet(context.Background(), "k", &dest, time.Hour, func(context.Context) (interface{}, error) {
		return nil, errors.New("backend down")
	})
	assert.EqualError(t, err, "backend down")
	assert.False(t, mr.Exists("t:k"))
}

func TestGetOrSet_CacheDownStillLoads(t *testing.T) {
	cache, mr := newMiniCache(t)
	mr.Close()

	var dest string
	err := cache.GetOrSet(context.Background(), "k", &dest, time.Hour, func(context.Context) (interface{}, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", dest)
}

//Personal.AI order the ending
