// Package common holds the fan-out machinery shared by the per-clause
// analysis stages.
package common

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractLens/pkg/errors"
)

var ErrShutdown = errors.New(errors.ErrCodeServiceUnavailable, "batch processor is shutting down")

// ItemStatus represents the outcome status of a single batch item.
type ItemStatus int

const (
	ItemStatusSuccess   ItemStatus = iota // processing completed successfully
	ItemStatusFailed                      // processing failed with an error
	ItemStatusTimeout                     // processing exceeded its timeout
	ItemStatusCancelled                   // processing was cancelled (context or shutdown)
)

func (s ItemStatus) String() string {
	switch s {
	case ItemStatusSuccess:
		return "SUCCESS"
	case ItemStatusFailed:
		return "FAILED"
	case ItemStatusTimeout:
		return "TIMEOUT"
	case ItemStatusCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// ProcessFunc processes a single item.
type ProcessFunc[T, R any] func(ctx context.Context, item T) (R, error)

// ItemResult holds the outcome of processing a single item.
type ItemResult[R any] struct {
	Index    int
	Result   R
	Error    error
	Duration time.Duration
	Status   ItemStatus
}

// BatchResult aggregates the outcomes of one Process call.  Results[i]
// always belongs to items[i], whatever order the workers finished in.
type BatchResult[R any] struct {
	Results       []*ItemResult[R]
	TotalCount    int
	SuccessCount  int
	FailureCount  int
	TotalDuration time.Duration
}

// BatchProcessor runs fn over every item with bounded concurrency and a
// per-item deadline.  A failing item never aborts its siblings.
type BatchProcessor[T, R any] interface {
	Process(ctx context.Context, items []T, fn ProcessFunc[T, R]) (*BatchResult[R], error)
	Shutdown(ctx context.Context) error
}

type batchConfig struct {
	maxConcurrency int
	itemTimeout    time.Duration
	batchTimeout   time.Duration
	metrics        *prometheus.AppMetrics
	logger         logging.Logger
}

// BatchOption configures a batchProcessor.
type BatchOption func(*batchConfig)

func WithMaxConcurrency(n int) BatchOption {
	return func(c *batchConfig) {
		if n > 0 {
			c.maxConcurrency = n
		}
	}
}

func WithItemTimeout(d time.Duration) BatchOption {
	return func(c *batchConfig) {
		if d > 0 {
			c.itemTimeout = d
		}
	}
}

func WithBatchTimeout(d time.Duration) BatchOption {
	return func(c *batchConfig) {
		if d > 0 {
			c.batchTimeout = d
		}
	}
}

// WithBatchMetrics reports busy workers on the analysis_active_workers gauge.
func WithBatchMetrics(m *prometheus.AppMetrics) BatchOption {
	return func(c *batchConfig) { c.metrics = m }
}

func WithBatchLogger(l logging.Logger) BatchOption {
	return func(c *batchConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

type batchProcessor[T, R any] struct {
	cfg batchConfig

	isShutdown atomic.Bool
	activeWg   sync.WaitGroup
	mu         sync.Mutex
}

// NewBatchProcessor creates a BatchProcessor.  Defaults: NumCPU workers,
// 30s per item, 5m per batch.
func NewBatchProcessor[T, R any](opts ...BatchOption) BatchProcessor[T, R] {
	cfg := batchConfig{
		maxConcurrency: runtime.NumCPU(),
		itemTimeout:    30 * time.Second,
		batchTimeout:   5 * time.Minute,
		logger:         logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &batchProcessor[T, R]{cfg: cfg}
}

func (bp *batchProcessor[T, R]) Process(ctx context.Context, items []T, fn ProcessFunc[T, R]) (*BatchResult[R], error) {
	if fn == nil {
		return nil, errors.InvalidParam("process function must not be nil")
	}

	bp.mu.Lock()
	if bp.isShutdown.Load() {
		bp.mu.Unlock()
		return nil, ErrShutdown
	}
	bp.activeWg.Add(1)
	bp.mu.Unlock()
	defer bp.activeWg.Done()

	start := time.Now()
	results := make([]*ItemResult[R], len(items))
	if len(items) == 0 {
		return &BatchResult[R]{Results: results}, nil
	}

	batchCtx, cancel := context.WithTimeout(ctx, bp.cfg.batchTimeout)
	defer cancel()

	// Workers never return an error to the group, so one failure does not
	// cancel its siblings; the group only bounds concurrency.
	var g errgroup.Group
	g.SetLimit(bp.cfg.maxConcurrency)
	for i := range items {
		idx, item := i, items[i]
		if batchCtx.Err() != nil {
			results[idx] = &ItemResult[R]{Index: idx, Error: batchCtx.Err(), Status: classifyError(batchCtx, batchCtx.Err())}
			continue
		}
		g.Go(func() error {
			results[idx] = bp.processOneItem(batchCtx, idx, item, fn)
			return nil
		})
	}
	_ = g.Wait()

	br := &BatchResult[R]{Results: results, TotalCount: len(results), TotalDuration: time.Since(start)}
	for _, r := range results {
		if r.Status == ItemStatusSuccess {
			br.SuccessCount++
		} else {
			br.FailureCount++
		}
	}
	bp.cfg.logger.Debug("batch processed",
		logging.Int("items", br.TotalCount),
		logging.Int("failed", br.FailureCount),
		logging.Duration("duration", br.TotalDuration))
	return br, nil
}

func (bp *batchProcessor[T, R]) processOneItem(batchCtx context.Context, idx int, item T, fn ProcessFunc[T, R]) (ir *ItemResult[R]) {
	done := prometheus.TrackActiveWorker(bp.cfg.metrics)
	defer done()

	start := time.Now()
	itemCtx, cancel := context.WithTimeout(batchCtx, bp.cfg.itemTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			bp.cfg.logger.Error("batch item panicked", logging.Int("index", idx), logging.Any("panic", p))
			ir = &ItemResult[R]{
				Index:    idx,
				Error:    errors.Internal("item processing panicked").WithDetail(fmt.Sprint(p)),
				Status:   ItemStatusFailed,
				Duration: time.Since(start),
			}
		}
	}()

	result, err := fn(itemCtx, item)
	if err != nil {
		return &ItemResult[R]{Index: idx, Error: err, Status: classifyError(itemCtx, err), Duration: time.Since(start)}
	}
	return &ItemResult[R]{Index: idx, Result: result, Status: ItemStatusSuccess, Duration: time.Since(start)}
}

// Shutdown stops accepting batches and waits for in-flight ones.
func (bp *batchProcessor[T, R]) Shutdown(ctx context.Context) error {
	bp.mu.Lock()
	bp.isShutdown.Store(true)
	bp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		bp.activeWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func classifyError(ctx context.Context, err error) ItemStatus {
	switch {
	case err == nil:
		return ItemStatusSuccess
	case stderrors.Is(err, context.DeadlineExceeded), errors.IsStageTimeout(err):
		return ItemStatusTimeout
	case stderrors.Is(err, context.Canceled):
		return ItemStatusCancelled
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return ItemStatusTimeout
	case ctx.Err() != nil:
		return ItemStatusCancelled
	}
	return ItemStatusFailed
}

//Personal.AI order the ending
