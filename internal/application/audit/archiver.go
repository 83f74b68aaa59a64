package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ContractLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractLens/internal/infrastructure/storage/minio"
	"github.com/turtacn/ContractLens/pkg/errors"
)

// BatchStore persists a JSONL batch of audit records.
type BatchStore interface {
	SaveAuditBatch(ctx context.Context, batchID string, at time.Time, lines []byte) (*minio.UploadResult, error)
}

// Archiver buffers audit records consumed from the audit topic and writes
// them to object storage in batches.  A batch is written when it reaches
// batchSize records or when Run's ticker fires, whichever comes first.
// Records whose write fails stay buffered for the next flush.
type Archiver struct {
	store         BatchStore
	batchSize     int
	flushInterval time.Duration
	log           logging.Logger
	metrics       *prometheus.AppMetrics
	now           func() time.Time

	mu  sync.Mutex
	buf []*Record
}

// ArchiverOption configures an Archiver.
type ArchiverOption func(*Archiver)

func WithBatchSize(n int) ArchiverOption {
	return func(a *Archiver) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) ArchiverOption {
	return func(a *Archiver) {
		if d > 0 {
			a.flushInterval = d
		}
	}
}

func WithArchiverLogger(l logging.Logger) ArchiverOption {
	return func(a *Archiver) {
		if l != nil {
			a.log = l
		}
	}
}

func WithArchiverMetrics(m *prometheus.AppMetrics) ArchiverOption {
	return func(a *Archiver) { a.metrics = m }
}

// NewArchiver returns an Archiver writing to store.
func NewArchiver(store BatchStore, opts ...ArchiverOption) *Archiver {
	a := &Archiver{
		store:         store,
		batchSize:     200,
		flushInterval: 30 * time.Second,
		log:           logging.NewNopLogger(),
		now:           time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Handle is a kafka.MessageHandler for the audit topic.  Messages that are
// not audit envelopes are rejected so the consumer can dead-letter them.
func (a *Archiver) Handle(ctx context.Context, msg *kafka.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return err
	}
	if env.EventType != kafka.EventAuditRecorded {
		return errors.New(errors.ErrCodeValidation, "unexpected event type on audit topic").
			WithDetail("event_type=" + env.EventType)
	}
	var rec Record
	if err := env.DecodePayload(&rec); err != nil {
		return err
	}
	if rec.RequestID == "" {
		return errors.New(errors.ErrCodeValidation, "audit record without request id").WithDetail("event_id=" + env.EventID)
	}

	a.mu.Lock()
	a.buf = append(a.buf, &rec)
	full := len(a.buf) >= a.batchSize
	a.mu.Unlock()

	if full {
		if err := a.Flush(ctx); err != nil {
			a.log.Warn("audit batch flush failed; records kept for retry", logging.Err(err))
		}
	}
	return nil
}

// Pending returns the number of buffered records.
func (a *Archiver) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buf)
}

// Flush writes every buffered record as one batch.
func (a *Archiver) Flush(ctx context.Context) error {
	a.mu.Lock()
	batch := a.buf
	a.buf = nil
	a.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	lines, err := EncodeJSONL(batch)
	if err == nil {
		batchID := uuid.New().String()
		var res *minio.UploadResult
		res, err = a.store.SaveAuditBatch(ctx, batchID, a.now(), lines)
		if err == nil {
			a.log.Info("audit batch archived",
				logging.String("batch_id", batchID),
				logging.String("object_key", res.ObjectKey),
				logging.Int("records", len(batch)))
			prometheus.RecordStorageOperation(a.metrics, res.Bucket, "audit_batch", true)
			return nil
		}
	}

	prometheus.RecordStorageOperation(a.metrics, "audit", "audit_batch", false)
	a.mu.Lock()
	a.buf = append(batch, a.buf...)
	a.mu.Unlock()
	return errors.Wrap(err, errors.ErrCodeStorageError, "failed to archive audit batch")
}

// Run flushes on every tick until ctx is done, then makes a final flush
// with a short grace period.
func (a *Archiver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := a.Flush(ctx); err != nil {
				a.log.Warn("periodic audit flush failed", logging.Err(err))
			}
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return a.Flush(final)
		}
	}
}

//Personal.AI order the ending
