package bootstrap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/ContractLens/internal/application/audit"
	"github.com/turtacn/ContractLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/ContractLens/internal/interfaces/http"
)

// RunAuditWorker consumes the audit topic and archives batches to object
// storage until ctx is cancelled.  Both Kafka and MinIO must be wired.
// A probe server with /healthz, /readyz and metrics listens on
// worker.health_port.
func RunAuditWorker(ctx context.Context, app *App, version string) error {
	if app.Producer == nil || app.Archive == nil {
		return fmt.Errorf("bootstrap: audit worker needs kafka.enabled and minio.enabled")
	}
	kc := app.Config.Kafka
	wc := app.Config.Worker
	log := app.Logger.Named("worker")

	if tm, err := kafka.NewTopicManager(kc.Brokers, log); err != nil {
		log.Warn("topic manager unavailable, assuming topics exist", logging.Err(err))
	} else {
		if err := tm.EnsureTopics(ctx, kafka.DefaultTopics(kc.AnalysisTopic, kc.AuditTopic, 1)); err != nil {
			log.Warn("failed to ensure topics", logging.Err(err))
		}
		_ = tm.Close()
	}

	archiver := audit.NewArchiver(app.Archive,
		audit.WithBatchSize(wc.BatchSize),
		audit.WithFlushInterval(wc.FlushInterval),
		audit.WithArchiverLogger(log),
		audit.WithArchiverMetrics(app.Metrics))

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: kc.Brokers,
		GroupID: kc.GroupID,
		Topics:  []string{kc.AuditTopic},
		RetryConfig: kafka.RetryConfig{
			DeadLetterTopic: kafka.TopicDeadLetterDefault,
		},
	}, app.Producer, log, app.Metrics)
	if err != nil {
		return fmt.Errorf("bootstrap: kafka consumer: %w", err)
	}
	defer consumer.Close()
	if err := consumer.Subscribe(kc.AuditTopic, archiver.Handle); err != nil {
		return err
	}

	probeCfg := app.Config.Server
	probeCfg.Port = wc.HealthPort
	probe := httpapi.NewServer(probeCfg, app.ProbeRouter(version), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return probe.Start() })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := app.ShutdownContext()
		defer cancel()
		return probe.Stop(shutdownCtx)
	})
	g.Go(func() error {
		if err := consumer.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})
	g.Go(func() error { return archiver.Run(gctx) })

	log.Info("audit worker started",
		logging.String("topic", kc.AuditTopic),
		logging.Int("batch_size", wc.BatchSize),
		logging.Duration("flush_interval", wc.FlushInterval),
		logging.String("probe_addr", probe.Addr()))

	return g.Wait()
}

//Personal.AI order the ending
