// Package bootstrap assembles a running ContractLens process from its
// configuration.  The API server, the worker, the MCP server and the CLI all
// start here so that optional infrastructure is wired the same way
// everywhere.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ContractLens/internal/application/analysis"
	"github.com/turtacn/ContractLens/internal/config"
	"github.com/turtacn/ContractLens/internal/infrastructure/database/redis"
	"github.com/turtacn/ContractLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractLens/internal/infrastructure/storage/minio"
	"github.com/turtacn/ContractLens/internal/intelligence/catalog"
	"github.com/turtacn/ContractLens/internal/intelligence/textgen"
	httpapi "github.com/turtacn/ContractLens/internal/interfaces/http"
	"github.com/turtacn/ContractLens/internal/interfaces/http/handlers"
	"github.com/turtacn/ContractLens/internal/interfaces/http/middleware"
)

// App holds the wired components of one process.  Optional infrastructure
// that is disabled in the configuration stays nil.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	Catalog   *catalog.Catalog
	Service   analysis.Service

	TextGen  *textgen.Client
	Redis    *redis.Client
	Producer *kafka.Producer
	MinIO    *minio.MinIOClient
	Archive  *minio.ContractArchive

	checkers []handlers.HealthChecker
	closers  []func() error
}

type options struct {
	logger      logging.Logger
	noTextGen   bool
	noMessaging bool
}

// Option adjusts how New wires the process.
type Option func(*options)

// WithLogger replaces the logger built from cfg.Log.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithoutMessaging skips the Kafka producer even when kafka.enabled is set.
// One-shot CLI runs use it.
func WithoutMessaging() Option {
	return func(o *options) { o.noMessaging = true }
}

// WithoutTextGen skips the text-generation backend.
func WithoutTextGen() Option {
	return func(o *options) { o.noTextGen = true }
}

// New builds an App.  A failure to reach an explicitly enabled Kafka or
// MinIO is fatal; text generation and its cache degrade to disabled with a
// warning because the pipeline never needs them.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	app := &App{Config: cfg}
	if err := app.initLogger(o.logger); err != nil {
		return nil, err
	}
	if err := app.initMetrics(); err != nil {
		return nil, err
	}

	cat, err := catalog.Load(catalog.Options{
		TemplatesPath: cfg.Analysis.TemplatesPath,
		PatternsPath:  cfg.Analysis.PatternsPath,
		PracticesPath: cfg.Analysis.PracticesPath,
	})
	if err != nil {
		return nil, err
	}
	app.Catalog = cat

	svcOpts := []analysis.Option{
		analysis.WithLogger(app.Logger),
		analysis.WithMetrics(app.Metrics),
	}

	if cfg.TextGen.Enabled && !o.noTextGen {
		app.initTextGen()
		if app.TextGen != nil {
			if cfg.TextGen.TranslateHindi {
				svcOpts = append(svcOpts, analysis.WithTranslator(app.TextGen))
			}
			if cfg.TextGen.ExplainClauses {
				svcOpts = append(svcOpts, analysis.WithExplainer(app.TextGen))
			}
		}
	}

	if cfg.Kafka.Enabled && !o.noMessaging {
		if err := app.initProducer(); err != nil {
			app.Close()
			return nil, err
		}
		svcOpts = append(svcOpts, analysis.WithPublisher(
			analysis.NewKafkaPublisher(app.Producer, cfg.Kafka.AnalysisTopic, cfg.Kafka.AuditTopic)))
	}

	if cfg.MinIO.Enabled {
		if err := app.initStorage(ctx); err != nil {
			app.Close()
			return nil, err
		}
		svcOpts = append(svcOpts, analysis.WithReportStore(app.Archive))
	}

	app.Service = analysis.NewService(cat, cfg.Analysis, svcOpts...)
	return app, nil
}

func (a *App) initLogger(l logging.Logger) error {
	if l == nil {
		var err error
		l, err = logging.NewLogger(a.Config.Log)
		if err != nil {
			return fmt.Errorf("bootstrap: logger: %w", err)
		}
	}
	a.Logger = l
	logging.SetDefault(l)
	return nil
}

func (a *App) initMetrics() error {
	if !a.Config.Metrics.Enabled {
		return nil
	}
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            a.Config.Metrics.Namespace,
		EnableGoMetrics:      true,
		EnableProcessMetrics: true,
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("bootstrap: metrics: %w", err)
	}
	a.Collector = c
	a.Metrics = prometheus.NewAppMetrics(c)
	return nil
}

func (a *App) initTextGen() {
	tg := a.Config.TextGen
	backend, err := textgen.NewBackend(textgen.Config{
		Backend:   textgen.BackendType(tg.Backend),
		Endpoint:  tg.Endpoint,
		Model:     tg.Model,
		APIKey:    tg.APIKey,
		APIKeyEnv: tg.APIKeyEnv,
		Timeout:   tg.Timeout,
		MaxTokens: tg.MaxTokens,
	}, nil)
	if err != nil {
		a.Logger.Warn("text generation disabled", logging.Err(err), logging.String("backend", tg.Backend))
		return
	}

	if a.Config.Redis.Enabled {
		rc := a.Config.Redis
		client, err := redis.NewClient(&redis.RedisConfig{
			Addr:         rc.Addr,
			Password:     rc.Password,
			DB:           rc.DB,
			PoolSize:     rc.PoolSize,
			DialTimeout:  rc.DialTimeout,
			ReadTimeout:  rc.ReadTimeout,
			WriteTimeout: rc.WriteTimeout,
		}, a.Logger)
		if err != nil {
			a.Logger.Warn("text generation cache disabled", logging.Err(err), logging.String("addr", rc.Addr))
		} else {
			a.Redis = client
			a.closers = append(a.closers, client.Close)
			a.checkers = append(a.checkers, handlers.CheckFunc{Component: "redis", Fn: client.Ping})
			cache := redis.NewRedisCache(client, a.Logger,
				redis.WithPrefix(rc.KeyPrefix+"textgen:"),
				redis.WithDefaultTTL(tg.CacheTTL),
				redis.WithMetrics(a.Metrics, "textgen"))
			backend = textgen.NewCachedBackend(backend, cache, tg.CacheTTL)
		}
	}

	a.TextGen = textgen.NewClient(backend, tg.Timeout,
		textgen.WithLogger(a.Logger),
		textgen.WithMetrics(a.Metrics))
	a.Logger.Info("text generation enabled",
		logging.String("backend", backend.Name()),
		logging.String("model", backend.Model()),
		logging.Bool("cached", a.Redis != nil))
}

func (a *App) initProducer() error {
	kc := a.Config.Kafka
	p, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:          kc.Brokers,
		Acks:             kc.Acks,
		CompressionCodec: kc.Compression,
		WriteTimeout:     kc.WriteTimeout,
	}, a.Logger, a.Metrics)
	if err != nil {
		return fmt.Errorf("bootstrap: kafka producer: %w", err)
	}
	a.Producer = p
	a.closers = append(a.closers, p.Close)
	return nil
}

func (a *App) initStorage(ctx context.Context) error {
	mc := a.Config.MinIO
	client, err := minio.NewMinIOClient(ctx, &minio.MinIOConfig{
		Endpoint:        mc.Endpoint,
		AccessKeyID:     mc.AccessKeyID,
		SecretAccessKey: mc.SecretAccessKey,
		UseSSL:          mc.UseSSL,
		Region:          mc.Region,
		Buckets: minio.BucketConfig{
			Documents: mc.DocumentsBucket,
			Audit:     mc.AuditBucket,
			Exports:   mc.ExportsBucket,
		},
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("bootstrap: minio: %w", err)
	}
	a.MinIO = client
	a.closers = append(a.closers, client.Close)
	a.checkers = append(a.checkers, storageCheck{client: client})
	a.Archive = minio.NewContractArchive(minio.NewMinIORepository(client, a.Logger, a.Metrics), client.Buckets())
	return nil
}

// bucketInspector is the part of the MinIO client the storage check needs.
type bucketInspector interface {
	HealthCheck(ctx context.Context) (*minio.HealthStatus, error)
	GetBucketStats(ctx context.Context, bucket string) (*minio.BucketStats, error)
	Buckets() minio.BucketConfig
}

// storageCheck reports MinIO readiness, and per-bucket usage on
// /healthz/detail.
type storageCheck struct {
	client bucketInspector
}

func (storageCheck) Name() string { return "minio" }

func (s storageCheck) Check(ctx context.Context) error {
	status, err := s.client.HealthCheck(ctx)
	if err != nil {
		return err
	}
	if !status.Healthy {
		return fmt.Errorf("minio: %s", status.Error)
	}
	return nil
}

func (s storageCheck) Describe(ctx context.Context) (any, error) {
	b := s.client.Buckets()
	out := make(map[string]*minio.BucketStats, 3)
	for _, name := range []string{b.Documents, b.Audit, b.Exports} {
		stats, err := s.client.GetBucketStats(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = stats
	}
	return out, nil
}

// HealthCheckers returns the readiness checks of the wired infrastructure.
func (a *App) HealthCheckers() []handlers.HealthChecker {
	return append([]handlers.HealthChecker(nil), a.checkers...)
}

// Router builds the HTTP API for this App.
func (a *App) Router(version string) *gin.Engine {
	srv := a.Config.Server
	cfg := httpapi.RouterConfig{
		Mode:            srv.Mode,
		AnalysisHandler: handlers.NewAnalysisHandler(a.Service, a.documentStore(), srv.MaxUploadBytes, a.Logger),
		TemplateHandler: handlers.NewTemplateHandler(a.Catalog),
		HealthHandler:   handlers.NewHealthHandler(version, a.Metrics, a.checkers...),
		Logging:         middleware.DefaultLoggingConfig(),
		Logger:          a.Logger,
		Metrics:         a.Metrics,
	}
	if a.Archive != nil {
		cfg.ReportHandler = handlers.NewReportHandler(a.Archive, 0)
	}
	if len(srv.AllowedOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = srv.AllowedOrigins
		cfg.CORS = &cors
	}
	if srv.RateLimitRPS > 0 {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = srv.RateLimitRPS
		rl.BurstSize = srv.RateLimitBurst
		limiter := middleware.NewTokenBucketLimiter(rl.RequestsPerSecond, rl.BurstSize, rl.CleanupInterval)
		a.closers = append(a.closers, func() error { limiter.Stop(); return nil })
		cfg.RateLimiter = limiter
		cfg.RateLimit = rl
	}
	if a.Collector != nil {
		cfg.MetricsCollector = a.Collector
		cfg.MetricsPath = a.Config.Metrics.Path
	}
	return httpapi.NewRouter(cfg)
}

// ProbeRouter serves only the health probes and the metrics endpoint.  The
// audit worker uses it.
func (a *App) ProbeRouter(version string) *gin.Engine {
	cfg := httpapi.RouterConfig{
		Mode:          a.Config.Server.Mode,
		HealthHandler: handlers.NewHealthHandler(version, a.Metrics, a.checkers...),
		Logging:       middleware.DefaultLoggingConfig(),
		Logger:        a.Logger,
		Metrics:       a.Metrics,
	}
	if a.Collector != nil {
		cfg.MetricsCollector = a.Collector
		cfg.MetricsPath = a.Config.Metrics.Path
	}
	return httpapi.NewRouter(cfg)
}

// documentStore avoids handing a typed nil to the handler.
func (a *App) documentStore() handlers.DocumentStore {
	if a.Archive == nil {
		return nil
	}
	return a.Archive
}

// Close releases infrastructure in reverse order of creation.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return first
}

// ShutdownContext returns a context bounded by the server shutdown timeout.
func (a *App) ShutdownContext() (context.Context, context.CancelFunc) {
	d := a.Config.Server.ShutdownTimeout
	if d <= 0 {
		d = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), d)
}

//Personal.AI order the ending
