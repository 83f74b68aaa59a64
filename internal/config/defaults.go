package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 30 * time.Second
	DefaultServerWriteTimeout    = 60 * time.Second
	DefaultServerShutdownTimeout = 30 * time.Second
	DefaultMaxUploadBytes        = 10 << 20
	DefaultRateLimitBurst        = 10

	DefaultAnalysisWorkers   = 8
	DefaultClauseTimeout     = 5 * time.Second
	DefaultRunTimeout        = 60 * time.Second
	DefaultMaxInputChars     = 400_000
	DefaultPreviewChars      = 500
	DefaultTopN              = 3
	DefaultMatchThreshold    = 0.15

	DefaultTextGenBackend   = "anthropic"
	DefaultTextGenTimeout   = 4 * time.Second
	DefaultTextGenMaxTokens = 1024
	DefaultTextGenCacheTTL  = 7 * 24 * time.Hour

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "contractlens:"

	DefaultKafkaBroker        = "localhost:9092"
	DefaultKafkaGroupID       = "contractlens-audit"
	DefaultKafkaAnalysisTopic = "contract.analyzed"
	DefaultKafkaAuditTopic    = "audit.log"
	DefaultKafkaAcks          = "one"
	DefaultKafkaWriteTimeout  = 10 * time.Second

	DefaultMinIOEndpoint        = "localhost:9000"
	DefaultMinIORegion          = "us-east-1"
	DefaultMinIODocumentsBucket = "contractlens-documents"
	DefaultMinIOAuditBucket     = "contractlens-audit"
	DefaultMinIOExportsBucket   = "contractlens-exports"

	DefaultMetricsNamespace = "contractlens"
	DefaultMetricsPath      = "/metrics"

	DefaultWorkerHealthPort    = 8081
	DefaultWorkerFlushInterval = 30 * time.Second
	DefaultWorkerBatchSize     = 200

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly configured (non-zero) values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Server.RateLimitRPS > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = DefaultAnalysisWorkers
	}
	if cfg.Analysis.ClauseTimeout == 0 {
		cfg.Analysis.ClauseTimeout = DefaultClauseTimeout
	}
	if cfg.Analysis.RunTimeout == 0 {
		cfg.Analysis.RunTimeout = DefaultRunTimeout
	}
	if cfg.Analysis.MaxInputChars == 0 {
		cfg.Analysis.MaxInputChars = DefaultMaxInputChars
	}
	if cfg.Analysis.PreviewChars == 0 {
		cfg.Analysis.PreviewChars = DefaultPreviewChars
	}
	if cfg.Analysis.TopN == 0 {
		cfg.Analysis.TopN = DefaultTopN
	}
	if cfg.Analysis.MatchThreshold == 0 {
		cfg.Analysis.MatchThreshold = DefaultMatchThreshold
	}

	// ── Text generation ───────────────────────────────────────────────────────
	if cfg.TextGen.Backend == "" {
		cfg.TextGen.Backend = DefaultTextGenBackend
	}
	if cfg.TextGen.Timeout == 0 {
		cfg.TextGen.Timeout = DefaultTextGenTimeout
	}
	if cfg.TextGen.MaxTokens == 0 {
		cfg.TextGen.MaxTokens = DefaultTextGenMaxTokens
	}
	if cfg.TextGen.CacheTTL == 0 {
		cfg.TextGen.CacheTTL = DefaultTextGenCacheTTL
	}
	if cfg.TextGen.APIKeyEnv == "" {
		switch cfg.TextGen.Backend {
		case "openai":
			cfg.TextGen.APIKeyEnv = "OPENAI_API_KEY"
		case "anthropic":
			cfg.TextGen.APIKeyEnv = "ANTHROPIC_API_KEY"
		}
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AnalysisTopic == "" {
		cfg.Kafka.AnalysisTopic = DefaultKafkaAnalysisTopic
	}
	if cfg.Kafka.AuditTopic == "" {
		cfg.Kafka.AuditTopic = DefaultKafkaAuditTopic
	}
	if cfg.Kafka.Acks == "" {
		cfg.Kafka.Acks = DefaultKafkaAcks
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
	if cfg.MinIO.DocumentsBucket == "" {
		cfg.MinIO.DocumentsBucket = DefaultMinIODocumentsBucket
	}
	if cfg.MinIO.AuditBucket == "" {
		cfg.MinIO.AuditBucket = DefaultMinIOAuditBucket
	}
	if cfg.MinIO.ExportsBucket == "" {
		cfg.MinIO.ExportsBucket = DefaultMinIOExportsBucket
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.HealthPort == 0 {
		cfg.Worker.HealthPort = DefaultWorkerHealthPort
	}
	if cfg.Worker.FlushInterval == 0 {
		cfg.Worker.FlushInterval = DefaultWorkerFlushInterval
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = DefaultWorkerBatchSize
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.  The
// CLI uses it when no config file is given.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
