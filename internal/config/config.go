// Package config defines all configuration structures for ContractLens.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	// RateLimitRPS is the per-client request rate; zero disables limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// AnalysisConfig tunes the contract analysis pipeline.
type AnalysisConfig struct {
	// Workers bounds the per-clause fan-out.
	Workers int `mapstructure:"workers"`
	// ClauseTimeout is the budget for one clause's matcher, classifier and
	// risk analyzer, including any text-generation call.
	ClauseTimeout time.Duration `mapstructure:"clause_timeout"`
	// RunTimeout bounds a whole Analyze call.
	RunTimeout    time.Duration `mapstructure:"run_timeout"`
	MaxInputChars int           `mapstructure:"max_input_chars"`
	PreviewChars  int           `mapstructure:"preview_chars"`

	TopN           int     `mapstructure:"top_n"`
	MatchThreshold float64 `mapstructure:"match_threshold"`

	// Optional catalog overrides; empty means the embedded catalog.
	TemplatesPath string `mapstructure:"templates_path"`
	PatternsPath  string `mapstructure:"patterns_path"`
	PracticesPath string `mapstructure:"practices_path"`
}

// TextGenConfig configures the optional text-generation backend used for
// Hindi translation and clause explanations.
type TextGenConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Backend        string        `mapstructure:"backend"` // "anthropic" | "openai" | "http"
	Endpoint       string        `mapstructure:"endpoint"`
	Model          string        `mapstructure:"model"`
	APIKey         string        `mapstructure:"api_key"`
	APIKeyEnv      string        `mapstructure:"api_key_env"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	TranslateHindi bool          `mapstructure:"translate_hindi"`
	ExplainClauses bool          `mapstructure:"explain_clauses"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// RedisConfig holds Redis connection parameters for the text-generation cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer/consumer parameters.
type KafkaConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Brokers       []string      `mapstructure:"brokers"`
	GroupID       string        `mapstructure:"group_id"`
	AnalysisTopic string        `mapstructure:"analysis_topic"`
	AuditTopic    string        `mapstructure:"audit_topic"`
	Acks          string        `mapstructure:"acks"` // "none" | "one" | "all"
	Compression   string        `mapstructure:"compression"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

// MinIOConfig holds object storage parameters.
type MinIOConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	DocumentsBucket string `mapstructure:"documents_bucket"`
	AuditBucket     string `mapstructure:"audit_bucket"`
	ExportsBucket   string `mapstructure:"exports_bucket"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// WorkerConfig tunes the audit archiver process.
type WorkerConfig struct {
	HealthPort    int           `mapstructure:"health_port"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	BatchSize     int           `mapstructure:"batch_size"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root configuration
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Log      logging.LogConfig `mapstructure:"log"`
	Analysis AnalysisConfig    `mapstructure:"analysis"`
	TextGen  TextGenConfig     `mapstructure:"textgen"`
	Redis    RedisConfig       `mapstructure:"redis"`
	Kafka    KafkaConfig       `mapstructure:"kafka"`
	MinIO    MinIOConfig       `mapstructure:"minio"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
	Worker   WorkerConfig      `mapstructure:"worker"`
}

// Validate checks required fields and value ranges.  Sections that are
// disabled are not validated beyond their enable flag.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("config: server.max_upload_bytes must be ≥ 1, got %d", c.Server.MaxUploadBytes)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("config: server.rate_limit_rps must be ≥ 0, got %.2f", c.Server.RateLimitRPS)
	}

	// Analysis
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("config: analysis.workers must be ≥ 1, got %d", c.Analysis.Workers)
	}
	if c.Analysis.ClauseTimeout <= 0 {
		return fmt.Errorf("config: analysis.clause_timeout must be positive")
	}
	if c.Analysis.RunTimeout < c.Analysis.ClauseTimeout {
		return fmt.Errorf("config: analysis.run_timeout (%s) must be ≥ clause_timeout (%s)",
			c.Analysis.RunTimeout, c.Analysis.ClauseTimeout)
	}
	if c.Analysis.MaxInputChars < 1 {
		return fmt.Errorf("config: analysis.max_input_chars must be ≥ 1, got %d", c.Analysis.MaxInputChars)
	}
	if c.Analysis.TopN < 1 {
		return fmt.Errorf("config: analysis.top_n must be ≥ 1, got %d", c.Analysis.TopN)
	}
	if c.Analysis.MatchThreshold < 0 || c.Analysis.MatchThreshold > 1 {
		return fmt.Errorf("config: analysis.match_threshold %.2f is outside [0, 1]", c.Analysis.MatchThreshold)
	}

	// Text generation
	if c.TextGen.Enabled {
		switch c.TextGen.Backend {
		case "anthropic", "openai":
		case "http":
			if c.TextGen.Endpoint == "" {
				return fmt.Errorf("config: textgen.endpoint is required for the http backend")
			}
		default:
			return fmt.Errorf("config: textgen.backend %q is invalid; expected anthropic|openai|http", c.TextGen.Backend)
		}
		if c.TextGen.Timeout <= 0 {
			return fmt.Errorf("config: textgen.timeout must be positive")
		}
		if c.TextGen.Timeout > c.Analysis.ClauseTimeout {
			return fmt.Errorf("config: textgen.timeout (%s) must not exceed analysis.clause_timeout (%s)",
				c.TextGen.Timeout, c.Analysis.ClauseTimeout)
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	}

	// Kafka
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
		switch c.Kafka.Acks {
		case "none", "one", "all":
		default:
			return fmt.Errorf("config: kafka.acks %q is invalid; expected none|one|all", c.Kafka.Acks)
		}
	}

	// MinIO
	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required")
		}
		if c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("config: minio credentials are required")
		}
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

//Personal.AI order the ending
