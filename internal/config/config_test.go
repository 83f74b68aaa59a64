package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"no workers", func(c *Config) { c.Analysis.Workers = 0 }, "analysis.workers"},
		{"run shorter than clause", func(c *Config) { c.Analysis.RunTimeout = time.Second }, "run_timeout"},
		{"threshold above one", func(c *Config) { c.Analysis.MatchThreshold = 1.5 }, "match_threshold"},
		{"unknown backend", func(c *Config) {
			c.TextGen.Enabled = true
			c.TextGen.Backend = "mystery"
		}, "textgen.backend"},
		{"http backend without endpoint", func(c *Config) {
			c.TextGen.Enabled = true
			c.TextGen.Backend = "http"
		}, "textgen.endpoint"},
		{"textgen slower than clause budget", func(c *Config) {
			c.TextGen.Enabled = true
			c.TextGen.Timeout = time.Minute
		}, "textgen.timeout"},
		{"disabled textgen skips checks", func(c *Config) { c.TextGen.Backend = "mystery" }, ""},
		{"kafka without brokers", func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, "kafka.brokers"},
		{"kafka bad acks", func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Acks = "most"
		}, "kafka.acks"},
		{"minio without credentials", func(c *Config) { c.MinIO.Enabled = true }, "minio credentials"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

//Personal.AI order the ending
