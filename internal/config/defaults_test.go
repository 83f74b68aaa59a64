package config

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reflectConfigType() reflect.Type { return reflect.TypeOf(Config{}) }

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultAnalysisWorkers, cfg.Analysis.Workers)
	assert.Equal(t, DefaultPreviewChars, cfg.Analysis.PreviewChars)
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.TextGen.APIKeyEnv)
	assert.Equal(t, DefaultMinIOAuditBucket, cfg.MinIO.AuditBucket)
	require.NoError(t, cfg.Validate())
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.TextGen.Backend = "openai"
	cfg.Kafka.Brokers = []string{"b:1"}
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "OPENAI_API_KEY", cfg.TextGen.APIKeyEnv)
	assert.Equal(t, []string{"b:1"}, cfg.Kafka.Brokers)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
