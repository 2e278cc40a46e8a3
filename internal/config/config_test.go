package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Workflow.StoreBackend)
	assert.Equal(t, time.Hour, cfg.Workflow.Retention)
	assert.Equal(t, 30*time.Second, cfg.Workflow.StageTimeout)
	assert.Equal(t, 2*time.Second, cfg.Workflow.AnalyzerTimeout)
	assert.Equal(t, 10, cfg.Workflow.MaxSuggestions)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WORKFLOW_STORE", "redis")
	t.Setenv("WORKFLOW_STAGE_TIMEOUT", "45s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Workflow.StoreBackend)
	assert.Equal(t, 45*time.Second, cfg.Workflow.StageTimeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("unknown store backend", func(t *testing.T) {
		t.Setenv("WORKFLOW_STORE", "etcd")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("analyzer timeout above stage timeout", func(t *testing.T) {
		t.Setenv("WORKFLOW_STAGE_TIMEOUT", "1s")
		t.Setenv("WORKFLOW_ANALYZER_TIMEOUT", "5s")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("malformed duration falls back to default", func(t *testing.T) {
		t.Setenv("WORKFLOW_RETENTION", "soon")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, time.Hour, cfg.Workflow.Retention)
	})
}
