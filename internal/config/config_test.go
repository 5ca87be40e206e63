package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
uniprot:
  contact: someone@example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "someone@example.com", cfg.UniProt.Contact)
	assert.Equal(t, "https://www.uniprot.org/uniprot/", cfg.UniProt.ListURL)
	assert.Equal(t, "https://www.uniprot.org/batch/", cfg.UniProt.BatchURL)
	assert.Equal(t, 10, cfg.UniProt.PollIntervalSeconds)
	assert.Equal(t, 50, cfg.UniProt.PollBudget)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
uniprot:
  contact: someone@example.com
  poll_interval_seconds: 2
  poll_budget: 10
redis:
  enabled: true
  addr: redis.internal:6379
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.UniProt.PollIntervalSeconds)
	assert.Equal(t, 10, cfg.UniProt.PollBudget)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingContact(t *testing.T) {
	path := writeConfig(t, `
uniprot:
  list_url: https://www.uniprot.org/uniprot/
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact is required")
}

func TestLoad_GateRequiresRedis(t *testing.T) {
	path := writeConfig(t, `
uniprot:
  contact: someone@example.com
  min_request_interval_ms: 500
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires redis.enabled")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_PollBudget(t *testing.T) {
	cfg := &Config{
		UniProt: UniProtConfig{
			Contact:    "someone@example.com",
			PollBudget: 0,
		},
	}

	err := validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll_budget")
}
