package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "https://broad-bad-9cd25.rtioalb2250.workers.dev", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, "1234", cfg.ScorePageCode)
	assert.Equal(t, "1345", cfg.ScoreSecret)
	assert.Equal(t, SlotStoreSQLite, cfg.SlotStore)
	assert.NotEmpty(t, cfg.ProfilePath)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, "text", cfg.Output)
}

func TestLoadClientFromEnv(t *testing.T) {
	t.Setenv("FESTIVAL_BACKEND", "local")
	t.Setenv("FESTIVAL_API_TIMEOUT", "5s")
	t.Setenv("FESTIVAL_SCORE_PAGE_CODE", "9999")
	t.Setenv("FESTIVAL_SLOT_STORE", "memory")
	t.Setenv("FESTIVAL_PROFILE", "/tmp/p.db")
	t.Setenv("FESTIVAL_SEED_DEMO", "false")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, "9999", cfg.ScorePageCode)
	assert.Equal(t, SlotStoreMemory, cfg.SlotStore)
	assert.Equal(t, "/tmp/p.db", cfg.ProfilePath)
	assert.False(t, cfg.SeedDemo)
}

func TestLoadClientRejectsBadValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("FESTIVAL_BACKEND", "cloud")
		_, err := LoadClient()
		assert.Error(t, err)
	})
	t.Run("slot store", func(t *testing.T) {
		t.Setenv("FESTIVAL_SLOT_STORE", "etcd")
		_, err := LoadClient()
		assert.Error(t, err)
	})
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("FESTIVAL_API_TIMEOUT", "soon")
		_, err := LoadClient()
		assert.Error(t, err)
	})
	t.Run("output", func(t *testing.T) {
		t.Setenv("FESTIVAL_OUTPUT", "yaml")
		_, err := LoadClient()
		assert.Error(t, err)
	})
}

func TestLoadServer(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, "1345", cfg.ScoreSecret)

	t.Setenv("STORAGE_TYPE", "redis")
	_, err = LoadServer()
	assert.Error(t, err)

	t.Setenv("REDIS_URL", "redis://localhost:6379")
	cfg, err = LoadServer()
	require.NoError(t, err)
	assert.Equal(t, StorageTypeRedis, cfg.StorageType)
}
