package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MANDALART_CONFIG_FILE", "MANDALART_MODE", "MANDALART_PORT", "PORT",
		"MANDALART_LOG_LEVEL", "MANDALART_GCP_PROJECT", "MANDALART_GCP_LOCATION",
		"MANDALART_GEMINI_API_KEY", "GEMINI_API_KEY", "MANDALART_MODEL_NAME",
		"MANDALART_TEMPERATURE", "MANDALART_STORAGE_BACKEND", "MANDALART_REDIS_ADDR",
		"MANDALART_USE_MOCK_LLM",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.True(t, cfg.UseMockLLM, "local mode without credentials falls back to the mock")
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MANDALART_PORT", "9090")
	t.Setenv("MANDALART_GEMINI_API_KEY", "key")
	t.Setenv("MANDALART_TEMPERATURE", "0.2")
	t.Setenv("MANDALART_STORAGE_BACKEND", "redis")
	t.Setenv("MANDALART_REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.InDelta(t, 0.2, cfg.Temperature, 0.0001)
	assert.False(t, cfg.UseMockLLM)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "mandalart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7070"
modelName: gemini-2.5-pro
storageBackend: firestore
gcpProject: from-file
useMockLlm: true
`), 0o600))

	t.Setenv("MANDALART_CONFIG_FILE", path)
	t.Setenv("MANDALART_MODEL_NAME", "gemini-2.5-flash-lite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.ModelName, "env wins over file")
	assert.Equal(t, StorageFirestore, cfg.StorageBackend)
	assert.Equal(t, "from-file", cfg.GCPProjectID)
	assert.True(t, cfg.UseMockLLM)
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MANDALART_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults with mock", mutate: func(c *Config) { c.UseMockLLM = true }},
		{
			name:    "gcp without project",
			mutate:  func(c *Config) { c.Mode = ModeGCP; c.UseMockLLM = true },
			wantErr: "gcp mode",
		},
		{
			name:    "no credentials and no mock",
			mutate:  func(c *Config) {},
			wantErr: "Gemini API key",
		},
		{
			name:    "firestore without project",
			mutate:  func(c *Config) { c.UseMockLLM = true; c.StorageBackend = StorageFirestore },
			wantErr: "firestore",
		},
		{
			name:    "redis without address",
			mutate:  func(c *Config) { c.UseMockLLM = true; c.StorageBackend = StorageRedis; c.RedisAddr = "" },
			wantErr: "redis",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.UseMockLLM = true; c.StorageBackend = "sqlite" },
			wantErr: `unknown storage backend "sqlite"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
