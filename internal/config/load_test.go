package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets up environment variables for testing
func setupEnv(t *testing.T, envVars map[string]string) func() {
	// Save current environment values
	originalValues := make(map[string]string)
	for name := range envVars {
		originalValues[name] = os.Getenv(name)
	}

	// Set new environment variables
	for name, value := range envVars {
		err := os.Setenv(name, value)
		require.NoError(t, err, "Failed to set environment variable %s", name)
	}

	// Return cleanup function
	return func() {
		for name, value := range originalValues {
			if value == "" {
				os.Unsetenv(name)
			} else {
				os.Setenv(name, value)
			}
		}
	}
}

// writeConfigFile writes a YAML config file into a temp dir and returns its path.
func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smartflash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestLoadDefaults verifies the defaults used when nothing is configured.
func TestLoadDefaults(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"SMARTFLASH_SERVER_PORT":    "",
		"SMARTFLASH_LOG_LEVEL":      "",
		"SMARTFLASH_STORAGE_DRIVER": "",
		"SMARTFLASH_STORAGE_SLOT":   "",
		"SMARTFLASH_LLM_MODEL_NAME": "",
	})
	defer cleanup()

	cfg, err := Load("")

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, "info", cfg.Log.Level, "Default log level should be 'info'")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, DefaultSlot, cfg.Storage.Slot)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Equal(t, "gemini-3-flash-preview", cfg.LLM.ModelName)
	assert.Equal(t, 0, cfg.LLM.MaxRetries, "Extraction is not retried unless configured")
	assert.Equal(t, 60, cfg.Review.SessionTTLMinutes)
	assert.Equal(t, 1, cfg.Task.WorkerCount)
}

// TestLoadFromEnv verifies that environment variables are read.
func TestLoadFromEnv(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"SMARTFLASH_SERVER_PORT":                "9090",
		"SMARTFLASH_LOG_LEVEL":                  "debug",
		"SMARTFLASH_STORAGE_DRIVER":             "sqlite",
		"SMARTFLASH_STORAGE_PATH":               "/tmp/decks.db",
		"SMARTFLASH_LLM_GEMINI_API_KEY":         "test-api-key",
		"SMARTFLASH_LLM_MAX_RETRIES":            "2",
		"SMARTFLASH_TASK_QUEUE_SIZE":            "4",
		"SMARTFLASH_REVIEW_SESSION_TTL_MINUTES": "5",
	})
	defer cleanup()

	cfg, err := Load("")

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/decks.db", cfg.Storage.Path)
	assert.Equal(t, "test-api-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Equal(t, 4, cfg.Task.QueueSize)
	assert.Equal(t, 5, cfg.Review.SessionTTLMinutes)
}

// TestLoadFromFile verifies that a config file is read and env still wins.
func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 7000
storage:
  driver: redis
  redis_addr: localhost:6379
  slot: my_decks
llm:
  model_name: gemini-2.0-flash
`)

	cleanup := setupEnv(t, map[string]string{
		"SMARTFLASH_SERVER_PORT": "7001",
	})
	defer cleanup()

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port, "Environment should override the file")
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, "my_decks", cfg.Storage.Slot)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
}

// TestLoadMissingExplicitFile verifies that a named config file must exist.
func TestLoadMissingExplicitFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

// TestLoadValidationErrors verifies that the Load function correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Invalid port number",
			envVars: map[string]string{"SMARTFLASH_SERVER_PORT": "999999"},
		},
		{
			name:    "Invalid log level",
			envVars: map[string]string{"SMARTFLASH_LOG_LEVEL": "invalid-level"},
		},
		{
			name:    "Unknown storage driver",
			envVars: map[string]string{"SMARTFLASH_STORAGE_DRIVER": "mongo"},
		},
		{
			name: "Postgres without database URL",
			envVars: map[string]string{
				"SMARTFLASH_STORAGE_DRIVER":       "postgres",
				"SMARTFLASH_STORAGE_DATABASE_URL": "",
			},
		},
		{
			name: "Redis without address",
			envVars: map[string]string{
				"SMARTFLASH_STORAGE_DRIVER":     "redis",
				"SMARTFLASH_STORAGE_REDIS_ADDR": "",
			},
		},
		{
			name:    "Too many retries",
			envVars: map[string]string{"SMARTFLASH_LLM_MAX_RETRIES": "50"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanup := setupEnv(t, tc.envVars)
			defer cleanup()

			cfg, err := Load("")

			require.Error(t, err, "Load() should return an error with invalid configuration")
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg, "Config should be nil when an error occurs")
		})
	}
}
