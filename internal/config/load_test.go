package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no stray config file is picked up.
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Learning.DailyGoal)
	assert.Equal(t, 10, cfg.Learning.RecommendationLimit)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("KANAPROG_STORAGE_BACKEND", "sqlite")
	t.Setenv("KANAPROG_STORAGE_PATH", "/tmp/progress.db")
	t.Setenv("KANAPROG_LOGGING_LEVEL", "debug")
	t.Setenv("KANAPROG_LEARNING_DAILY_GOAL", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/progress.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 25, cfg.Learning.DailyGoal)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown backend", key: "KANAPROG_STORAGE_BACKEND", value: "postgres"},
		{name: "unknown log level", key: "KANAPROG_LOGGING_LEVEL", value: "verbose"},
		{name: "zero daily goal", key: "KANAPROG_LEARNING_DAILY_GOAL", value: "0"},
		{name: "oversized recommendation limit", key: "KANAPROG_LEARNING_RECOMMENDATION_LIMIT", value: "500"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir from newer Go releases.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
}
