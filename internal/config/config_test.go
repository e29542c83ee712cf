package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/isaacjstriker/blockfall/games/blockfall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "APP_NAME", "DEBUG", "JWT_SECRET", "SERVER_PORT", "SERVER_HOST",
		"BEST_SCORE_KEY", "BEST_SCORE_FILE", "TUNING_FILE", "DECAY_ON_PAUSE", "ARCADE",
	} {
		// Setenv restores the original value when the test ends.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "Blockfall", cfg.AppName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "blockfall-best-score", cfg.BestScoreKey)
	assert.Equal(t, ".blockfall_best.json", cfg.BestScoreFile)
	assert.False(t, cfg.Arcade)
	assert.NotEmpty(t, cfg.JWTSecret, "an ephemeral secret is generated")
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9000\nARCADE=true\nDECAY_ON_PAUSE=freeze\nJWT_SECRET=abc\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.True(t, cfg.Arcade)
	assert.Equal(t, "abc", cfg.JWTSecret)
	assert.Equal(t, blockfall.DecayFreezeOnPause, cfg.DecayPolicy)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DECAY_ON_PAUSE", "whenever")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SERVER_PORT", "70000")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestTuningAppliesDecayOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("TUNING_FILE", filepath.Join(t.TempDir(), "none.lua"))
	t.Setenv("DECAY_ON_PAUSE", "freeze")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	tuning := cfg.Tuning()
	assert.Equal(t, blockfall.DecayFreezeOnPause, tuning.DecayPolicy)
	assert.Equal(t, blockfall.DefaultTuning().ComboWindow, tuning.ComboWindow)
}
