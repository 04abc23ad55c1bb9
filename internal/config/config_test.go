package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.AutosaveInterval)
	assert.Equal(t, "overworld", cfg.World.Dimension)
	assert.Equal(t, 100, cfg.World.ChunkWidth)
	assert.Equal(t, 100, cfg.World.ChunkHeight)
	assert.Equal(t, 1, cfg.World.MinerStrength)
	assert.Zero(t, cfg.World.Seed)
	assert.Empty(t, cfg.World.BiomeCatalog)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AUTOSAVE_INTERVAL", "5s")
	t.Setenv("CHUNK_WIDTH", "16")
	t.Setenv("WORLD_SEED", "-12345678901")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.AutosaveInterval)
	assert.Equal(t, 16, cfg.World.ChunkWidth)
	assert.EqualValues(t, -12345678901, cfg.World.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("CHUNK_HEIGHT", "tall")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 100, cfg.World.ChunkHeight)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}
