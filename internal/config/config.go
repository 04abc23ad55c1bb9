package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	World    WorldConfig
}

type ServerConfig struct {
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	AutosaveInterval time.Duration
}

type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

type WorldConfig struct {
	Dimension   string
	ChunkWidth  int
	ChunkHeight int
	// Seed is only used when a new world is created. Zero picks one from
	// the clock.
	Seed          int64
	BiomeCatalog  string
	MinerStrength int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             getEnvStr("PORT", "8080"),
			ReadTimeout:      getEnvDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:     getEnvDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:      getEnvDuration("IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
			AutosaveInterval: getEnvDuration("AUTOSAVE_INTERVAL", 60*time.Second),
		},
		Database: DatabaseConfig{
			Path:            getEnvStr("DB_PATH", "./cavern.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 4),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 4),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnvStr("LOG_LEVEL", "info"),
			Format: getEnvStr("LOG_FORMAT", "text"),
		},
		World: WorldConfig{
			Dimension:     getEnvStr("WORLD_DIMENSION", "overworld"),
			ChunkWidth:    getEnvInt("CHUNK_WIDTH", 100),
			ChunkHeight:   getEnvInt("CHUNK_HEIGHT", 100),
			Seed:          getEnvInt64("WORLD_SEED", 0),
			BiomeCatalog:  getEnvStr("BIOME_CATALOG", ""),
			MinerStrength: getEnvInt("MINER_STRENGTH", 1),
		},
	}
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
