package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// LogLevel represents available log levels
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Options configures a logger.
type Options struct {
	Level  string
	Format string // "json", "logfmt" or "text"
	Prefix string
}

var (
	mu            sync.Mutex
	defaultLogger *log.Logger
)

// New builds a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
	})

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
		logger.SetReportCaller(true)
	}

	setLogLevel(logger, ParseLevel(opts.Level))
	return logger
}

// Init replaces the process logger. Call it once from main.
func Init(opts Options) *log.Logger {
	logger := New(os.Stderr, opts)

	mu.Lock()
	defaultLogger = logger
	mu.Unlock()

	log.SetDefault(logger)
	logger.Debug("Logger initialized", "level", ParseLevel(opts.Level), "format", opts.Format)
	return logger
}

// GetLogger returns the process logger, configuring it from LOG_LEVEL and
// LOG_FORMAT on first use.
func GetLogger() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(os.Stderr, Options{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
		})
	}
	return defaultLogger
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel maps a level name to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func setLogLevel(logger *log.Logger, level LogLevel) {
	switch level {
	case DebugLevel:
		logger.SetLevel(log.DebugLevel)
	case WarnLevel:
		logger.SetLevel(log.WarnLevel)
	case ErrorLevel:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// WithComponent creates a logger scoped to a component
func WithComponent(logger *log.Logger, component string) *log.Logger {
	return logger.With("component", component)
}

// WithChunkCoords creates a logger with chunk coordinate context
func WithChunkCoords(logger *log.Logger, chunkX, chunkY int32) *log.Logger {
	return logger.With("chunk_x", chunkX, "chunk_y", chunkY)
}

// WithCoords creates a logger with world coordinate context
func WithCoords(logger *log.Logger, x, y int32) *log.Logger {
	return logger.With("x", x, "y", y)
}
