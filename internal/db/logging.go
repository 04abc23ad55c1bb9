package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
)

// LoggingQueries wraps the generated Queries struct to add debug logging
type LoggingQueries struct {
	*Queries
	logger *log.Logger
}

// NewLoggingQueries creates a new LoggingQueries instance
func NewLoggingQueries(db DBTX, logger *log.Logger) *LoggingQueries {
	return &LoggingQueries{
		Queries: New(db),
		logger:  logger.With("component", "db"),
	}
}

// WithTx creates a new LoggingQueries with a transaction
func (lq *LoggingQueries) WithTx(tx *sql.Tx) *LoggingQueries {
	return &LoggingQueries{
		Queries: lq.Queries.WithTx(tx),
		logger:  lq.logger,
	}
}

// Helper function to log query execution
func (lq *LoggingQueries) logQuery(queryName string, start time.Time, err error, args ...interface{}) {
	duration := time.Since(start)

	if err != nil && err != sql.ErrNoRows {
		lq.logger.Debug("Database query failed",
			"query", queryName,
			"duration", duration,
			"error", err,
			"args", args,
		)
		return
	}
	lq.logger.Debug("Database query executed",
		"query", queryName,
		"duration", duration,
		"args", args,
	)
}

// GetChunk with logging
func (lq *LoggingQueries) GetChunk(ctx context.Context, arg GetChunkParams) (Chunk, error) {
	start := time.Now()
	result, err := lq.Queries.GetChunk(ctx, arg)
	lq.logQuery("GetChunk", start, err, arg)

	if err == sql.ErrNoRows {
		lq.logger.Debug("GetChunk miss", "dim", arg.Dim, "chunk_x", arg.X, "chunk_y", arg.Y)
	}
	return result, err
}

// UpsertChunk with logging. Tile blobs are summarized by size.
func (lq *LoggingQueries) UpsertChunk(ctx context.Context, arg UpsertChunkParams) error {
	start := time.Now()
	err := lq.Queries.UpsertChunk(ctx, arg)
	lq.logQuery("UpsertChunk", start, err, arg.Dim, arg.X, arg.Y, arg.Biome, len(arg.Tiles))
	return err
}

// CountChunks with logging
func (lq *LoggingQueries) CountChunks(ctx context.Context, dim string) (int64, error) {
	start := time.Now()
	n, err := lq.Queries.CountChunks(ctx, dim)
	lq.logQuery("CountChunks", start, err, dim)
	return n, err
}

// DeleteAllChunks with logging
func (lq *LoggingQueries) DeleteAllChunks(ctx context.Context) error {
	start := time.Now()
	err := lq.Queries.DeleteAllChunks(ctx)
	lq.logQuery("DeleteAllChunks", start, err)
	return err
}

// GetMetadata with logging
func (lq *LoggingQueries) GetMetadata(ctx context.Context, key string) (string, error) {
	start := time.Now()
	result, err := lq.Queries.GetMetadata(ctx, key)
	lq.logQuery("GetMetadata", start, err, key)
	return result, err
}

// CreateMetadata with logging
func (lq *LoggingQueries) CreateMetadata(ctx context.Context, arg CreateMetadataParams) error {
	start := time.Now()
	err := lq.Queries.CreateMetadata(ctx, arg)
	lq.logQuery("CreateMetadata", start, err, arg)
	return err
}

// GetCharacter with logging
func (lq *LoggingQueries) GetCharacter(ctx context.Context, id int64) (Character, error) {
	start := time.Now()
	result, err := lq.Queries.GetCharacter(ctx, id)
	lq.logQuery("GetCharacter", start, err, id)
	return result, err
}

// UpsertCharacter with logging
func (lq *LoggingQueries) UpsertCharacter(ctx context.Context, arg UpsertCharacterParams) error {
	start := time.Now()
	err := lq.Queries.UpsertCharacter(ctx, arg)
	lq.logQuery("UpsertCharacter", start, err, arg)
	return err
}

// ListInventory with logging
func (lq *LoggingQueries) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	start := time.Now()
	result, err := lq.Queries.ListInventory(ctx)
	lq.logQuery("ListInventory", start, err)

	if err == nil {
		lq.logger.Debug("ListInventory result", "item_count", len(result))
	}
	return result, err
}

// UpsertInventoryItem with logging
func (lq *LoggingQueries) UpsertInventoryItem(ctx context.Context, arg UpsertInventoryItemParams) error {
	start := time.Now()
	err := lq.Queries.UpsertInventoryItem(ctx, arg)
	lq.logQuery("UpsertInventoryItem", start, err, arg)
	return err
}
