package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/db"
	"github.com/VoidMesh/cavern/internal/geom"
)

const (
	seedKey     = "seed"
	worldIDKey  = "world_id"
	characterID = 0
)

// SQLite is the WorldStore backed by the sqlite schema in internal/db.
type SQLite struct {
	db      *sql.DB
	queries *db.LoggingQueries
	grid    geom.Grid
	logger  *log.Logger
}

func NewSQLite(database *sql.DB, grid geom.Grid, logger *log.Logger) *SQLite {
	return &SQLite{
		db:      database,
		queries: db.NewLoggingQueries(database, logger),
		grid:    grid,
		logger:  logger.With("component", "chunk-store"),
	}
}

func (s *SQLite) Load(ctx context.Context, dim string, coord geom.ChunkCoord) (*chunk.Chunk, error) {
	row, err := s.queries.GetChunk(ctx, db.GetChunkParams{
		Dim: dim,
		X:   int64(coord.X),
		Y:   int64(coord.Y),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chunk %s: %w", coord, err)
	}

	flat, err := decodeTiles(row.Tiles)
	if err != nil {
		return nil, fmt.Errorf("failed to decode chunk %s: %w", coord, err)
	}
	c, err := chunk.Decode(chunk.Record{X: coord.X, Y: coord.Y, Biome: row.Biome, Tiles: flat}, s.grid.Area())
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded chunk", "dim", dim, "chunk_x", coord.X, "chunk_y", coord.Y)
	return c, nil
}

func (s *SQLite) Save(ctx context.Context, dim string, c *chunk.Chunk) error {
	rec := chunk.Encode(c)
	err := s.queries.UpsertChunk(ctx, db.UpsertChunkParams{
		Dim:   dim,
		X:     int64(rec.X),
		Y:     int64(rec.Y),
		Biome: rec.Biome,
		Tiles: encodeTiles(rec.Tiles),
	})
	if err != nil {
		return fmt.Errorf("failed to save chunk %s: %w", c.Coord, err)
	}
	return nil
}

// ChunkCount reports how many chunks of dim are stored.
func (s *SQLite) ChunkCount(ctx context.Context, dim string) (int64, error) {
	n, err := s.queries.CountChunks(ctx, dim)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

func (s *SQLite) EnsureSeed(ctx context.Context, candidate int64) (int64, bool, error) {
	stored, created, err := s.ensureMetadata(ctx, seedKey, strconv.FormatInt(candidate, 10))
	if err != nil {
		return 0, false, err
	}
	seed, err := strconv.ParseInt(stored, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("stored world seed %q: %w", stored, err)
	}
	return seed, created, nil
}

func (s *SQLite) EnsureWorldID(ctx context.Context, candidate string) (string, error) {
	id, _, err := s.ensureMetadata(ctx, worldIDKey, candidate)
	return id, err
}

// ensureMetadata writes candidate under key unless a value exists and
// returns whichever value is stored afterwards.
func (s *SQLite) ensureMetadata(ctx context.Context, key, candidate string) (string, bool, error) {
	existing, err := s.queries.GetMetadata(ctx, key)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return "", false, fmt.Errorf("failed to read metadata %q: %w", key, err)
	}

	if err := s.queries.CreateMetadata(ctx, db.CreateMetadataParams{Key: key, Value: candidate}); err != nil {
		return "", false, fmt.Errorf("failed to store metadata %q: %w", key, err)
	}

	stored, err := s.queries.GetMetadata(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read metadata %q: %w", key, err)
	}
	return stored, stored == candidate, nil
}

func (s *SQLite) LoadCharacter(ctx context.Context) (string, geom.Position, bool, error) {
	c, err := s.queries.GetCharacter(ctx, characterID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", geom.Position{}, false, nil
	}
	if err != nil {
		return "", geom.Position{}, false, fmt.Errorf("failed to load character: %w", err)
	}
	return c.Dim, geom.Position{X: int32(c.X), Y: int32(c.Y)}, true, nil
}

func (s *SQLite) SaveCharacter(ctx context.Context, dim string, pos geom.Position) error {
	err := s.queries.UpsertCharacter(ctx, db.UpsertCharacterParams{
		ID:  characterID,
		Dim: dim,
		X:   int64(pos.X),
		Y:   int64(pos.Y),
	})
	if err != nil {
		return fmt.Errorf("failed to save character: %w", err)
	}
	return nil
}

func (s *SQLite) LoadInventory(ctx context.Context) (map[string]int, error) {
	items, err := s.queries.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	out := make(map[string]int, len(items))
	for _, it := range items {
		out[it.Name] = int(it.Amount)
	}
	return out, nil
}

func (s *SQLite) SaveInventory(ctx context.Context, items map[string]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)
	for name, amount := range items {
		if err := q.UpsertInventoryItem(ctx, db.UpsertInventoryItemParams{Name: name, Amount: int64(amount)}); err != nil {
			return fmt.Errorf("failed to save inventory item %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Reset wipes chunks of every dimension together with the seed,
// character and inventory.
func (s *SQLite) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)
	for _, del := range []func(context.Context) error{
		q.DeleteAllChunks,
		q.DeleteCharacters,
		q.DeleteInventory,
		q.DeleteMetadata,
	} {
		if err := del(ctx); err != nil {
			return fmt.Errorf("failed to reset world: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Warn("World storage reset")
	return nil
}
