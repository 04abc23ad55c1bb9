// Package store adapts persistent storage to the load/save contract the
// chunk window consumes.
package store

import (
	"context"

	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/geom"
)

// ChunkStore persists chunks keyed by dimension and chunk coordinate.
//
// Load returns (nil, nil) when nothing is stored at coord and must not
// have side effects in that case. Save is an upsert.
type ChunkStore interface {
	Load(ctx context.Context, dim string, coord geom.ChunkCoord) (*chunk.Chunk, error)
	Save(ctx context.Context, dim string, c *chunk.Chunk) error
}

// WorldStore adds the per-world records kept next to the chunks.
type WorldStore interface {
	ChunkStore

	// EnsureSeed stores candidate as the world seed if none exists yet
	// and returns the stored seed. created reports whether candidate won.
	EnsureSeed(ctx context.Context, candidate int64) (seed int64, created bool, err error)
	// EnsureWorldID does the same for the world's identifier.
	EnsureWorldID(ctx context.Context, candidate string) (string, error)

	LoadCharacter(ctx context.Context) (dim string, pos geom.Position, found bool, err error)
	SaveCharacter(ctx context.Context, dim string, pos geom.Position) error

	LoadInventory(ctx context.Context) (map[string]int, error)
	SaveInventory(ctx context.Context, items map[string]int) error

	// Reset deletes every record of the world, chunks of all dimensions
	// included.
	Reset(ctx context.Context) error
}
