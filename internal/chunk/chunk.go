// Package chunk defines the in-memory chunk and tile layout and the
// flattened record shape chunks are persisted in.
package chunk

import (
	"errors"
	"fmt"

	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/geom"
)

var (
	ErrUnknownResource = errors.New("resource not in biome pool")
	ErrCorruptRecord   = errors.New("corrupt chunk record")
)

// Tile is the smallest addressable unit of terrain.
type Tile struct {
	ResourceID int `json:"resource_id"`
	Amount     int `json:"amount"`
}

// Chunk is a fixed-size grid of tiles stored row-major.
type Chunk struct {
	Coord geom.ChunkCoord
	Biome string
	Tiles []Tile
}

// New allocates a chunk with area zeroed tiles.
func New(coord geom.ChunkCoord, biomeName string, area int) *Chunk {
	return &Chunk{
		Coord: coord,
		Biome: biomeName,
		Tiles: make([]Tile, area),
	}
}

// At returns the tile at a local offset. The offset must come from
// geom.Grid.LocalOf for the same grid.
func (c *Chunk) At(l geom.Local, w int32) *Tile {
	return &c.Tiles[l.Index(w)]
}

// Clone returns a deep copy.
func (c *Chunk) Clone() *Chunk {
	out := &Chunk{Coord: c.Coord, Biome: c.Biome, Tiles: make([]Tile, len(c.Tiles))}
	copy(out.Tiles, c.Tiles)
	return out
}

// Edit describes a tile mutation. ResourceName takes precedence over
// ResourceID; Amount, when set, overrides DeltaAmount.
type Edit struct {
	Amount       *int    `json:"amount,omitempty"`
	ResourceID   *int    `json:"resource_id,omitempty"`
	ResourceName *string `json:"resource_name,omitempty"`
	DeltaAmount  int     `json:"delta_amount,omitempty"`
}

// Delta is shorthand for an Edit that only adjusts the amount.
func Delta(d int) Edit {
	return Edit{DeltaAmount: d}
}

// SetAmount is shorthand for an Edit with an absolute amount.
func SetAmount(n int) Edit {
	return Edit{Amount: &n}
}

// Apply mutates t in place. The resulting amount is clamped at zero.
func Apply(t *Tile, pool *biome.Biome, e Edit) error {
	id := t.ResourceID
	switch {
	case e.ResourceName != nil:
		i, ok := pool.ResourceIndex(*e.ResourceName)
		if !ok {
			return fmt.Errorf("%w: %q in biome %q", ErrUnknownResource, *e.ResourceName, pool.Name)
		}
		id = i
	case e.ResourceID != nil:
		if _, ok := pool.Resource(*e.ResourceID); !ok {
			return fmt.Errorf("%w: id %d in biome %q", ErrUnknownResource, *e.ResourceID, pool.Name)
		}
		id = *e.ResourceID
	}

	amount := t.Amount + e.DeltaAmount
	if e.Amount != nil {
		amount = *e.Amount
	}
	if amount < 0 {
		amount = 0
	}

	t.ResourceID = id
	t.Amount = amount
	return nil
}
