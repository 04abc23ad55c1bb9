package chunk

import (
	"fmt"

	"github.com/VoidMesh/cavern/internal/geom"
)

// Record is the persisted shape of a chunk. Tiles holds interleaved
// (resourceId, amount) pairs in row-major order.
type Record struct {
	X     int32  `json:"x"`
	Y     int32  `json:"y"`
	Biome string `json:"biome"`
	Tiles []int  `json:"tiles"`
}

// Encode flattens a chunk into its record.
func Encode(c *Chunk) Record {
	flat := make([]int, 0, len(c.Tiles)*2)
	for _, t := range c.Tiles {
		flat = append(flat, t.ResourceID, t.Amount)
	}
	return Record{X: c.Coord.X, Y: c.Coord.Y, Biome: c.Biome, Tiles: flat}
}

// Decode rebuilds a chunk from a record. area is the expected tile count.
func Decode(r Record, area int) (*Chunk, error) {
	if len(r.Tiles) != area*2 {
		return nil, fmt.Errorf("%w: chunk (%d, %d) has %d tile values, want %d",
			ErrCorruptRecord, r.X, r.Y, len(r.Tiles), area*2)
	}
	c := New(geom.ChunkCoord{X: r.X, Y: r.Y}, r.Biome, area)
	for i := range c.Tiles {
		c.Tiles[i] = Tile{ResourceID: r.Tiles[i*2], Amount: r.Tiles[i*2+1]}
	}
	return c, nil
}
