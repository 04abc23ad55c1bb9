// Package gen synthesizes chunks deterministically from a chunk
// coordinate and the world seed.
package gen

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/geom"
)

// Generator is safe for concurrent use; it holds only immutable state.
type Generator struct {
	catalog *biome.Catalog
	grid    geom.Grid
	seed    uint32
	logger  *log.Logger
}

// New returns a generator for one world. Only the low 32 bits of seed
// take part in hashing.
func New(catalog *biome.Catalog, grid geom.Grid, seed int64, logger *log.Logger) *Generator {
	return &Generator{
		catalog: catalog,
		grid:    grid,
		seed:    uint32(seed),
		logger:  logger.With("component", "generator"),
	}
}

func (g *Generator) Catalog() *biome.Catalog {
	return g.catalog
}

func (g *Generator) Grid() geom.Grid {
	return g.grid
}

// Generate builds the chunk at coord. Two calls with the same coordinate
// on generators sharing a seed and catalog return identical chunks.
func (g *Generator) Generate(coord geom.ChunkCoord) *chunk.Chunk {
	start := time.Now()
	rng := NewMulberry32(HashCoords(coord.X, coord.Y, g.seed))

	b := g.pickBiome(coord.Y, rng)
	c := chunk.New(coord, b.Name, g.grid.Area())
	for i := range c.Tiles {
		c.Tiles[i] = pickResource(b, rng)
	}

	g.logger.Debug("Generated chunk",
		"chunk_x", coord.X,
		"chunk_y", coord.Y,
		"biome", b.Name,
		"duration", time.Since(start),
	)
	return c
}

func (g *Generator) pickBiome(y int32, rng *Mulberry32) *biome.Biome {
	var (
		eligible []*biome.Biome
		total    float64
	)
	for _, b := range g.catalog.Biomes() {
		if b.Eligible(y) {
			eligible = append(eligible, b)
			total += b.Weight
		}
	}
	if len(eligible) == 0 {
		return g.catalog.Fallback()
	}

	r := rng.Float64() * total
	for _, b := range eligible {
		r -= b.Weight
		if r <= 0 {
			return b
		}
	}
	return eligible[len(eligible)-1]
}

func pickResource(b *biome.Biome, rng *Mulberry32) chunk.Tile {
	r := rng.Float64() * b.TotalWeight()
	id := len(b.Resources) - 1
	for i, res := range b.Resources {
		r -= res.Weight
		if r <= 0 {
			id = i
			break
		}
	}
	res := b.Resources[id]
	amount := res.Amount + int(math.Floor((rng.Float64()*2-1)*float64(res.Spread)))
	return chunk.Tile{ResourceID: id, Amount: amount}
}
