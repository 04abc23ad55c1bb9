package window

import (
	"context"
	"fmt"

	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/geom"
)

// View gives direct tile access while the caller holds the window gate.
// It must not be retained after the function passed to Do returns.
type View struct {
	w *Window
}

// Do runs fn with the gate held, so a sequence of reads and writes is
// never interleaved with a transition or another caller.
func (w *Window) Do(ctx context.Context, fn func(*View) error) error {
	if err := w.acquire(ctx); err != nil {
		return err
	}
	defer w.release()

	if w.broken != nil {
		return w.stalled()
	}
	if !w.ready {
		return ErrNotReady
	}
	return fn(&View{w: w})
}

// GetTile returns a copy of the tile at pos and the biome of its chunk.
func (w *Window) GetTile(ctx context.Context, pos geom.Position) (chunk.Tile, *biome.Biome, error) {
	var (
		t chunk.Tile
		b *biome.Biome
	)
	err := w.Do(ctx, func(v *View) error {
		var err error
		t, b, err = v.GetTile(pos)
		return err
	})
	return t, b, err
}

// SetTile applies e to the tile at pos and returns the updated tile.
func (w *Window) SetTile(ctx context.Context, pos geom.Position, e chunk.Edit) (chunk.Tile, error) {
	var t chunk.Tile
	err := w.Do(ctx, func(v *View) error {
		var err error
		t, err = v.SetTile(pos, e)
		return err
	})
	return t, err
}

// Cell is one tile in a Visible listing.
type Cell struct {
	Pos      geom.Position  `json:"pos"`
	Tile     chunk.Tile     `json:"tile"`
	Biome    string         `json:"biome"`
	Resource biome.Resource `json:"resource"`
}

// Visible lists the tiles of the square of the given radius around the
// cursor, row by row. The radius is capped so the square never leaves
// the window.
func (w *Window) Visible(ctx context.Context, radius int32) ([]Cell, error) {
	var cells []Cell
	err := w.Do(ctx, func(v *View) error {
		var err error
		cells, err = v.Visible(radius)
		return err
	})
	return cells, err
}

// Cursor returns the cursor position.
func (v *View) Cursor() geom.Position {
	return v.w.cursor
}

// Grid returns the chunk dimensions.
func (v *View) Grid() geom.Grid {
	return v.w.grid
}

func (v *View) locate(pos geom.Position) (*chunk.Chunk, *chunk.Tile, *biome.Biome, error) {
	w := v.w
	coord := w.grid.ChunkOf(pos)
	dx, dy := coord.X-w.center.X, coord.Y-w.center.Y
	if !inRange(dx, dy) {
		return nil, nil, nil, fmt.Errorf("%w: %s is in chunk %s, window centre %s",
			ErrOutOfWindow, pos, coord, w.center)
	}

	c := w.slots[slot(dx, dy)]
	l, err := w.grid.LocalOf(pos, c.Coord)
	if err != nil {
		return nil, nil, nil, err
	}
	b, ok := w.gen.Catalog().Lookup(c.Biome)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %q in chunk %s", ErrUnknownBiome, c.Biome, c.Coord)
	}
	return c, c.At(l, w.grid.W), b, nil
}

// GetTile returns a copy of the tile at pos and the biome of its chunk.
func (v *View) GetTile(pos geom.Position) (chunk.Tile, *biome.Biome, error) {
	_, t, b, err := v.locate(pos)
	if err != nil {
		return chunk.Tile{}, nil, err
	}
	return *t, b, nil
}

// SetTile applies e to the tile at pos. The tile is left untouched when
// the edit is rejected.
func (v *View) SetTile(pos geom.Position, e chunk.Edit) (chunk.Tile, error) {
	_, t, b, err := v.locate(pos)
	if err != nil {
		return chunk.Tile{}, err
	}
	if err := chunk.Apply(t, b, e); err != nil {
		return chunk.Tile{}, err
	}
	return *t, nil
}

// Visible lists the tiles around the cursor. See Window.Visible.
func (v *View) Visible(radius int32) ([]Cell, error) {
	g := v.w.grid
	radius = max(0, min(radius, g.W, g.H))

	c := v.w.cursor
	cells := make([]Cell, 0, (2*radius+1)*(2*radius+1))
	for y := c.Y - radius; y <= c.Y+radius; y++ {
		for x := c.X - radius; x <= c.X+radius; x++ {
			pos := geom.Position{X: x, Y: y}
			ch, t, b, err := v.locate(pos)
			if err != nil {
				return nil, err
			}
			res, _ := b.Resource(t.ResourceID)
			cells = append(cells, Cell{Pos: pos, Tile: *t, Biome: ch.Biome, Resource: res})
		}
	}
	return cells, nil
}
