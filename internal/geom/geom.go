// Package geom maps world tile positions onto chunk coordinates and
// in-chunk offsets. It holds no state.
package geom

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a local offset falls outside the chunk.
var ErrOutOfBounds = errors.New("local offset outside chunk bounds")

// Position is a global tile coordinate.
type Position struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func (p Position) Add(dx, dy int32) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("<%d, %d>", p.X, p.Y)
}

// ChunkCoord identifies a chunk in chunk units.
type ChunkCoord struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func (c ChunkCoord) Add(dx, dy int32) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy}
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Local is an offset inside a single chunk.
type Local struct {
	X int32
	Y int32
}

// Index returns the row-major index of the offset for a chunk of width w.
func (l Local) Index(w int32) int {
	return int(l.X + l.Y*w)
}

// Grid carries the chunk dimensions in tiles.
type Grid struct {
	W int32
	H int32
}

// Area is the number of tiles in one chunk.
func (g Grid) Area() int {
	return int(g.W) * int(g.H)
}

// ChunkOf returns the coordinate of the chunk containing pos.
func (g Grid) ChunkOf(pos Position) ChunkCoord {
	return ChunkCoord{X: floorDiv(pos.X, g.W), Y: floorDiv(pos.Y, g.H)}
}

// LocalOf returns the offset of pos inside the chunk at c. Offsets are
// never wrapped: anything outside [0,W)x[0,H) is ErrOutOfBounds.
func (g Grid) LocalOf(pos Position, c ChunkCoord) (Local, error) {
	l := Local{X: pos.X - c.X*g.W, Y: pos.Y - c.Y*g.H}
	if l.X < 0 || l.Y < 0 || l.X >= g.W || l.Y >= g.H {
		return Local{}, fmt.Errorf("%w: %d,%d not in <0, 0>..<%d, %d> (pos %s, chunk %s)",
			ErrOutOfBounds, l.X, l.Y, g.W, g.H, pos, c)
	}
	return l, nil
}

// Validate reports whether the grid has positive dimensions.
func (g Grid) Validate() error {
	if g.W <= 0 || g.H <= 0 {
		return fmt.Errorf("invalid chunk size %dx%d", g.W, g.H)
	}
	return nil
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
