package window

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/logging"
)

// Direction names a one-chunk shift of the window centre.
type Direction string

const (
	ShiftLeft  Direction = "left"
	ShiftRight Direction = "right"
	ShiftUp    Direction = "up"
	ShiftDown  Direction = "down"
)

// shifts is keyed by the sign of the centre delta. Y grows downwards.
var shifts = map[[2]int32]Direction{
	{-1, 0}: ShiftLeft,
	{1, 0}:  ShiftRight,
	{0, -1}: ShiftUp,
	{0, 1}:  ShiftDown,
}

func sign(v int32) int32 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// transition brings the window to pos. Called with the gate held. New
// state is installed only when every load and save succeeded.
func (w *Window) transition(ctx context.Context, pos geom.Position) error {
	next := w.grid.ChunkOf(pos)
	if w.ready && next == w.center {
		w.cursor = pos
		w.broken = nil
		return nil
	}

	dx, dy := next.X-w.center.X, next.Y-w.center.Y
	dir, isShift := shifts[[2]int32{sign(dx), sign(dy)}]
	isShift = isShift && w.ready && abs(dx)+abs(dy) == 1

	start := time.Now()
	var (
		slots [size * size]*chunk.Chunk
		err   error
		kind  = "refill"
	)
	if isShift {
		kind = string(dir)
		slots, err = w.shift(ctx, next, dx, dy)
	} else {
		slots, err = w.refill(ctx, next)
	}

	logger := logging.WithChunkCoords(w.logger, next.X, next.Y).With("kind", kind)
	if err != nil {
		w.broken = err
		w.retry = pos
		logger.Error("Chunk window transition failed", "error", err, "duration", time.Since(start))
		return err
	}

	w.slots = slots
	w.center = next
	w.cursor = pos
	w.ready = true
	w.broken = nil
	logger.Debug("Chunk window transition", "duration", time.Since(start))
	return nil
}

// refill persists every resident chunk, then loads all nine around next.
func (w *Window) refill(ctx context.Context, next geom.ChunkCoord) ([size * size]*chunk.Chunk, error) {
	var out [size * size]*chunk.Chunk
	if w.ready {
		if err := w.persist(ctx, w.slots[:]); err != nil {
			return out, err
		}
	}

	var g errgroup.Group
	for oy := int32(-1); oy <= 1; oy++ {
		for ox := int32(-1); ox <= 1; ox++ {
			i, coord := slot(ox, oy), next.Add(ox, oy)
			g.Go(func() error {
				c, err := w.loadOrGenerate(ctx, coord)
				out[i] = c
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// shift re-indexes the six chunks that stay resident and, concurrently,
// saves the three that leave and loads the three that enter.
func (w *Window) shift(ctx context.Context, next geom.ChunkCoord, dx, dy int32) ([size * size]*chunk.Chunk, error) {
	var (
		out [size * size]*chunk.Chunk
		g   errgroup.Group
	)
	for oy := int32(-1); oy <= 1; oy++ {
		for ox := int32(-1); ox <= 1; ox++ {
			i := slot(ox, oy)

			// new slot (ox, oy) was old slot (ox+dx, oy+dy)
			if inRange(ox+dx, oy+dy) {
				out[i] = w.slots[slot(ox+dx, oy+dy)]
			} else {
				coord := next.Add(ox, oy)
				g.Go(func() error {
					c, err := w.loadOrGenerate(ctx, coord)
					out[i] = c
					return err
				})
			}

			// old slot (ox, oy) is kept only if it lands inside the new window
			if !inRange(ox-dx, oy-dy) {
				evicted := w.slots[i]
				g.Go(func() error {
					return w.persist(ctx, []*chunk.Chunk{evicted})
				})
			}
		}
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
