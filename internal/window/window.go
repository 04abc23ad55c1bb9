// Package window keeps the 3x3 block of chunks centred on the cursor
// resident in memory and streams chunks in and out of a ChunkStore as
// the cursor crosses chunk borders.
package window

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/gen"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/logging"
	"github.com/VoidMesh/cavern/internal/store"
)

var (
	// ErrOutOfWindow is returned for positions whose chunk is not one of
	// the nine resident chunks.
	ErrOutOfWindow = errors.New("position outside chunk window")
	// ErrStalled is returned by every operation after a transition failed
	// and before Recover or Reset succeeded.
	ErrStalled = errors.New("chunk window stalled")
	// ErrNotReady is returned by tile operations before the first Move.
	ErrNotReady = errors.New("chunk window not initialized")
	// ErrUnknownBiome means a resident chunk names a biome the catalog
	// does not define.
	ErrUnknownBiome = errors.New("unknown biome")
)

const size = 3

// slot maps an offset in {-1,0,1} on both axes to an index in the slot
// array.
func slot(dx, dy int32) int {
	return int((dy+1)*size + (dx + 1))
}

func inRange(dx, dy int32) bool {
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

// Window is safe for concurrent use. All operations are serialized on a
// single-permit semaphore, so tile access never observes a half-applied
// transition.
type Window struct {
	store  store.ChunkStore
	gen    *gen.Generator
	grid   geom.Grid
	dim    string
	logger *log.Logger

	gate *semaphore.Weighted

	// guarded by gate
	slots  [size * size]*chunk.Chunk
	center geom.ChunkCoord
	cursor geom.Position
	ready  bool
	broken error
	retry  geom.Position
}

// New returns an empty window. Nothing is loaded until the first Move.
func New(cs store.ChunkStore, g *gen.Generator, dim string, logger *log.Logger) *Window {
	return &Window{
		store:  cs,
		gen:    g,
		grid:   g.Grid(),
		dim:    dim,
		logger: logging.WithComponent(logger, "window").With("dim", dim),
		gate:   semaphore.NewWeighted(1),
	}
}

func (w *Window) Grid() geom.Grid {
	return w.grid
}

// acquire waits for the gate. ctx only bounds the wait.
func (w *Window) acquire(ctx context.Context) error {
	if err := w.gate.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for chunk window: %w", err)
	}
	return nil
}

func (w *Window) release() {
	w.gate.Release(1)
}

func (w *Window) stalled() error {
	return fmt.Errorf("%w: %w", ErrStalled, w.broken)
}

// Move places the cursor at pos and brings the nine chunks around it into
// memory. Once the transition has started it runs to completion even if
// ctx is cancelled.
func (w *Window) Move(ctx context.Context, pos geom.Position) error {
	if err := w.acquire(ctx); err != nil {
		return err
	}
	defer w.release()

	if w.broken != nil {
		return w.stalled()
	}
	return w.transition(context.WithoutCancel(ctx), pos)
}

// Recover re-runs the transition that failed. On success the window
// accepts operations again.
func (w *Window) Recover(ctx context.Context) error {
	if err := w.acquire(ctx); err != nil {
		return err
	}
	defer w.release()

	if w.broken == nil {
		return nil
	}
	w.logger.Info("Retrying failed transition", "x", w.retry.X, "y", w.retry.Y)
	return w.transition(context.WithoutCancel(ctx), w.retry)
}

// Reset drops every resident chunk without saving and clears a previous
// failure. The next Move refills the window.
func (w *Window) Reset(ctx context.Context) error {
	if err := w.acquire(ctx); err != nil {
		return err
	}
	defer w.release()

	w.slots = [size * size]*chunk.Chunk{}
	w.ready = false
	w.broken = nil
	w.logger.Warn("Chunk window reset")
	return nil
}

// SaveAll persists the nine resident chunks in parallel.
func (w *Window) SaveAll(ctx context.Context) error {
	if err := w.acquire(ctx); err != nil {
		return err
	}
	defer w.release()

	if w.broken != nil {
		return w.stalled()
	}
	if !w.ready {
		return nil
	}

	start := time.Now()
	if err := w.persist(context.WithoutCancel(ctx), w.slots[:]); err != nil {
		w.logger.Error("Failed to save chunk window", "error", err)
		return err
	}
	w.logger.Debug("Saved chunk window", "duration", time.Since(start))
	return nil
}

// Center returns the coordinate of the middle chunk and whether the
// window has been filled yet.
func (w *Window) Center(ctx context.Context) (geom.ChunkCoord, bool, error) {
	if err := w.acquire(ctx); err != nil {
		return geom.ChunkCoord{}, false, err
	}
	defer w.release()
	return w.center, w.ready, nil
}

// Cursor returns the position of the last successful Move.
func (w *Window) Cursor(ctx context.Context) (geom.Position, error) {
	if err := w.acquire(ctx); err != nil {
		return geom.Position{}, err
	}
	defer w.release()
	return w.cursor, nil
}

// Snapshot returns deep copies of the resident chunks, indexed by slot.
func (w *Window) Snapshot(ctx context.Context) ([]*chunk.Chunk, error) {
	if err := w.acquire(ctx); err != nil {
		return nil, err
	}
	defer w.release()

	if w.broken != nil {
		return nil, w.stalled()
	}
	if !w.ready {
		return nil, ErrNotReady
	}
	out := make([]*chunk.Chunk, 0, len(w.slots))
	for _, c := range w.slots {
		out = append(out, c.Clone())
	}
	return out, nil
}

// persist saves chunks in parallel. Every started save runs to
// completion; the first error is returned.
func (w *Window) persist(ctx context.Context, chunks []*chunk.Chunk) error {
	var g errgroup.Group
	for _, c := range chunks {
		if c == nil {
			continue
		}
		g.Go(func() error {
			if err := w.store.Save(ctx, w.dim, c); err != nil {
				return fmt.Errorf("save chunk %s: %w", c.Coord, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// loadOrGenerate returns the stored chunk at coord, or a freshly
// generated one when the store has none.
func (w *Window) loadOrGenerate(ctx context.Context, coord geom.ChunkCoord) (*chunk.Chunk, error) {
	c, err := w.store.Load(ctx, w.dim, coord)
	if err != nil {
		return nil, fmt.Errorf("load chunk %s: %w", coord, err)
	}
	if c != nil {
		return c, nil
	}
	return w.gen.Generate(coord), nil
}
