// Package world ties the chunk window, the character and the inventory
// of one persisted world together.
package world

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/gen"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/inventory"
	"github.com/VoidMesh/cavern/internal/logging"
	"github.com/VoidMesh/cavern/internal/mining"
	"github.com/VoidMesh/cavern/internal/store"
	"github.com/VoidMesh/cavern/internal/window"
)

var (
	// ErrInvalidStep is returned for steps longer than one tile per axis.
	ErrInvalidStep = errors.New("invalid step")
	// ErrInvalidStrength is returned by Bootstrap for a miner strength
	// below one.
	ErrInvalidStrength = errors.New("invalid miner strength")
)

// DefaultSpawn is where a new character starts.
var DefaultSpawn = geom.Position{X: 50, Y: 50}

type Options struct {
	Dimension string
	Grid      geom.Grid
	Catalog   *biome.Catalog
	// Seed is used only when the store holds no world yet. Zero picks
	// one from the clock.
	Seed     int64
	Strength int
	Logger   *log.Logger
}

// Session is safe for concurrent use. Steps, saves and resets are
// serialized.
type Session struct {
	mu sync.Mutex

	store  store.WorldStore
	opts   Options
	logger *log.Logger

	seed    int64
	worldID string
	window *window.Window
	inv    *inventory.Inventory
	miner  *mining.Miner
	target *geom.Position
}

// StepResult reports what a Step did.
type StepResult struct {
	Mining   mining.Outcome `json:"mining"`
	Moved    bool           `json:"moved"`
	Position geom.Position  `json:"position"`
}

// Bootstrap opens the world held by ws, creating it if needed, and fills
// the chunk window around the saved character position.
func Bootstrap(ctx context.Context, ws store.WorldStore, opts Options) (*Session, error) {
	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}
	if opts.Strength < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStrength, opts.Strength)
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetLogger()
	}

	s := &Session{
		store:  ws,
		opts:   opts,
		logger: logging.WithComponent(opts.Logger, "world").With("dim", opts.Dimension),
		inv:    inventory.New(opts.Logger),
		miner:  mining.New(opts.Strength),
	}
	if err := s.open(ctx, opts.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// open loads or creates the world. Called with mu held or before the
// session is shared.
func (s *Session) open(ctx context.Context, candidate int64) error {
	if candidate == 0 {
		candidate = time.Now().UnixNano()
	}
	seed, created, err := s.store.EnsureSeed(ctx, candidate)
	if err != nil {
		return fmt.Errorf("world seed: %w", err)
	}
	s.seed = seed

	id, err := s.store.EnsureWorldID(ctx, uuid.NewString())
	if err != nil {
		return fmt.Errorf("world id: %w", err)
	}
	s.worldID = id

	g := gen.New(s.opts.Catalog, s.opts.Grid, seed, s.opts.Logger)
	s.window = window.New(s.store, g, s.opts.Dimension, s.opts.Logger)

	if err := s.inv.Load(ctx, s.store); err != nil {
		return err
	}

	dim, pos, found, err := s.store.LoadCharacter(ctx)
	if err != nil {
		return fmt.Errorf("load character: %w", err)
	}
	if !found {
		pos = DefaultSpawn
	} else if dim != s.opts.Dimension {
		s.logger.Warn("Character saved in another dimension", "saved_dim", dim)
	}

	if err := s.window.Move(ctx, pos); err != nil {
		return fmt.Errorf("fill chunk window: %w", err)
	}

	if created {
		if _, err := s.window.SetTile(ctx, pos, chunk.SetAmount(0)); err != nil {
			return fmt.Errorf("clear spawn: %w", err)
		}
	}
	if err := s.store.SaveCharacter(ctx, s.opts.Dimension, pos); err != nil {
		return fmt.Errorf("save character: %w", err)
	}

	s.logger.Info("World opened", "world_id", id, "seed", seed, "created", created, "x", pos.X, "y", pos.Y)
	return nil
}

func (s *Session) Window() *window.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

func (s *Session) Inventory() *inventory.Inventory {
	return s.inv
}

func (s *Session) Seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// WorldID identifies the persisted world. It changes on Reset.
func (s *Session) WorldID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worldID
}

// Position returns the character position.
func (s *Session) Position(ctx context.Context) (geom.Position, error) {
	return s.Window().Cursor(ctx)
}

// Step tries to move the character by (dx, dy). The target tile is mined
// first; the character only moves when mining does not block it.
func (s *Session) Step(ctx context.Context, dx, dy int32) (StepResult, error) {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
		return StepResult{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidStep, dx, dy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.window.Cursor(ctx)
	if err != nil {
		return StepResult{}, err
	}
	to := from.Add(dx, dy)

	// hits do not carry over to a different tile
	if s.target == nil || *s.target != to {
		s.miner.Reset()
		s.target = &to
	}

	out, err := s.miner.Mine(ctx, s.window, to, s.inv)
	if out.Broken > 0 {
		logging.WithCoords(s.logger, to.X, to.Y).Debug("Mined tile", "resource", out.Resource, "broken", out.Broken)
	}
	if err != nil {
		return StepResult{}, fmt.Errorf("mine %s: %w", to, err)
	}
	res := StepResult{Mining: out, Position: from}
	if out.Blocked {
		return res, nil
	}

	if err := s.window.Move(ctx, to); err != nil {
		return res, fmt.Errorf("move to %s: %w", to, err)
	}
	s.target = nil
	res.Moved = true
	res.Position = to
	return res, nil
}

// Save persists world metadata, the character, the inventory and the
// resident chunks in parallel.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	pos, err := s.window.Cursor(ctx)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error {
		if _, _, err := s.store.EnsureSeed(ctx, s.seed); err != nil {
			return fmt.Errorf("save metadata: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.store.SaveCharacter(ctx, s.opts.Dimension, pos); err != nil {
			return fmt.Errorf("save character: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.inv.Save(ctx, s.store)
	})
	g.Go(func() error {
		return s.window.SaveAll(ctx)
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("World save failed", "error", err, "duration", time.Since(start))
		return err
	}

	s.logger.Debug("World saved", "duration", time.Since(start))
	return nil
}

// Reset deletes the persisted world and starts a new one from seed at
// the default spawn. Resident chunks are dropped without saving.
func (s *Session) Reset(ctx context.Context, seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Warn("Resetting world", "seed", seed)
	if err := s.window.Reset(ctx); err != nil {
		return err
	}
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.inv.Clear()
	s.miner.Reset()
	s.target = nil
	return s.open(ctx, seed)
}

// Recover retries a failed chunk window transition.
func (s *Session) Recover(ctx context.Context) error {
	return s.Window().Recover(ctx)
}
