// Package mining decides whether the character can step onto a tile and
// turns accumulated hits into collected resources.
package mining

import (
	"context"
	"fmt"

	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/window"
)

// Collector receives mined resources.
type Collector interface {
	Store(name string, amount int)
}

// Tiles is the window surface mining needs.
type Tiles interface {
	Do(ctx context.Context, fn func(*window.View) error) error
}

// Outcome describes one mining attempt.
type Outcome struct {
	// Blocked is true when the character must stay where it is this tick.
	Blocked bool `json:"blocked"`
	// Broken is the number of units taken from the tile.
	Broken   int    `json:"broken"`
	Resource string `json:"resource,omitempty"`
	// Progress is how far the hits carried over cover the tile's hardness.
	Progress float64 `json:"progress"`
}

// Miner carries hits between attempts. It is not safe for concurrent use.
type Miner struct {
	HitAccumulator int
	Strength       int
}

func New(strength int) *Miner {
	return &Miner{Strength: strength}
}

// Mine hits the tile at target once. The tile read, the amount update and
// the report to inv happen without a window transition in between.
func (m *Miner) Mine(ctx context.Context, tiles Tiles, target geom.Position, inv Collector) (Outcome, error) {
	var out Outcome
	err := tiles.Do(ctx, func(v *window.View) error {
		tile, b, err := v.GetTile(target)
		if err != nil {
			return err
		}
		if tile.Amount <= 0 {
			return nil
		}
		res, ok := b.Resource(tile.ResourceID)
		if !ok {
			return fmt.Errorf("%w: id %d in biome %q", chunk.ErrUnknownResource, tile.ResourceID, b.Name)
		}
		if !res.Solid() {
			return nil
		}

		m.HitAccumulator += m.Strength
		out.Blocked = true
		if m.HitAccumulator < res.Hardness {
			out.Progress = m.Progress(res.Hardness)
			return nil
		}

		broken := min(m.HitAccumulator/res.Hardness, tile.Amount)
		after, err := v.SetTile(target, chunk.Delta(-broken))
		if err != nil {
			return err
		}
		if after.Amount == 0 {
			m.HitAccumulator = 0
		} else {
			m.HitAccumulator -= broken * res.Hardness
		}

		out.Broken = broken
		out.Resource = res.Name
		out.Progress = m.Progress(res.Hardness)
		inv.Store(res.Name, broken)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// Progress is the fraction of hardness accumulated so far, capped at 1.
func (m *Miner) Progress(hardness int) float64 {
	if hardness < 1 {
		return 0
	}
	return float64(min(m.HitAccumulator, hardness)) / float64(hardness)
}

// Reset drops accumulated hits, e.g. when the target changes.
func (m *Miner) Reset() {
	m.HitAccumulator = 0
}
