package world

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/logging"
	"github.com/VoidMesh/cavern/internal/store"
)

const quarry = `
fallback:
  name: void
  resources:
    - { name: void, weight: 1, hardness: -1 }
biomes:
  - name: quarry
    band: { center: 0, spread: 1000 }
    weight: 1
    resources:
      - { name: stone, weight: 1, hardness: 50, amount: 2 }
      - { name: grass, weight: 0, hardness: -1 }
`

var grid = geom.Grid{W: 10, H: 10}

func options(t *testing.T, seed int64) Options {
	t.Helper()
	catalog, err := biome.Load(strings.NewReader(quarry))
	require.NoError(t, err)
	return Options{
		Dimension: "overworld",
		Grid:      grid,
		Catalog:   catalog,
		Seed:      seed,
		Strength:  50,
		Logger:    logging.Discard(),
	}
}

func TestBootstrap_NewWorld(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(grid)

	sess, err := Bootstrap(ctx, s, options(t, 7))
	require.NoError(t, err)
	assert.EqualValues(t, 7, sess.Seed())
	_, err = uuid.Parse(sess.WorldID())
	assert.NoError(t, err)

	pos, err := sess.Position(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSpawn, pos)

	tile, _, err := sess.Window().GetTile(ctx, DefaultSpawn)
	require.NoError(t, err)
	assert.Zero(t, tile.Amount, "spawn is cleared")

	dim, saved, found, err := s.LoadCharacter(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "overworld", dim)
	assert.Equal(t, DefaultSpawn, saved)
}

func TestBootstrap_ExistingWorld(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(grid)

	first, err := Bootstrap(ctx, s, options(t, 7))
	require.NoError(t, err)
	_, err = first.Window().SetTile(ctx, DefaultSpawn, chunk.SetAmount(2))
	require.NoError(t, err)
	grass := "grass"
	_, err = first.Window().SetTile(ctx, DefaultSpawn.Add(1, 0), chunk.Edit{ResourceName: &grass})
	require.NoError(t, err)
	res, err := first.Step(ctx, 1, 0)
	require.NoError(t, err)
	require.True(t, res.Moved)
	require.NoError(t, first.Save(ctx))

	second, err := Bootstrap(ctx, s, options(t, 999))
	require.NoError(t, err)
	assert.EqualValues(t, 7, second.Seed(), "seed is set once at creation")
	assert.Equal(t, first.WorldID(), second.WorldID())

	pos, err := second.Position(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSpawn.Add(1, 0), pos)

	tile, _, err := second.Window().GetTile(ctx, DefaultSpawn)
	require.NoError(t, err)
	assert.Equal(t, 2, tile.Amount, "spawn is only cleared for new worlds")
}

func TestSession_StepMinesThenMoves(t *testing.T) {
	ctx := context.Background()
	sess, err := Bootstrap(ctx, store.NewMemory(grid), options(t, 7))
	require.NoError(t, err)
	target := DefaultSpawn.Add(0, -1)
	_, err = sess.Window().SetTile(ctx, target, chunk.SetAmount(2))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := sess.Step(ctx, 0, -1)
		require.NoError(t, err)
		assert.True(t, res.Mining.Blocked)
		assert.False(t, res.Moved)
		assert.Equal(t, 1, res.Mining.Broken)
		assert.Equal(t, DefaultSpawn, res.Position)
	}
	assert.Equal(t, 2, sess.Inventory().Amount("stone"))

	res, err := sess.Step(ctx, 0, -1)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, target, res.Position)
}

func TestSession_StepAcrossChunkBorder(t *testing.T) {
	ctx := context.Background()
	sess, err := Bootstrap(ctx, store.NewMemory(grid), options(t, 7))
	require.NoError(t, err)

	grass := "grass"
	for x := int32(51); x <= 60; x++ {
		_, err := sess.Window().SetTile(ctx, geom.Position{X: x, Y: 50}, chunk.Edit{ResourceName: &grass})
		require.NoError(t, err)
	}
	for range 10 {
		res, err := sess.Step(ctx, 1, 0)
		require.NoError(t, err)
		require.True(t, res.Moved)
	}

	center, _, err := sess.Window().Center(ctx)
	require.NoError(t, err)
	assert.Equal(t, geom.ChunkCoord{X: 6, Y: 5}, center)
}

func TestSession_InvalidStep(t *testing.T) {
	sess, err := Bootstrap(context.Background(), store.NewMemory(grid), options(t, 7))
	require.NoError(t, err)

	for _, d := range [][2]int32{{0, 0}, {2, 0}, {0, -2}} {
		_, err := sess.Step(context.Background(), d[0], d[1])
		assert.ErrorIs(t, err, ErrInvalidStep)
	}
}

func TestSession_Save(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(grid)
	sess, err := Bootstrap(ctx, s, options(t, 7))
	require.NoError(t, err)
	sess.Inventory().Store("stone", 4)

	require.NoError(t, sess.Save(ctx))

	assert.Equal(t, 9, s.TotalSaves())
	inv, err := s.LoadInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"stone": 4}, inv)
}

func TestSession_Reset(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(grid)
	sess, err := Bootstrap(ctx, s, options(t, 7))
	require.NoError(t, err)
	sess.Inventory().Store("stone", 4)
	require.NoError(t, sess.Save(ctx))

	before := sess.WorldID()
	require.NoError(t, sess.Reset(ctx, 99))
	assert.NotEqual(t, before, sess.WorldID())

	assert.EqualValues(t, 99, sess.Seed())
	assert.Empty(t, sess.Inventory().Snapshot())
	pos, err := sess.Position(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSpawn, pos)
	assert.Zero(t, s.TotalSaves(), "reset drops saved chunks")
}

func TestBootstrap_InvalidGrid(t *testing.T) {
	opts := options(t, 1)
	opts.Grid = geom.Grid{}
	_, err := Bootstrap(context.Background(), store.NewMemory(grid), opts)
	assert.Error(t, err)
}

func TestBootstrap_ZeroSeedPicksOne(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(grid)

	sess, err := Bootstrap(ctx, s, options(t, 0))
	require.NoError(t, err)
	assert.NotZero(t, sess.Seed())

	stored, created, err := s.EnsureSeed(ctx, 999)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sess.Seed(), stored, "the picked seed is the persisted one")

	require.NoError(t, sess.Reset(ctx, 0))
	assert.NotZero(t, sess.Seed())
}

func TestBootstrap_InvalidStrength(t *testing.T) {
	for _, strength := range []int{0, -3} {
		opts := options(t, 1)
		opts.Strength = strength
		s := store.NewMemory(grid)

		_, err := Bootstrap(context.Background(), s, opts)
		assert.ErrorIs(t, err, ErrInvalidStrength, "strength %d", strength)

		_, _, found, err := s.LoadCharacter(context.Background())
		require.NoError(t, err)
		assert.False(t, found, "nothing is written for a rejected session")
	}
}
