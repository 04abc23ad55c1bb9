package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/logging"
	"github.com/VoidMesh/cavern/internal/store"
)

func TestInventory_StoreAndUse(t *testing.T) {
	inv := New(logging.Discard())
	inv.Store("dirt", 3)
	inv.Store("dirt", 2)
	inv.Store("coal", 1)

	tests := []struct {
		name string
		cost map[string]int
		ok   bool
		want map[string]int
	}{
		{"missing kind", map[string]int{"gold": 1}, false, map[string]int{"dirt": 5, "coal": 1}},
		{"one short", map[string]int{"dirt": 1, "coal": 2}, false, map[string]int{"dirt": 5, "coal": 1}},
		{"exact", map[string]int{"dirt": 4, "coal": 1}, true, map[string]int{"dirt": 1, "coal": 0}},
		{"empty cost", map[string]int{}, true, map[string]int{"dirt": 1, "coal": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, inv.Use(tt.cost))
			assert.Equal(t, tt.want, inv.Snapshot())
		})
	}
}

func TestInventory_SnapshotIsCopy(t *testing.T) {
	inv := New(logging.Discard())
	inv.Store("sand", 1)
	snap := inv.Snapshot()
	snap["sand"] = 100
	assert.Equal(t, 1, inv.Amount("sand"))
}

func TestInventory_Persistence(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(geom.Grid{W: 4, H: 4})

	inv := New(logging.Discard())
	inv.Store("shell", 7)
	require.NoError(t, inv.Save(ctx, s))

	other := New(logging.Discard())
	other.Store("junk", 1)
	require.NoError(t, other.Load(ctx, s))
	assert.Equal(t, map[string]int{"shell": 7}, other.Snapshot())
}

type brokenPersister struct{}

var errBroken = errors.New("broken")

func (brokenPersister) LoadInventory(context.Context) (map[string]int, error) {
	return nil, errBroken
}

func (brokenPersister) SaveInventory(context.Context, map[string]int) error {
	return errBroken
}

func TestInventory_PersistenceErrors(t *testing.T) {
	inv := New(logging.Discard())
	inv.Store("dirt", 1)

	assert.ErrorIs(t, inv.Load(context.Background(), brokenPersister{}), errBroken)
	assert.ErrorIs(t, inv.Save(context.Background(), brokenPersister{}), errBroken)
	assert.Equal(t, 1, inv.Amount("dirt"), "failed load keeps contents")
}
