package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/geom"
)

func surfacePool(t *testing.T) *biome.Biome {
	t.Helper()
	c, err := biome.Default()
	require.NoError(t, err)
	b, ok := c.Lookup("surface")
	require.True(t, ok)
	return b
}

func ptr[T any](v T) *T { return &v }

func TestApply(t *testing.T) {
	pool := surfacePool(t)

	tests := []struct {
		name    string
		start   Tile
		edit    Edit
		want    Tile
		wantErr error
	}{
		{
			name:  "large negative delta clamps at zero",
			start: Tile{ResourceID: 0, Amount: 3},
			edit:  Delta(-1000),
			want:  Tile{ResourceID: 0, Amount: 0},
		},
		{
			name:  "positive delta",
			start: Tile{ResourceID: 0, Amount: 3},
			edit:  Delta(2),
			want:  Tile{ResourceID: 0, Amount: 5},
		},
		{
			name:  "absolute amount overrides delta",
			start: Tile{ResourceID: 0, Amount: 3},
			edit:  Edit{Amount: ptr(7), DeltaAmount: -100},
			want:  Tile{ResourceID: 0, Amount: 7},
		},
		{
			name:  "negative absolute amount clamps",
			start: Tile{ResourceID: 0, Amount: 3},
			edit:  SetAmount(-4),
			want:  Tile{ResourceID: 0, Amount: 0},
		},
		{
			name:  "resource by name",
			start: Tile{ResourceID: 0, Amount: 1},
			edit:  Edit{ResourceName: ptr("coal")},
			want:  Tile{ResourceID: 4, Amount: 1},
		},
		{
			name:  "resource by id",
			start: Tile{ResourceID: 0, Amount: 1},
			edit:  Edit{ResourceID: ptr(3)},
			want:  Tile{ResourceID: 3, Amount: 1},
		},
		{
			name:    "unknown resource name",
			start:   Tile{ResourceID: 0, Amount: 1},
			edit:    Edit{ResourceName: ptr("shell")},
			want:    Tile{ResourceID: 0, Amount: 1},
			wantErr: ErrUnknownResource,
		},
		{
			name:    "out of range id",
			start:   Tile{ResourceID: 0, Amount: 1},
			edit:    Edit{ResourceID: ptr(99), DeltaAmount: -1},
			want:    Tile{ResourceID: 0, Amount: 1},
			wantErr: ErrUnknownResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := tt.start
			err := Apply(&tile, pool, tt.edit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, tile)
		})
	}
}

func TestApply_NeverNegative(t *testing.T) {
	pool := surfacePool(t)
	tile := Tile{Amount: 10}
	for _, d := range []int{-3, -20, 5, -1, -1, 100, -250, 0, 7, -8} {
		require.NoError(t, Apply(&tile, pool, Delta(d)))
		assert.GreaterOrEqual(t, tile.Amount, 0)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	c := New(geom.ChunkCoord{X: -2, Y: 5}, "beach", 4)
	c.Tiles[0] = Tile{ResourceID: 1, Amount: 7}
	c.Tiles[3] = Tile{ResourceID: 2, Amount: 9}

	rec := Encode(c)
	assert.Equal(t, []int{1, 7, 0, 0, 0, 0, 2, 9}, rec.Tiles)

	back, err := Decode(rec, 4)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestDecode_WrongLength(t *testing.T) {
	_, err := Decode(Record{Biome: "beach", Tiles: []int{1, 2, 3}}, 4)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestClone(t *testing.T) {
	c := New(geom.ChunkCoord{}, "surface", 2)
	cp := c.Clone()
	cp.Tiles[0].Amount = 5
	assert.Equal(t, 0, c.Tiles[0].Amount)
}
