package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_ChunkOf(t *testing.T) {
	g := Grid{W: 100, H: 100}

	tests := []struct {
		name string
		pos  Position
		want ChunkCoord
	}{
		{"origin", Position{0, 0}, ChunkCoord{0, 0}},
		{"inside first chunk", Position{99, 50}, ChunkCoord{0, 0}},
		{"next chunk right", Position{100, 0}, ChunkCoord{1, 0}},
		{"negative one", Position{-1, -1}, ChunkCoord{-1, -1}},
		{"negative exact boundary", Position{-100, -100}, ChunkCoord{-1, -1}},
		{"negative past boundary", Position{-101, 0}, ChunkCoord{-2, 0}},
		{"far positive", Position{12345, -250}, ChunkCoord{123, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.ChunkOf(tt.pos))
		})
	}
}

func TestGrid_ChunkOf_NonSquare(t *testing.T) {
	g := Grid{W: 16, H: 8}
	assert.Equal(t, ChunkCoord{X: 1, Y: 2}, g.ChunkOf(Position{X: 16, Y: 16}))
	assert.Equal(t, ChunkCoord{X: -1, Y: -1}, g.ChunkOf(Position{X: -16, Y: -8}))
}

func TestGrid_LocalOf(t *testing.T) {
	g := Grid{W: 100, H: 100}

	t.Run("positive chunk", func(t *testing.T) {
		pos := Position{X: 150, Y: 42}
		l, err := g.LocalOf(pos, g.ChunkOf(pos))
		require.NoError(t, err)
		assert.Equal(t, Local{X: 50, Y: 42}, l)
		assert.Equal(t, 50+42*100, l.Index(g.W))
	})

	t.Run("negative chunk", func(t *testing.T) {
		pos := Position{X: -1, Y: -100}
		l, err := g.LocalOf(pos, g.ChunkOf(pos))
		require.NoError(t, err)
		assert.Equal(t, Local{X: 99, Y: 0}, l)
	})

	t.Run("negative offset is a boundary violation", func(t *testing.T) {
		_, err := g.LocalOf(Position{X: -1, Y: 0}, ChunkCoord{X: 0, Y: 0})
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("offset past width is a boundary violation", func(t *testing.T) {
		_, err := g.LocalOf(Position{X: 100, Y: 0}, ChunkCoord{X: 0, Y: 0})
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestGrid_Validate(t *testing.T) {
	assert.NoError(t, Grid{W: 1, H: 1}.Validate())
	assert.Error(t, Grid{W: 0, H: 10}.Validate())
	assert.Error(t, Grid{W: 10, H: -1}.Validate())
}
