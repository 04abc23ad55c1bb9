package store

import (
	"context"
	"maps"
	"sync"

	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/geom"
)

type memKey struct {
	dim   string
	coord geom.ChunkCoord
}

// Memory is an in-process WorldStore. Chunks are kept as encoded records
// so callers never share tile slices with the store.
type Memory struct {
	mu        sync.Mutex
	grid      geom.Grid
	chunks    map[memKey]chunk.Record
	saves     map[memKey]int
	seed      *int64
	worldID   string
	dim       string
	pos       *geom.Position
	inventory map[string]int
}

func NewMemory(grid geom.Grid) *Memory {
	return &Memory{
		grid:      grid,
		chunks:    make(map[memKey]chunk.Record),
		saves:     make(map[memKey]int),
		inventory: make(map[string]int),
	}
}

func (m *Memory) Load(_ context.Context, dim string, coord geom.ChunkCoord) (*chunk.Chunk, error) {
	m.mu.Lock()
	rec, ok := m.chunks[memKey{dim, coord}]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return chunk.Decode(rec, m.grid.Area())
}

func (m *Memory) Save(_ context.Context, dim string, c *chunk.Chunk) error {
	rec := chunk.Encode(c)
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey{dim, c.Coord}
	m.chunks[k] = rec
	m.saves[k]++
	return nil
}

// SaveCount reports how many times the chunk at coord has been saved.
func (m *Memory) SaveCount(dim string, coord geom.ChunkCoord) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[memKey{dim, coord}]
}

// TotalSaves reports the number of chunk saves across all coordinates.
func (m *Memory) TotalSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.saves {
		n += c
	}
	return n
}

func (m *Memory) EnsureSeed(_ context.Context, candidate int64) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seed != nil {
		return *m.seed, false, nil
	}
	m.seed = &candidate
	return candidate, true, nil
}

func (m *Memory) EnsureWorldID(_ context.Context, candidate string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.worldID == "" {
		m.worldID = candidate
	}
	return m.worldID, nil
}

func (m *Memory) LoadCharacter(context.Context) (string, geom.Position, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pos == nil {
		return "", geom.Position{}, false, nil
	}
	return m.dim, *m.pos, true, nil
}

func (m *Memory) SaveCharacter(_ context.Context, dim string, pos geom.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dim = dim
	m.pos = &pos
	return nil
}

func (m *Memory) LoadInventory(context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.inventory), nil
}

func (m *Memory) SaveInventory(_ context.Context, items map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.inventory, items)
	return nil
}

func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = make(map[memKey]chunk.Record)
	m.saves = make(map[memKey]int)
	m.inventory = make(map[string]int)
	m.seed = nil
	m.worldID = ""
	m.pos = nil
	m.dim = ""
	return nil
}
