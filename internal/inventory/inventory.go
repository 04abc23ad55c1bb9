// Package inventory counts the resources the character has collected.
package inventory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/charmbracelet/log"
)

// Persister is the slice of the world store an Inventory saves into.
type Persister interface {
	LoadInventory(ctx context.Context) (map[string]int, error)
	SaveInventory(ctx context.Context, items map[string]int) error
}

// Inventory is safe for concurrent use.
type Inventory struct {
	mu    sync.Mutex
	items map[string]int

	logger *log.Logger
}

func New(logger *log.Logger) *Inventory {
	return &Inventory{
		items:  make(map[string]int),
		logger: logger.With("component", "inventory"),
	}
}

// Load replaces the contents with what p has stored.
func (inv *Inventory) Load(ctx context.Context, p Persister) error {
	items, err := p.LoadInventory(ctx)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.items = make(map[string]int, len(items))
	maps.Copy(inv.items, items)
	inv.logger.Debug("Inventory loaded", "kinds", len(items))
	return nil
}

// Save writes a snapshot of the contents to p.
func (inv *Inventory) Save(ctx context.Context, p Persister) error {
	if err := p.SaveInventory(ctx, inv.Snapshot()); err != nil {
		return fmt.Errorf("save inventory: %w", err)
	}
	return nil
}

// Store adds amount units of name.
func (inv *Inventory) Store(name string, amount int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.items[name] += amount
	inv.logger.Debug("Stored resource", "resource", name, "amount", amount, "total", inv.items[name])
}

// Use removes every listed amount, or nothing at all if any of them is
// not available.
func (inv *Inventory) Use(cost map[string]int) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for name, n := range cost {
		if inv.items[name] < n {
			return false
		}
	}
	for name, n := range cost {
		inv.items[name] -= n
	}
	return true
}

func (inv *Inventory) Amount(name string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.items[name]
}

// Snapshot returns a copy of the contents.
func (inv *Inventory) Snapshot() map[string]int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return maps.Clone(inv.items)
}

// Clear empties the inventory.
func (inv *Inventory) Clear() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.items = make(map[string]int)
}
