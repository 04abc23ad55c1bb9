// Package biome holds the static biome and resource pools used by the
// terrain generator. A Catalog is immutable once loaded.
package biome

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog wraps every configuration problem found at load time.
var ErrInvalidCatalog = errors.New("invalid biome catalog")

//go:embed biomes.yaml
var defaultCatalog []byte

// Resource is one weighted entry of a biome pool.
type Resource struct {
	Name     string
	Weight   float64
	Hardness int
	Amount   int
	Spread   int
	Color    string
}

// Solid reports whether the resource has to be mined before it can be
// walked through.
func (r Resource) Solid() bool {
	return r.Hardness >= 1
}

// ExhaustedColor is drawn for tiles with nothing left to mine.
const ExhaustedColor = "#aaa"

// TileColor is the colour a tile of this resource is drawn with.
func (r Resource) TileColor(amount int) string {
	if amount <= 0 {
		return ExhaustedColor
	}
	if r.Color == "" {
		return "#f0f"
	}
	return r.Color
}

// Band is the range of chunk rows a biome may appear in, inclusive on
// both ends.
type Band struct {
	Center int32
	Spread int32
}

func (b Band) Contains(y int32) bool {
	return y >= b.Center-b.Spread && y <= b.Center+b.Spread
}

// Biome is a named terrain category with its own resource pool.
type Biome struct {
	Name      string
	Band      *Band
	Weight    float64
	Resources []Resource

	totalWeight float64
	index       map[string]int
}

// TotalWeight is the sum of the pool's resource weights.
func (b *Biome) TotalWeight() float64 {
	return b.totalWeight
}

// ResourceIndex returns the pool index of the named resource.
func (b *Biome) ResourceIndex(name string) (int, bool) {
	i, ok := b.index[name]
	return i, ok
}

// Resource returns the pool entry at id.
func (b *Biome) Resource(id int) (Resource, bool) {
	if id < 0 || id >= len(b.Resources) {
		return Resource{}, false
	}
	return b.Resources[id], true
}

// Eligible reports whether the biome may be chosen for chunk row y.
func (b *Biome) Eligible(y int32) bool {
	return b.Band != nil && b.Band.Contains(y)
}

// Catalog is the full, ordered set of biomes plus the fallback used when
// no biome band covers a row.
type Catalog struct {
	fallback *Biome
	biomes   []*Biome
	byName   map[string]*Biome
}

// Fallback is the biome used for rows no band covers.
func (c *Catalog) Fallback() *Biome {
	return c.fallback
}

// Biomes returns the banded biomes in configuration order.
func (c *Catalog) Biomes() []*Biome {
	return c.biomes
}

// Lookup finds a biome, including the fallback, by name.
func (c *Catalog) Lookup(name string) (*Biome, bool) {
	b, ok := c.byName[name]
	return b, ok
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open biome catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

type fileResource struct {
	Name     string   `yaml:"name"`
	Weight   *float64 `yaml:"weight"`
	Hardness *int     `yaml:"hardness"`
	Amount   *int     `yaml:"amount"`
	Spread   *int     `yaml:"spread"`
	Color    string   `yaml:"color"`
}

type fileBand struct {
	Center int32 `yaml:"center"`
	Spread int32 `yaml:"spread"`
}

type fileBiome struct {
	Name      string         `yaml:"name"`
	Band      *fileBand      `yaml:"band"`
	Weight    *float64       `yaml:"weight"`
	Resources []fileResource `yaml:"resources"`
}

type fileCatalog struct {
	Fallback fileBiome   `yaml:"fallback"`
	Biomes   []fileBiome `yaml:"biomes"`
}

// Load parses and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw fileCatalog
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{byName: make(map[string]*Biome)}

	fb, err := buildBiome(raw.Fallback, true)
	if err != nil {
		return nil, err
	}
	c.fallback = fb
	c.byName[fb.Name] = fb

	for _, fbm := range raw.Biomes {
		b, err := buildBiome(fbm, false)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byName[b.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate biome %q", ErrInvalidCatalog, b.Name)
		}
		c.byName[b.Name] = b
		c.biomes = append(c.biomes, b)
	}

	return c, nil
}

func buildBiome(raw fileBiome, fallback bool) (*Biome, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: biome without a name", ErrInvalidCatalog)
	}
	b := &Biome{Name: raw.Name, index: make(map[string]int)}

	if !fallback {
		if raw.Band == nil {
			return nil, fmt.Errorf("%w: biome %q has no band", ErrInvalidCatalog, raw.Name)
		}
		if raw.Band.Spread < 0 {
			return nil, fmt.Errorf("%w: biome %q has a negative band spread", ErrInvalidCatalog, raw.Name)
		}
		if raw.Weight == nil || *raw.Weight <= 0 {
			return nil, fmt.Errorf("%w: biome %q needs a positive weight", ErrInvalidCatalog, raw.Name)
		}
		b.Band = &Band{Center: raw.Band.Center, Spread: raw.Band.Spread}
		b.Weight = *raw.Weight
	}

	if len(raw.Resources) == 0 {
		return nil, fmt.Errorf("%w: biome %q has an empty resource pool", ErrInvalidCatalog, raw.Name)
	}

	for i, fr := range raw.Resources {
		res, err := buildResource(raw.Name, i, fr)
		if err != nil {
			return nil, err
		}
		if _, dup := b.index[res.Name]; dup {
			return nil, fmt.Errorf("%w: biome %q lists %q twice", ErrInvalidCatalog, raw.Name, res.Name)
		}
		b.index[res.Name] = i
		b.Resources = append(b.Resources, res)
		b.totalWeight += res.Weight
	}
	if b.totalWeight <= 0 {
		return nil, fmt.Errorf("%w: biome %q has zero total weight", ErrInvalidCatalog, raw.Name)
	}

	return b, nil
}

func buildResource(biome string, i int, fr fileResource) (Resource, error) {
	switch {
	case fr.Name == "":
		return Resource{}, fmt.Errorf("%w: biome %q resource #%d: name is required", ErrInvalidCatalog, biome, i)
	case fr.Weight == nil:
		return Resource{}, fmt.Errorf("%w: biome %q resource %q: weight is required", ErrInvalidCatalog, biome, fr.Name)
	case *fr.Weight < 0:
		return Resource{}, fmt.Errorf("%w: biome %q resource %q: negative weight", ErrInvalidCatalog, biome, fr.Name)
	case fr.Hardness == nil || *fr.Hardness == 0:
		return Resource{}, fmt.Errorf("%w: biome %q resource %q: hardness is required", ErrInvalidCatalog, biome, fr.Name)
	}

	res := Resource{
		Name:     fr.Name,
		Weight:   *fr.Weight,
		Hardness: *fr.Hardness,
		Amount:   1,
		Color:    fr.Color,
	}
	if fr.Amount != nil {
		res.Amount = *fr.Amount
	}
	if fr.Spread != nil {
		res.Spread = *fr.Spread
	}
	return res, nil
}
