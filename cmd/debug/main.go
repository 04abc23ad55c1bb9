package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/VoidMesh/cavern/cmd/debug/components"
	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/config"
	"github.com/VoidMesh/cavern/internal/db"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/logging"
	"github.com/VoidMesh/cavern/internal/store"
	"github.com/VoidMesh/cavern/internal/window"
	"github.com/VoidMesh/cavern/internal/world"
)

func main() {
	cfg := config.Load()
	dbPath := flag.String("db", cfg.Database.Path, "Path to the SQLite database")
	radius := flag.Int("radius", 12, "Tiles to show around the character")
	logLevel := flag.String("log", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.Init(logging.Options{
		Level:  *logLevel,
		Format: "text",
		Prefix: "cavern-debug",
	})

	database, err := db.Open(*dbPath, 1)
	if err != nil {
		log.Fatal("Failed to open database", "error", err, "path", *dbPath)
	}
	defer database.Close()
	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to run database migrations", "error", err)
	}

	catalog, err := loadCatalog(cfg.World.BiomeCatalog)
	if err != nil {
		log.Fatal("Failed to load biome catalog", "error", err)
	}

	grid := geom.Grid{W: int32(cfg.World.ChunkWidth), H: int32(cfg.World.ChunkHeight)}
	ws := store.NewSQLite(database, grid, logger)
	ctx := context.Background()
	sess, err := world.Bootstrap(ctx, ws, world.Options{
		Dimension: cfg.World.Dimension,
		Grid:      grid,
		Catalog:   catalog,
		Seed:      cfg.World.Seed,
		Strength:  cfg.World.MinerStrength,
		Logger:    logger,
	})
	if err != nil {
		log.Fatal("Failed to open world", "error", err)
	}

	cells, err := sess.Window().Visible(ctx, int32(*radius))
	if err != nil {
		log.Fatal("Failed to read tiles", "error", err)
	}
	pos, err := sess.Position(ctx)
	if err != nil {
		log.Fatal("Failed to read position", "error", err)
	}

	stored, err := ws.ChunkCount(ctx, cfg.World.Dimension)
	if err != nil {
		log.Fatal("Failed to count chunks", "error", err)
	}

	fmt.Println(components.TitleStyle.Render("Cavern world dump"))
	fmt.Println(components.InfoStyle.Render(fmt.Sprintf(
		"db %s · seed %d · dim %s · character %s · chunk %s · %d chunks stored",
		*dbPath, sess.Seed(), cfg.World.Dimension, pos, grid.ChunkOf(pos), stored)))
	fmt.Println(components.BorderStyle.Render(renderMap(cells, pos)))
	fmt.Println(components.SubtitleStyle.Render("Legend"))
	fmt.Println(renderLegend(cells))
	fmt.Println(renderInventory(sess.Inventory().Snapshot()))
}

func loadCatalog(path string) (*biome.Catalog, error) {
	if path == "" {
		return biome.Default()
	}
	return biome.LoadFile(path)
}

func renderMap(cells []window.Cell, cursor geom.Position) string {
	var (
		b   strings.Builder
		row = int32(0)
	)
	for i, c := range cells {
		if i > 0 && c.Pos.Y != row {
			b.WriteByte('\n')
		}
		row = c.Pos.Y
		if c.Pos == cursor {
			b.WriteString(components.Cursor())
			continue
		}
		b.WriteString(components.Cell(c.Resource.TileColor(c.Tile.Amount)))
	}
	return b.String()
}

func renderLegend(cells []window.Cell) string {
	seen := make(map[string]string)
	for _, c := range cells {
		label := c.Biome + "/" + c.Resource.Name
		if _, ok := seen[label]; !ok {
			seen[label] = c.Resource.TileColor(1)
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rows := make([]string, 0, len(labels)+1)
	for _, label := range labels {
		rows = append(rows, components.Swatch(seen[label], label))
	}
	rows = append(rows, components.Swatch(biome.ExhaustedColor, "exhausted"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderInventory(items map[string]int) string {
	if len(items) == 0 {
		return components.InfoStyle.Render("inventory empty")
	}
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", name, items[name]))
	}
	return components.InfoStyle.Render("inventory " + strings.Join(parts, ", "))
}
