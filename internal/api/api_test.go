package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/logging"
	"github.com/VoidMesh/cavern/internal/store"
	"github.com/VoidMesh/cavern/internal/world"
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
      - { name: stone, weight: 1, hardness: 2, amount: 1, color: "#666" }
      - { name: grass, weight: 0, hardness: -1, color: "#0a0" }
`

func newTestServer(t *testing.T) (*httptest.Server, *world.Session) {
	t.Helper()
	catalog, err := biome.Load(strings.NewReader(quarry))
	require.NoError(t, err)
	grid := geom.Grid{W: 10, H: 10}

	sess, err := world.Bootstrap(context.Background(), store.NewMemory(grid), world.Options{
		Dimension: "overworld",
		Grid:      grid,
		Catalog:   catalog,
		Seed:      3,
		Strength:  1,
		Logger:    logging.Discard(),
	})
	require.NoError(t, err)

	h := NewHandler(sess, logging.Discard())
	h.newSeed = func() int64 { return 11 }
	srv := httptest.NewServer(SetupRoutes(h))
	t.Cleanup(srv.Close)
	return srv, sess
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)
	status, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, 3, body["seed"])
}

func TestGetTile(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"spawn", "/api/v1/tiles/50/50", http.StatusOK},
		{"negative neighbour chunk", "/api/v1/tiles/49/40", http.StatusOK},
		{"two chunks away", "/api/v1/tiles/70/50", http.StatusUnprocessableEntity},
		{"bad coordinate", "/api/v1/tiles/abc/50", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, status, "body: %v", body)
		})
	}

	_, body := do(t, srv, http.MethodGet, "/api/v1/tiles/50/50", "")
	assert.Equal(t, "quarry", body["biome"])
	assert.Equal(t, "stone", body["resource"])
	tile := body["tile"].(map[string]interface{})
	assert.EqualValues(t, 0, tile["amount"], "spawn is cleared")
}

func TestPatchTile(t *testing.T) {
	srv, sess := newTestServer(t)

	status, _ := do(t, srv, http.MethodPatch, "/api/v1/tiles/51/50", `{"resource_name":"grass","amount":3}`)
	require.Equal(t, http.StatusOK, status)

	tile, b, err := sess.Window().GetTile(context.Background(), geom.Position{X: 51, Y: 50})
	require.NoError(t, err)
	res, _ := b.Resource(tile.ResourceID)
	assert.Equal(t, "grass", res.Name)
	assert.Equal(t, 3, tile.Amount)

	status, _ = do(t, srv, http.MethodPatch, "/api/v1/tiles/51/50", `{"delta_amount":-1000}`)
	require.Equal(t, http.StatusOK, status)
	tile, _, err = sess.Window().GetTile(context.Background(), geom.Position{X: 51, Y: 50})
	require.NoError(t, err)
	assert.Zero(t, tile.Amount)

	status, _ = do(t, srv, http.MethodPatch, "/api/v1/tiles/51/50", `{"resource_name":"gold"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, http.MethodPatch, "/api/v1/tiles/51/50", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStepAndInventory(t *testing.T) {
	srv, _ := newTestServer(t)

	// stone of hardness 2 and strength 1: two blocked hits, then a pass
	for i := 0; i < 2; i++ {
		status, body := do(t, srv, http.MethodPost, "/api/v1/character/step", `{"dx":1,"dy":0}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["moved"])
		mining := body["mining"].(map[string]interface{})
		if i == 0 {
			assert.EqualValues(t, 0.5, mining["progress"], "one hit of two")
		}
	}
	status, body := do(t, srv, http.MethodPost, "/api/v1/character/step", `{"dx":1,"dy":0}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["moved"])

	_, inv := do(t, srv, http.MethodGet, "/api/v1/inventory", "")
	items := inv["items"].(map[string]interface{})
	assert.EqualValues(t, 1, items["stone"])

	status, _ = do(t, srv, http.MethodPost, "/api/v1/character/step", `{"dx":3,"dy":0}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetWindow(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/api/v1/window?radius=1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["tiles"], 9)
	assert.EqualValues(t, 1, body["radius"])

	status, _ = do(t, srv, http.MethodGet, "/api/v1/window?radius=-4", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSaveAndReset(t *testing.T) {
	srv, sess := newTestServer(t)

	status, body := do(t, srv, http.MethodPost, "/api/v1/save", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["saved"])

	status, _ = do(t, srv, http.MethodPost, "/api/v1/recover", "")
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, srv, http.MethodPost, "/api/v1/reset", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 11, body["seed"])
	assert.EqualValues(t, 11, sess.Seed())

	status, body = do(t, srv, http.MethodPost, "/api/v1/reset", `{"seed":5}`)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, body["seed"])
}

func TestUseInventory(t *testing.T) {
	srv, sess := newTestServer(t)
	sess.Inventory().Store("stone", 3)

	tests := []struct {
		name   string
		body   string
		status int
		left   int
	}{
		{"too much", `{"cost":{"stone":4}}`, http.StatusConflict, 3},
		{"missing kind", `{"cost":{"stone":1,"gold":1}}`, http.StatusConflict, 3},
		{"negative", `{"cost":{"stone":-1}}`, http.StatusBadRequest, 3},
		{"bad body", `nope`, http.StatusBadRequest, 3},
		{"enough", `{"cost":{"stone":2}}`, http.StatusOK, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, srv, http.MethodPost, "/api/v1/inventory/use", tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.left, sess.Inventory().Amount("stone"))
		})
	}
}
