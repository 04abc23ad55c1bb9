// Package api exposes a world session over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/VoidMesh/cavern/internal/chunk"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/window"
	"github.com/VoidMesh/cavern/internal/world"
)

const (
	requestTimeout = 10 * time.Second
	defaultRadius  = 10
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

type TileResponse struct {
	Pos      geom.Position `json:"pos"`
	Tile     chunk.Tile    `json:"tile"`
	Biome    string        `json:"biome"`
	Resource string        `json:"resource"`
	Hardness int           `json:"hardness"`
	Color    string        `json:"color,omitempty"`
}

type WindowResponse struct {
	Center geom.ChunkCoord `json:"center"`
	Cursor geom.Position   `json:"cursor"`
	Radius int32           `json:"radius"`
	Tiles  []TileResponse  `json:"tiles"`
}

type Handler struct {
	session *world.Session
	logger  *log.Logger
	// newSeed picks the seed of a world created by Reset.
	newSeed func() int64
}

func NewHandler(session *world.Session, logger *log.Logger) *Handler {
	return &Handler{
		session: session,
		logger:  logger.With("component", "api"),
		newSeed: func() int64 { return time.Now().UnixNano() },
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "cavern",
		"world_id":  h.session.WorldID(),
		"seed":      h.session.Seed(),
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	radius := int32(defaultRadius)
	if s := r.URL.Query().Get("radius"); s != "" {
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil || v < 0 {
			h.renderError(w, r, http.StatusBadRequest, "invalid radius", err)
			return
		}
		radius = int32(v)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	win := h.session.Window()
	var resp WindowResponse
	err := win.Do(ctx, func(v *window.View) error {
		cells, err := v.Visible(radius)
		if err != nil {
			return err
		}
		resp.Cursor = v.Cursor()
		resp.Center = v.Grid().ChunkOf(resp.Cursor)
		resp.Radius = min(radius, v.Grid().W, v.Grid().H)
		resp.Tiles = make([]TileResponse, 0, len(cells))
		for _, c := range cells {
			resp.Tiles = append(resp.Tiles, TileResponse{
				Pos:      c.Pos,
				Tile:     c.Tile,
				Biome:    c.Biome,
				Resource: c.Resource.Name,
				Hardness: c.Resource.Hardness,
				Color:    c.Resource.Color,
			})
		}
		return nil
	})
	if err != nil {
		h.renderDomainError(w, r, "failed to read window", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *Handler) GetTile(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.parsePosition(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tile, b, err := h.session.Window().GetTile(ctx, pos)
	if err != nil {
		h.renderDomainError(w, r, "failed to read tile", err)
		return
	}

	res, _ := b.Resource(tile.ResourceID)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, TileResponse{
		Pos:      pos,
		Tile:     tile,
		Biome:    b.Name,
		Resource: res.Name,
		Hardness: res.Hardness,
		Color:    res.Color,
	})
}

func (h *Handler) PatchTile(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.parsePosition(w, r)
	if !ok {
		return
	}

	var edit chunk.Edit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tile, err := h.session.Window().SetTile(ctx, pos, edit)
	if err != nil {
		h.renderDomainError(w, r, "failed to update tile", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"pos":  pos,
		"tile": tile,
	})
}

func (h *Handler) Step(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DX int32 `json:"dx"`
		DY int32 `json:"dy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.session.Step(ctx, req.DX, req.DY)
	if err != nil {
		h.renderDomainError(w, r, "failed to step", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, res)
}

func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"items": h.session.Inventory().Snapshot(),
	})
}

// UseInventory spends resources. Either every listed amount is taken or
// none is.
func (h *Handler) UseInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cost map[string]int `json:"cost"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}
	for name, n := range req.Cost {
		if n < 0 {
			h.renderError(w, r, http.StatusBadRequest, "cost of "+name+" must not be negative", nil)
			return
		}
	}

	inv := h.session.Inventory()
	if !inv.Use(req.Cost) {
		h.renderError(w, r, http.StatusConflict, "not enough resources", nil)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"items": inv.Snapshot(),
	})
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.session.Save(r.Context()); err != nil {
		h.renderDomainError(w, r, "failed to save world", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"saved":    true,
		"duration": time.Since(start).String(),
	})
}

func (h *Handler) Recover(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Recover(r.Context()); err != nil {
		h.renderDomainError(w, r, "failed to recover window", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{"recovered": true})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed *int64 `json:"seed"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.renderError(w, r, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}
	seed := h.newSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	if err := h.session.Reset(r.Context(), seed); err != nil {
		h.renderDomainError(w, r, "failed to reset world", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{"seed": h.session.Seed()})
}

func (h *Handler) parsePosition(w http.ResponseWriter, r *http.Request) (geom.Position, bool) {
	x, err := strconv.ParseInt(chi.URLParam(r, "x"), 10, 32)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid x coordinate", err)
		return geom.Position{}, false
	}
	y, err := strconv.ParseInt(chi.URLParam(r, "y"), 10, 32)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid y coordinate", err)
		return geom.Position{}, false
	}
	return geom.Position{X: int32(x), Y: int32(y)}, true
}

// renderDomainError maps errors from the world packages onto statuses.
func (h *Handler) renderDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, window.ErrOutOfWindow),
		errors.Is(err, geom.ErrOutOfBounds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, chunk.ErrUnknownResource),
		errors.Is(err, world.ErrInvalidStep):
		status = http.StatusBadRequest
	case errors.Is(err, window.ErrStalled),
		errors.Is(err, window.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	h.renderError(w, r, status, message, err)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	errorResponse := ErrorResponse{
		Error:   message,
		Code:    status,
		Message: message,
	}

	if err != nil {
		h.logger.Error("API error", "error", err, "message", message, "status", status)
		if status >= 500 && status != http.StatusServiceUnavailable {
			errorResponse.Error = "Internal server error"
		} else {
			errorResponse.Message = err.Error()
		}
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse)
}
