package controllers

import (
	"net/http"

	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	"github.com/ZeroFairy/kuenyawz-api/pkg/snowflake"
)

// GeneralController handles health and ID introspection endpoints.
type GeneralController struct {
	rt *runtime.Runtime
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

// RegisterRoutes registers general routes with the given mux.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/healthz", c.handleHealth)
	mux.HandleFunc("GET /v1/ids/{id}", c.handleInspectID)
}

func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]any{
		"status":  "ok",
		"node_id": c.rt.Generator().NodeID(),
	})
}

// handleInspectID decomposes a generated key into its bit fields.
func (c *GeneralController) handleInspectID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	parts := snowflake.Decompose(int64(id))
	writeJSON(w, map[string]any{
		"id":           id,
		"timestamp_ms": parts.TimestampMs,
		"time":         parts.Time().UTC(),
		"node_id":      parts.NodeID,
		"sequence":     parts.Sequence,
	})
}
