package api

import (
	"context"
	"net/http"

	"github.com/okian/monitor/internal/adapters/repository"
)

// SourcesDependencies defines the interface for source status reads.
type SourcesDependencies interface {
	Sources(ctx context.Context) ([]repository.SourceStatus, error)
}

// SourcesHandler reports how each source fared in the last run.
type SourcesHandler struct {
	deps SourcesDependencies
}

// NewSourcesHandler creates a new sources handler.
func NewSourcesHandler(deps SourcesDependencies) *SourcesHandler {
	return &SourcesHandler{deps: deps}
}

// HandleGetSources handles GET /sources.
func (h *SourcesHandler) HandleGetSources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st, err := h.deps.Sources(r.Context())
	if err != nil {
		writeError(w, Wrap("api.get_sources", err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}
