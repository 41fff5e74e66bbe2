package api

import (
	"context"
	"net/http"

	"github.com/okian/monitor/internal/adapters/repository"
)

// RefreshDependencies defines the interface for on-demand ingestion.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (repository.RunSummary, error)
}

// RefreshHandler triggers an ingestion run.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /refresh. It blocks until the run is published
// and answers with its summary.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	sum, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeError(w, Wrap("api.refresh", err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
