package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/monitor/internal/domain/model"
)

// RankingsDependencies defines the interface for ranking reads.
type RankingsDependencies interface {
	Rankings(ctx context.Context, t model.RankingType) ([]model.RankingTable, error)
}

// RankingsHandler handles ranking table requests.
type RankingsHandler struct {
	deps RankingsDependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// HandleGetRankings handles GET /rankings?type=<ranking type>.
// Without a type every table is returned.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	t := model.RankingType(strings.TrimSpace(r.URL.Query().Get("type")))
	tables, err := h.deps.Rankings(r.Context(), t)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if tables == nil {
		tables = []model.RankingTable{}
	}
	writeJSON(w, http.StatusOK, tables)
}
