// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/monitor/internal/adapters/repository"
	"github.com/okian/monitor/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations expose the published snapshot.
	Items(ctx context.Context, f repository.Filter) ([]model.MonitorItem, error)
	Item(ctx context.Context, id string) (model.MonitorItem, error)
	Document(ctx context.Context, id string) (model.ReportDocument, error)
	Rankings(ctx context.Context, t model.RankingType) ([]model.RankingTable, error)
	Sources(ctx context.Context) ([]repository.SourceStatus, error)

	// Refresh runs an ingestion and returns its summary.
	Refresh(ctx context.Context) (repository.RunSummary, error)
}

// Server wires HTTP routes for the monitor API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	itemsHandler    *ItemsHandler
	rankingsHandler *RankingsHandler
	sourcesHandler  *SourcesHandler
	refreshHandler  *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		itemsHandler:    NewItemsHandler(deps),
		rankingsHandler: NewRankingsHandler(deps),
		sourcesHandler:  NewSourcesHandler(deps),
		refreshHandler:  NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sources", MetricsMiddleware(s.sourcesHandler.HandleGetSources, "sources"))
	mux.HandleFunc("/items", MetricsMiddleware(s.itemsHandler.HandleListItems, "items"))
	mux.HandleFunc("/items/", MetricsMiddleware(s.itemsHandler.HandleGetItem, "item"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code, name := status(err)
	writeJSON(w, code, errorResponse{Code: name, Message: err.Error()})
}
