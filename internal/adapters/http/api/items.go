package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/monitor/internal/adapters/repository"
	"github.com/okian/monitor/internal/domain/model"
)

// ItemsDependencies defines the interface for item reads.
type ItemsDependencies interface {
	Items(ctx context.Context, f repository.Filter) ([]model.MonitorItem, error)
	Item(ctx context.Context, id string) (model.MonitorItem, error)
	Document(ctx context.Context, id string) (model.ReportDocument, error)
}

// ItemsHandler handles item requests.
type ItemsHandler struct {
	deps ItemsDependencies
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps ItemsDependencies) *ItemsHandler {
	return &ItemsHandler{deps: deps}
}

// HandleListItems handles GET /items with optional filters: type, category,
// source, sub, company, platform, q and limit.
func (h *ItemsHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_items"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	f := repository.Filter{
		Type:     model.MonitorType(q.Get("type")),
		Category: model.CasualCategory(q.Get("category")),
		Source:   model.CasualSource(q.Get("source")),
		Sub:      q.Get("sub"),
		Company:  q.Get("company"),
		Platform: q.Get("platform"),
		Query:    strings.TrimSpace(q.Get("q")),
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, WrapKind(op, ErrBadRequest, errors.New("limit must be a positive integer")))
			return
		}
		f.Limit = n
	}
	items, err := h.deps.Items(r.Context(), f)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGetItem handles GET /items/{id} and GET /items/{id}/document.
func (h *ItemsHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_item"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/items/")
	id, document := strings.CutSuffix(path, "/document")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	if document {
		doc, err := h.deps.Document(r.Context(), id)
		if err != nil {
			writeError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, doc)
		return
	}
	it, err := h.deps.Item(r.Context(), id)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, it)
}
