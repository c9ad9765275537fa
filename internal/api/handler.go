// Package api is the service boundary: it validates inbound payloads,
// dispatches to the item repository and translates outcomes into HTTP
// responses. No business logic lives here.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fernandezvara/catalogd/internal/item"
)

// Pagination defaults applied when the query string omits skip/limit.
const (
	defaultSkip  = 0
	defaultLimit = 100
)

// ItemRepository is the narrow surface the dispatcher needs. Satisfied
// by *item.Repository.
type ItemRepository interface {
	Create(ctx context.Context, in item.ItemCreate) (*item.Item, error)
	Get(ctx context.Context, id int64) (*item.Item, error)
	List(ctx context.Context, skip, limit int) ([]item.Item, error)
	Update(ctx context.Context, id int64, in item.ItemUpdate) (*item.Item, error)
	Delete(ctx context.Context, id int64) error
}

// ItemHandler exposes the item CRUD operations over HTTP.
type ItemHandler struct {
	repo   ItemRepository
	logger *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(repo ItemRepository, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{repo: repo, logger: logger}
}

// Routes registers the item endpoints on the given router.
func (h *ItemHandler) Routes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// itemPayload is the wire shape for create and update requests.
// Pointer fields distinguish "supplied" from "absent" so partial
// updates never clobber untouched columns.
type itemPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// HandleCreate handles POST /items.
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidation(w, "invalid JSON body")
		return
	}

	if payload.Name == nil {
		writeValidation(w, "name is required")
		return
	}
	if payload.Description == nil {
		writeValidation(w, "description is required")
		return
	}

	created, err := h.repo.Create(r.Context(), item.ItemCreate{
		Name:        *payload.Name,
		Description: *payload.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /items/{id}.
func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	it, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, it)
}

// HandleList handles GET /items.
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryInt(w, r, "skip", defaultSkip)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", defaultLimit)
	if !ok {
		return
	}

	items, err := h.repo.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleUpdate handles PUT /items/{id}. Zero, one or two fields may be
// supplied; only supplied fields change.
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidation(w, "invalid JSON body")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, item.ItemUpdate{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /items/{id}.
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

// pathID extracts the integer id path parameter, writing a validation
// error when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeValidation(w, "id must be an integer")
		return 0, false
	}
	return id, true
}

// queryInt parses a non-negative integer query parameter with a
// default, writing a validation error on bad input.
func queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		writeValidation(w, key+" must be an integer")
		return 0, false
	}
	if v < 0 {
		writeValidation(w, key+" must not be negative")
		return 0, false
	}
	return v, true
}
