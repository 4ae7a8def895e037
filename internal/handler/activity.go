package handler

import (
	"log/slog"
	"net/http"

	"github.com/vitrinecms/vitrine/internal/model"
	"github.com/vitrinecms/vitrine/internal/store"
)

// ActivityHandler serves the audit trail for super admins.
type ActivityHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(st *store.Store, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{store: st, logger: logger}
}

// List handles GET /admin/activity with limit/offset paging, newest first.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	entries, err := h.store.ListActivity(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list activity failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load activity log")
		return
	}
	total, err := h.store.CountActivity(r.Context())
	if err != nil {
		h.logger.Error("count activity failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load activity log")
		return
	}

	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: entries,
		Meta: &model.ResponseMeta{
			Count:  len(entries),
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}
