package http

import (
	"net/http"
	"strings"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/utils"
)

func (h *Handler) searchNorms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "query parameter q is required", http.StatusBadRequest)
		return
	}

	response, err := h.search.Search(ctx, query)
	if err != nil {
		// only context cancellation reaches here; provider failures degrade
		// to a fallback response inside the client
		log.Err(err).Str("func", "*Handler.searchNorms").Msg("search aborted")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
