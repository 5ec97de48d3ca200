package http

import (
	"net/http"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/utils"
	"github.com/contratoflow/sync-engine/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) pushContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	contractID, err := uuid.Parse(chi.URLParam(r, "contractID"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.pushContract").Msg("invalid contract id")
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}

	contract, err := h.services.SyncEngine.Push(ctx, contractID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pushContract").Msg("error pushing contract")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, contract, http.StatusOK)
}

func (h *Handler) pullOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	organizationID, err := uuid.Parse(chi.URLParam(r, "organizationID"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.pullOrganization").Msg("invalid organization id")
		http.Error(w, "invalid organization id", http.StatusBadRequest)
		return
	}

	result, err := h.services.SyncEngine.Pull(ctx, organizationID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pullOrganization").Msg("error pulling organization contracts")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) getSyncLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	contractID, err := uuid.Parse(chi.URLParam(r, "contractID"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncLog").Msg("invalid contract id")
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}

	entries, err := h.services.SyncEngine.History(ctx, contractID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncLog").Msg("error getting sync log")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if entries == nil {
		entries = []models.SyncLogEntry{}
	}
	utils.WriteJSON(w, entries, http.StatusOK)
}
