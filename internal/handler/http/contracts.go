package http

import (
	"encoding/json"
	"net/http"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/store"
	"github.com/contratoflow/sync-engine/internal/utils"
	"github.com/contratoflow/sync-engine/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) createContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var contract models.Contract
	if err := json.NewDecoder(r.Body).Decode(&contract); err != nil {
		log.Err(err).Str("func", "*Handler.createContract").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.ContractService.CreateContract(ctx, contract)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createContract").Msg("error creating contract")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	contractID, err := uuid.Parse(chi.URLParam(r, "contractID"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getContract").Msg("invalid contract id")
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}

	contract, err := h.services.ContractService.GetContract(ctx, contractID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getContract").Msg("error getting contract")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, contract, http.StatusOK)
}

func (h *Handler) listContracts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	filter, err := filterFromQuery(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listContracts").Msg("invalid list filter")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contracts, err := h.services.ContractService.ListContracts(ctx, filter)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listContracts").Msg("error listing contracts")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if contracts == nil {
		contracts = []models.Contract{}
	}
	utils.WriteJSON(w, contracts, http.StatusOK)
}

func filterFromQuery(r *http.Request) (store.ContractFilter, error) {
	var filter store.ContractFilter

	if raw := r.URL.Query().Get("organization_id"); raw != "" {
		orgID, err := uuid.Parse(raw)
		if err != nil {
			return store.ContractFilter{}, err
		}
		filter.OrganizationID = &orgID
	}
	if raw := r.URL.Query().Get("sync_status"); raw != "" {
		status := models.SyncStatus(raw)
		filter.SyncStatus = &status
	}

	return filter, nil
}
