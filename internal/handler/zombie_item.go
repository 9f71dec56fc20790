package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/logger"
	"github.com/osse101/zombie-showcase-server/internal/zombieitem"
)

// CreateZombieItemRequest assigns an item to the zombie named in the URL.
// The owner comes from the path, so a userId in the body is ignored.
type CreateZombieItemRequest struct {
	ID     string `json:"id"`
	ItemID string `json:"itemId" validate:"required"`
}

// HandleListZombieItems lists the owner's assignments with resolved items.
func HandleListZombieItems(itemAssignments zombieitem.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		enriched, err := itemAssignments.ListByOwner(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			respondError(w, log, err)
			return
		}
		if enriched == nil {
			enriched = []*domain.EnrichedZombieItem{}
		}
		writeJSON(w, http.StatusOK, enriched)
	}
}

// HandleGetZombieItem fetches one assignment with its resolved item.
func HandleGetZombieItem(itemAssignments zombieitem.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		enriched, err := itemAssignments.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, enriched)
	}
}

// HandlePriceSum returns the owner's total item price converted into the
// target currencies.
func HandlePriceSum(itemAssignments zombieitem.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sums, err := itemAssignments.PriceSum(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			respondError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, sums)
	}
}

// HandleCreateZombieItem assigns an item to a zombie, enforcing the
// ownership capacity rule.
func HandleCreateZombieItem(itemAssignments zombieitem.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateZombieItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Failed to decode create zombie item request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		assignment := &domain.ZombieItem{
			UserID: chi.URLParam(r, "userId"),
			ItemID: req.ItemID,
		}
		assignment.ID = req.ID

		created, err := itemAssignments.Create(r.Context(), assignment)
		if err != nil {
			respondError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// HandleDeleteZombieItem removes one assignment.
func HandleDeleteZombieItem(itemAssignments zombieitem.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if err := itemAssignments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
