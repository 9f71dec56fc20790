package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/logger"
	"github.com/osse101/zombie-showcase-server/internal/zombie"
)

// CreateZombieRequest is the creation payload. Unknown fields in the body
// are stripped by decoding, never persisted.
type CreateZombieRequest struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required,min=10"`
}

// UpdateZombieRequest is the PATCH payload; only supplied fields are merged.
type UpdateZombieRequest struct {
	Name *string `json:"name" validate:"omitempty,min=10"`
}

// HandleListZombies lists zombies with optional pagination.
func HandleListZombies(zombieService zombie.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		opts, err := parseFindOptions(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		zombies, err := zombieService.List(r.Context(), opts)
		if err != nil {
			respondError(w, log, err)
			return
		}
		if zombies == nil {
			zombies = []*domain.Zombie{}
		}
		writeJSON(w, http.StatusOK, zombies)
	}
}

// HandleGetZombie fetches a single zombie by id.
func HandleGetZombie(zombieService zombie.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		z, err := zombieService.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, z)
	}
}

// HandleCreateZombie creates a zombie from a validated payload.
func HandleCreateZombie(zombieService zombie.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateZombieRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Failed to decode create zombie request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		z := &domain.Zombie{Name: req.Name}
		z.ID = req.ID

		created, err := zombieService.Create(r.Context(), z)
		if err != nil {
			respondError(w, log, err)
			return
		}

		log.Info("Zombie created", "zombie_id", created.ID)
		writeJSON(w, http.StatusCreated, created)
	}
}

// HandleUpdateZombie merges supplied fields into an existing zombie.
func HandleUpdateZombie(zombieService zombie.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req UpdateZombieRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Failed to decode update zombie request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		fields := map[string]any{}
		if req.Name != nil {
			fields["name"] = *req.Name
		}

		updated, err := zombieService.Update(r.Context(), chi.URLParam(r, "id"), fields)
		if err != nil {
			respondError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// HandleDeleteZombie removes one zombie and its assignments.
func HandleDeleteZombie(zombieService zombie.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if err := zombieService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// HandleDeleteAllZombies clears the zombie collection and all assignments.
func HandleDeleteAllZombies(zombieService zombie.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if err := zombieService.DeleteAll(r.Context()); err != nil {
			respondError(w, log, err)
			return
		}
		log.Info("All zombies deleted")
		w.WriteHeader(http.StatusOK)
	}
}
