package handler

import (
	"encoding/json"
	"net/http"

	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/item"
	"github.com/osse101/zombie-showcase-server/internal/logger"
	"github.com/osse101/zombie-showcase-server/internal/rates"
)

// CreateItemRequest is the manual item creation payload. Price is a pointer
// so a zero price is distinguishable from a missing one.
type CreateItemRequest struct {
	ID    string   `json:"id"`
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required"`
}

// CreateRateRequest is the manual currency rate creation payload.
type CreateRateRequest struct {
	ID       string   `json:"id"`
	Currency string   `json:"currency" validate:"required"`
	Code     string   `json:"code" validate:"required"`
	Ask      *float64 `json:"ask" validate:"required"`
	Bid      *float64 `json:"bid" validate:"required"`
}

// HandleRefreshAll triggers both snapshot refreshes. The external scheduler
// hits this endpoint; refresh failures are logged, never surfaced, so the
// response is always 201.
func HandleRefreshAll(itemService item.Service, rateService rates.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemService.Refresh(r.Context())
		rateService.Refresh(r.Context())
		w.WriteHeader(http.StatusCreated)
	}
}

// HandleListItems lists the cached item catalog.
func HandleListItems(itemService item.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		opts, err := parseFindOptions(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := itemService.List(r.Context(), opts)
		if err != nil {
			respondError(w, log, err)
			return
		}
		if items == nil {
			items = []*domain.Item{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// HandleCreateItem creates one catalog item by hand.
func HandleCreateItem(itemService item.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Failed to decode create item request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		it := &domain.Item{Name: req.Name, Price: *req.Price}
		it.ID = req.ID

		created, err := itemService.Create(r.Context(), it)
		if err != nil {
			respondError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// HandleListRates lists the cached exchange-rate table.
func HandleListRates(rateService rates.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		opts, err := parseFindOptions(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		cached, err := rateService.List(r.Context(), opts)
		if err != nil {
			respondError(w, log, err)
			return
		}
		if cached == nil {
			cached = []*domain.CurrencyRate{}
		}
		writeJSON(w, http.StatusOK, cached)
	}
}

// HandleCreateRate creates one currency rate by hand. The rate's document id
// defaults to its currency code.
func HandleCreateRate(rateService rates.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateRateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Failed to decode create rate request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		rate := &domain.CurrencyRate{
			Currency: req.Currency,
			Code:     req.Code,
			Ask:      *req.Ask,
			Bid:      *req.Bid,
		}
		rate.ID = req.ID
		if rate.ID == "" {
			rate.ID = req.Code
		}

		created, err := rateService.Create(r.Context(), rate)
		if err != nil {
			respondError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}
