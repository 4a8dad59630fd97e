package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"
	"github.com/Uday-Parmar07/AI-Trip-Planner/services"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

type TripLister interface {
	GetRecentTrips(ctx context.Context, limit int) ([]*models.Trip, error)
}

type TripHandler struct {
	service TripLister
}

func NewTripHandler(service TripLister) *TripHandler {
	return &TripHandler{service: service}
}

func (h *TripHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/trips", h.GetRecentTrips).Methods("GET")
}

func (h *TripHandler) GetRecentTrips(w http.ResponseWriter, r *http.Request) {
	limit := services.DefaultTripLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeErrorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
		if limit == 0 {
			h.writeErrorResponse(w, http.StatusBadRequest, "Limit must be between 1 and 100")
			return
		}
	}

	trips, err := h.service.GetRecentTrips(r.Context(), limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLimit) {
			h.writeErrorResponse(w, http.StatusBadRequest, "Limit must be between 1 and 100")
			return
		}
		log.Printf("[ERROR] Failed to list trips: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve trips")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, lo.Map(trips, func(trip *models.Trip, _ int) models.TripSummary {
		return trip.Summary()
	}))
}

func (h *TripHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *TripHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
