package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"
	"github.com/Uday-Parmar07/AI-Trip-Planner/services"
	"github.com/Uday-Parmar07/AI-Trip-Planner/services/agent"

	"github.com/gorilla/mux"
)

const (
	msgDecommissioned   = "Configured LLM model is unavailable. Please update the backend configuration."
	msgModelUnavailable = "AI model is temporarily unavailable. Please try again later."
	msgTimeout          = "Request timed out"
	msgInternal         = "Internal server error"
)

type QueryProcessor interface {
	ProcessQuery(ctx context.Context, question string, details *models.TripDetails) (*agent.QueryResult, error)
}

type TripSink interface {
	Record(trip *models.Trip)
}

type QueryHandler struct {
	agent    QueryProcessor
	recorder TripSink
	timeout  time.Duration
}

// NewQueryHandler accepts a nil processor; queries then fail with 503.
func NewQueryHandler(processor QueryProcessor, recorder TripSink, timeout time.Duration) *QueryHandler {
	return &QueryHandler{agent: processor, recorder: recorder, timeout: timeout}
}

func (h *QueryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/query", h.ProcessQuery).Methods("POST")
	router.HandleFunc("/api/query", h.ProcessQuery).Methods("POST")
}

func (h *QueryHandler) ProcessQuery(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received travel query request")

	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode query request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	question, err := agent.ValidateQuestion(req.Question)
	if err != nil {
		log.Printf("[ERROR] Invalid query: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid input provided")
		return
	}

	if h.agent == nil {
		log.Printf("[ERROR] Query rejected: %v", agent.ErrNotInitialized)
		h.writeErrorResponse(w, http.StatusServiceUnavailable, agent.ErrNotInitialized.Error())
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.agent.ProcessQuery(ctx, question, req.TripDetails)
	if err != nil {
		status, message := classifyQueryError(ctx, err)
		log.Printf("[ERROR] Error processing query (%d): %v", status, err)
		h.writeErrorResponse(w, status, message)
		return
	}

	if h.recorder != nil {
		h.recorder.Record(services.NewTripRecord(question, result.Answer, req.TripDetails, result.ProcessingTime))
	}

	log.Printf("[INFO] Travel query completed in %.2fs", result.ProcessingTime.Seconds())
	h.writeJSONResponse(w, http.StatusOK, models.QueryResponse{
		Answer:         result.Answer,
		ProcessingTime: result.ProcessingTime.Seconds(),
		Timestamp:      time.Now(),
	})
}

func classifyQueryError(ctx context.Context, err error) (int, string) {
	switch {
	case errors.Is(err, agent.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input provided"
	case errors.Is(err, agent.ErrNotInitialized):
		return http.StatusServiceUnavailable, agent.ErrNotInitialized.Error()
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgTimeout
	case agent.IsModelDecommissioned(err):
		return http.StatusServiceUnavailable, msgDecommissioned
	case errors.Is(err, agent.ErrModelUnavailable):
		return http.StatusServiceUnavailable, msgModelUnavailable
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func (h *QueryHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *QueryHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
