package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/theo/champion-teams-website/internal/api/middleware"
	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/optimizer"
	"github.com/theo/champion-teams-website/internal/service"
)

type OptimizeHandler struct {
	optimizeService *service.OptimizeService
}

func NewOptimizeHandler(optimizeService *service.OptimizeService) *OptimizeHandler {
	return &OptimizeHandler{optimizeService: optimizeService}
}

func (h *OptimizeHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// An empty body means a plain unconstrained search.
	var req service.OptimizeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	job, err := h.optimizeService.StartSearch(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			http.Error(w, "Too many optimization requests", http.StatusTooManyRequests)
		case errors.Is(err, service.ErrSearchInProgress):
			http.Error(w, "An optimization is already running", http.StatusConflict)
		case errors.Is(err, optimizer.ErrInsufficientRoster),
			errors.Is(err, optimizer.ErrNoHealerAvailable):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrTeamNotFound):
			http.Error(w, "Excluded team not found", http.StatusNotFound)
		default:
			log.Printf("ERROR [optimize.Start]: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.View())
}

func (h *OptimizeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	job, err := h.optimizeService.GetJob(userID, jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.View())
}

func (h *OptimizeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	if err := h.optimizeService.CancelJob(userID, jobID); err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
