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
	"github.com/theo/champion-teams-website/internal/service"
)

type ShareHandler struct {
	shareService *service.ShareService
}

func NewShareHandler(shareService *service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

type CreateShareResponse struct {
	ShareCode string `json:"shareCode"`
	URL       string `json:"url"`
}

func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	teamID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid team ID", http.StatusBadRequest)
		return
	}

	shared, err := h.shareService.ShareTeam(r.Context(), userID, teamID)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [share.Create]: %v", err)
		http.Error(w, "Failed to share team", http.StatusInternalServerError)
		return
	}

	resp := CreateShareResponse{
		ShareCode: shared.ShareCode,
		URL:       "/api/v1/share/" + shared.ShareCode,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	shared, err := h.shareService.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrShareNotFound) {
			http.Error(w, "Shared team not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [share.Resolve] code=%s: %v", code, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shared)
}
