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
	"github.com/theo/champion-teams-website/internal/scoring"
	"github.com/theo/champion-teams-website/internal/service"
)

type TeamHandler struct {
	teamService *service.TeamService
}

func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

type EvaluateTeamRequest struct {
	MemberIDs []string `json:"memberIds"`
}

type SaveTeamRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

type SwapMemberRequest struct {
	Index         int    `json:"index"`
	ReplacementID string `json:"replacementId"`
}

type TeamsResponse struct {
	Teams []*domain.SavedTeam `json:"teams"`
}

type SwapMemberResponse struct {
	Team       *domain.SavedTeam       `json:"team"`
	Evaluation *scoring.TeamEvaluation `json:"evaluation"`
}

func (h *TeamHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req EvaluateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eval, err := h.teamService.Evaluate(r.Context(), userID, req.MemberIDs)
	if err != nil {
		writeTeamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eval)
}

func (h *TeamHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	team, err := h.teamService.SaveTeam(r.Context(), userID, req.Name, req.MemberIDs)
	if err != nil {
		writeTeamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(team)
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	teams, err := h.teamService.ListTeams(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [team.List]: %v", err)
		http.Error(w, "Failed to list teams", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TeamsResponse{Teams: teams})
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	team, err := h.teamService.GetTeam(r.Context(), userID, teamID)
	if err != nil {
		writeTeamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(team)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.teamService.DeleteTeam(r.Context(), userID, teamID); err != nil {
		writeTeamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *TeamHandler) Swap(w http.ResponseWriter, r *http.Request) {
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

	var req SwapMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ReplacementID == "" {
		http.Error(w, "Replacement champion ID is required", http.StatusBadRequest)
		return
	}

	team, eval, err := h.teamService.SwapMember(r.Context(), userID, teamID, req.Index, req.ReplacementID)
	if err != nil {
		writeTeamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SwapMemberResponse{Team: team, Evaluation: eval})
}

func writeTeamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTeamNotFound):
		http.Error(w, "Team not found", http.StatusNotFound)
	case errors.Is(err, scoring.ErrTeamSize),
		errors.Is(err, scoring.ErrDuplicateMember),
		errors.Is(err, service.ErrMemberNotInRoster),
		errors.Is(err, optimizer.ErrMemberIndex):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("ERROR [team]: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
