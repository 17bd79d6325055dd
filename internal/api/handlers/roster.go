package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/theo/champion-teams-website/internal/api/middleware"
	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/service"
	"github.com/theo/champion-teams-website/internal/transfer"
)

type RosterHandler struct {
	rosterService   *service.RosterService
	transferService *service.TransferService
}

func NewRosterHandler(rosterService *service.RosterService, transferService *service.TransferService) *RosterHandler {
	return &RosterHandler{
		rosterService:   rosterService,
		transferService: transferService,
	}
}

type RosterResponse struct {
	Entries []*domain.RosterEntry `json:"entries"`
}

type RosterEntryResponse struct {
	Entry    *domain.RosterEntry `json:"entry"`
	Warnings []domain.Warning    `json:"warnings"`
}

func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.rosterService.GetRoster(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [roster.Get]: %v", err)
		http.Error(w, "Failed to get roster", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RosterResponse{Entries: entries})
}

func (h *RosterHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input service.RosterEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if input.ChampionID == "" {
		http.Error(w, "Champion ID is required", http.StatusBadRequest)
		return
	}

	entry, warnings, err := h.rosterService.AddEntry(r.Context(), userID, input)
	if err != nil {
		writeRosterError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RosterEntryResponse{Entry: entry, Warnings: warnings})
}

func (h *RosterHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	championID := chi.URLParam(r, "championID")

	var input service.RosterEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, warnings, err := h.rosterService.UpdateEntry(r.Context(), userID, championID, input)
	if err != nil {
		writeRosterError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RosterEntryResponse{Entry: entry, Warnings: warnings})
}

func (h *RosterHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	championID := chi.URLParam(r, "championID")

	if err := h.rosterService.RemoveEntry(r.Context(), userID, championID); err != nil {
		writeRosterError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *RosterHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	summary, err := h.transferService.ImportRoster(r.Context(), userID, data)
	if err != nil {
		if errors.Is(err, transfer.ErrMalformedDocument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [roster.Import]: %v", err)
		http.Error(w, "Failed to import roster", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *RosterHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := h.transferService.ExportJSON(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [roster.ExportJSON]: %v", err)
		http.Error(w, "Failed to export roster", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.json"`)
	w.Write(data)
}

func (h *RosterHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	buf, err := h.transferService.ExportXLSX(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [roster.ExportXLSX]: %v", err)
		http.Error(w, "Failed to export roster", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.xlsx"`)
	w.Write(buf.Bytes())
}

func writeRosterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrChampionNotFound):
		http.Error(w, "Champion not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrRosterEntryNotFound):
		http.Error(w, "Roster entry not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicateRosterEntry):
		http.Error(w, "Champion is already in roster", http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidForceLevel), errors.Is(err, domain.ErrInvalidGearSlot):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("ERROR [roster]: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
