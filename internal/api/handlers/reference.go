package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/service"
)

// ReferenceHandler serves the three reference collections and the seed
// endpoint that loads them.
type ReferenceHandler struct {
	refs *service.ReferenceService
}

func NewReferenceHandler(refs *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

type ChampionsResponse struct {
	Champions []*domain.ChampionDefinition `json:"champions"`
}

type SynergiesResponse struct {
	Synergies []*domain.SynergyDefinition `json:"synergies"`
}

type LegacyPiecesResponse struct {
	LegacyPieces []*domain.LegacyPieceDefinition `json:"legacyPieces"`
}

func (h *ReferenceHandler) GetChampions(w http.ResponseWriter, r *http.Request) {
	champions, err := h.refs.GetChampions(r.Context())
	if err != nil {
		log.Printf("ERROR [reference.GetChampions]: %v", err)
		http.Error(w, "Failed to get champions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChampionsResponse{Champions: champions})
}

func (h *ReferenceHandler) GetChampion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	champion, err := h.refs.GetChampion(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrChampionNotFound) {
			http.Error(w, "Champion not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [reference.GetChampion] championID=%s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(champion)
}

func (h *ReferenceHandler) GetSynergies(w http.ResponseWriter, r *http.Request) {
	synergies, err := h.refs.GetSynergies(r.Context())
	if err != nil {
		log.Printf("ERROR [reference.GetSynergies]: %v", err)
		http.Error(w, "Failed to get synergies", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SynergiesResponse{Synergies: synergies})
}

func (h *ReferenceHandler) GetLegacyPieces(w http.ResponseWriter, r *http.Request) {
	pieces, err := h.refs.GetLegacyPieces(r.Context())
	if err != nil {
		log.Printf("ERROR [reference.GetLegacyPieces]: %v", err)
		http.Error(w, "Failed to get legacy pieces", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LegacyPiecesResponse{LegacyPieces: pieces})
}

func (h *ReferenceHandler) Seed(w http.ResponseWriter, r *http.Request) {
	var input service.SeedInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.refs.Seed(r.Context(), input)
	if err != nil {
		log.Printf("ERROR [reference.Seed]: %v", err)
		http.Error(w, "Failed to seed reference data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
