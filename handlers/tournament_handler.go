package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/arena/middleware"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

type processResultsRequest struct {
	Block   models.BlockInfo          `json:"block"`
	Results []models.MatchResultInput `json:"results" validate:"required,min=1,dive"`
}

// CreateHandler godoc
// @Summary Create an elimination tournament and generate its bracket
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournament body services.CreateTournamentInput true "Tournament"
// @Success 201 {object} map[string]interface{} "Tournament with matches"
// @Failure 400 {object} map[string]string "Invalid members or distribution"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Name already taken"
// @Failure 422 {object} map[string]string "Validation failed"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if sub, err := middleware.GetSubjectFromContext(r.Context()); err == nil {
		slog.InfoContext(r.Context(), "tournament created", slog.Int("tournament_id", tournament.ID), slog.String("created_by", sub))
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournamentByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ProcessResultsHandler godoc
// @Summary Record match results of a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param results body processResultsRequest true "Results and the block they were decided at"
// @Success 200 {object} map[string]interface{} "Updated tournament"
// @Failure 400 {object} map[string]string "Unknown match or result"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Completed or conflicting result"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/results [post]
func (h *TournamentHandler) ProcessResultsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input processResultsRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	tournament, err := h.tournamentService.ProcessResults(r.Context(), id, input.Block, input.Results)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandingsHandler обрабатывает GET /tournaments/{tournamentID}/standings
func (h *TournamentHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.tournamentService.GetStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
