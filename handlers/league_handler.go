package handlers

import (
	"net/http"

	"github.com/Dosada05/arena/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(ls services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: ls}
}

// CreateHandler godoc
// @Summary Create a round robin league and schedule its rounds
// @Tags leagues
// @Accept json
// @Produce json
// @Param league body services.CreateLeagueInput true "League"
// @Success 201 {object} map[string]interface{} "League with its schedule"
// @Failure 400 {object} map[string]string "Invalid members, points or distribution"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Name already taken"
// @Failure 422 {object} map[string]string "Validation failed"
// @Security BearerAuth
// @Router /leagues [post]
func (h *LeagueHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateLeagueInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	league, err := h.leagueService.CreateLeague(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /leagues/{leagueID}
func (h *LeagueHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.GetLeagueByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LeaderboardHandler обрабатывает GET /leagues/{leagueID}/leaderboard?upto_round=
func (h *LeagueHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	upto, err := queryInt(r, "upto_round", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leagueService.Leaderboard(r.Context(), id, upto)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ProcessRoundResultsHandler godoc
// @Summary Record results of one league round
// @Tags leagues
// @Accept json
// @Produce json
// @Param leagueID path int true "League ID"
// @Param round path int true "Round number"
// @Param results body processResultsRequest true "Results and the block they were decided at"
// @Success 200 {object} map[string]interface{} "Updated league"
// @Failure 400 {object} map[string]string "Match outside the round or unknown result"
// @Failure 404 {object} map[string]string "League or round not found"
// @Failure 409 {object} map[string]string "League already completed"
// @Security BearerAuth
// @Router /leagues/{leagueID}/rounds/{round}/results [post]
func (h *LeagueHandler) ProcessRoundResultsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := getIDFromURL(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input processResultsRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	league, err := h.leagueService.ProcessRoundResults(r.Context(), id, round, input.Block, input.Results)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddAdjustmentHandler обрабатывает POST /leagues/{leagueID}/adjustments
func (h *LeagueHandler) AddAdjustmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AdjustmentInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	adjustment, err := h.leagueService.AddAdjustment(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"adjustment": adjustment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandingsHandler обрабатывает GET /leagues/{leagueID}/standings
func (h *LeagueHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.leagueService.GetStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
