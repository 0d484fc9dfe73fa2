package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/middleware"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/services"
)

type RatingHandler struct {
	ratingService services.RatingService
}

func NewRatingHandler(rs services.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: rs}
}

type applyMatchRequest struct {
	Block   *models.BlockInfo `json:"block" validate:"required"`
	Member1 string            `json:"member_1" validate:"required,max=128"`
	Member2 string            `json:"member_2" validate:"required,max=128,nefield=Member1"`
	Score1  fixed.Decimal     `json:"score_1"`
	Score2  fixed.Decimal     `json:"score_2"`
}

// ApplyMatchHandler godoc
// @Summary Rate one match between two members of a category
// @Tags ratings
// @Accept json
// @Produce json
// @Param categoryID path int true "Rating category ID"
// @Param match body applyMatchRequest true "Match outcome"
// @Success 200 {object} map[string]interface{} "Both updated ratings"
// @Failure 400 {object} map[string]string "Invalid scores or members"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Block is older than the last update"
// @Failure 422 {object} map[string]string "Validation failed"
// @Security BearerAuth
// @Router /ratings/{categoryID}/matches [post]
func (h *RatingHandler) ApplyMatchHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input applyMatchRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	r1, r2, err := h.ratingService.ApplyMatchResult(r.Context(), categoryID, *input.Block, models.MatchOutcome{
		Member1: strings.TrimSpace(input.Member1),
		Member2: strings.TrimSpace(input.Member2),
		Score1:  input.Score1,
		Score2:  input.Score2,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if sub, err := middleware.GetSubjectFromContext(r.Context()); err == nil {
		slog.InfoContext(r.Context(), "match rated", slog.Int("category_id", categoryID), slog.String("submitted_by", sub))
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"member_1": r1, "member_2": r2}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRatingHandler обрабатывает GET /ratings/{categoryID}/members/{member}
func (h *RatingHandler) GetRatingHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rating, err := h.ratingService.GetRating(r.Context(), categoryID, chi.URLParam(r, "member"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rating": rating}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListRatingsHandler обрабатывает GET /ratings/{categoryID}?limit=&offset=
func (h *RatingHandler) ListRatingsHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ratings, err := h.ratingService.ListRatings(r.Context(), categoryID, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ratings": ratings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DefaultRatingHandler обрабатывает GET /ratings/default
func (h *RatingHandler) DefaultRatingHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"rating": h.ratingService.DefaultRating()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
