package handlers

import (
	"net/http"

	"github.com/Dosada05/arena/brackets"
)

type seedRequest struct {
	Participants []string `json:"participants" validate:"required,min=2,dive,required,max=128"`
}

// SeedingHandler обрабатывает POST /seeding: возвращает участников в порядке первого раунда сетки
func SeedingHandler(w http.ResponseWriter, r *http.Request) {
	var input seedRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	seeded, err := brackets.SeedBracket(input.Participants)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"seeded": seeded}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
