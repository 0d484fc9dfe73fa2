package models

import (
	"time"

	"github.com/Dosada05/arena/fixed"
)

type CompetitionKind string

const (
	KindTournament CompetitionKind = "tournament"
	KindLeague     CompetitionKind = "league"
)

type CompetitionStatus string

const (
	StatusActive    CompetitionStatus = "active"
	StatusCompleted CompetitionStatus = "completed"
)

// Competition holds what tournaments and leagues share.
type Competition struct {
	ID          int               `json:"id" db:"id"`
	Kind        CompetitionKind   `json:"kind" db:"kind"`
	Name        string            `json:"name" db:"name"`
	Description *string           `json:"description,omitempty" db:"description"`
	CategoryID  *int              `json:"category_id,omitempty" db:"category_id"` // rating category fed by results
	Status      CompetitionStatus `json:"status" db:"status"`
	Members     []string          `json:"members" db:"-"`
	// Share of the prize per placement, summing to 1.
	Distribution []fixed.Decimal `json:"distribution,omitempty" db:"-"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

type EliminationType string

const (
	SingleElimination EliminationType = "single_elimination"
	DoubleElimination EliminationType = "double_elimination"
)

type Tournament struct {
	Competition
	EliminationType EliminationType `json:"elimination_type" db:"elimination_type"`
	ThirdPlace      bool            `json:"third_place" db:"third_place"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}
