package models

import (
	"time"

	"github.com/Dosada05/arena/fixed"
)

// BlockInfo is the clock reading a rating was last updated at.
type BlockInfo struct {
	Height uint64 `json:"height"`
	Time   uint64 `json:"time"` // unix seconds
}

type DurationKind string

const (
	DurationHeight DurationKind = "height"
	DurationTime   DurationKind = "time"
)

// Duration is a rating period expressed in block heights or seconds.
type Duration struct {
	Kind   DurationKind `json:"kind"`
	Length uint64       `json:"length"`
}

type Rating struct {
	Value     fixed.Decimal `json:"value"`
	Phi       fixed.Decimal `json:"phi"`
	Sigma     fixed.Decimal `json:"sigma"`
	LastBlock *BlockInfo    `json:"last_block,omitempty"`
}

// DefaultRating is 1500 / 300 / 0.06 with no update history.
func DefaultRating() Rating {
	return Rating{
		Value: fixed.MustFromString("1500"),
		Phi:   fixed.MustFromString("300"),
		Sigma: fixed.MustFromString("0.06"),
	}
}

// MemberRating is a rating as stored for one member of a rating category.
type MemberRating struct {
	CategoryID int       `json:"category_id" db:"category_id"`
	Member     string    `json:"member" db:"member"`
	Rating     Rating    `json:"rating" db:"-"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// MatchOutcome is one rated match between two members of a category.
type MatchOutcome struct {
	Member1 string        `json:"member_1"`
	Member2 string        `json:"member_2"`
	Score1  fixed.Decimal `json:"score_1"`
	Score2  fixed.Decimal `json:"score_2"`
}
