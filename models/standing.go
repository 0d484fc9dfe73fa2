package models

import (
	"time"

	"github.com/Dosada05/arena/fixed"
)

// Placement groups the members sharing one final position.
type Placement struct {
	Place   int      `json:"place"`
	Members []string `json:"members"`
}

type MemberShare struct {
	Member string        `json:"member"`
	Share  fixed.Decimal `json:"share"`
}

// Standings is the final result of a completed competition.
type Standings struct {
	CompetitionID int             `json:"competition_id"`
	Kind          CompetitionKind `json:"kind"`
	Name          string          `json:"name"`
	Placements    []Placement     `json:"placements"`
	Shares        []MemberShare   `json:"shares,omitempty"`
	Leaderboard   []MemberPoints  `json:"leaderboard,omitempty"`
	FinalizedAt   time.Time       `json:"finalized_at"`
}
