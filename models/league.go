package models

import "time"

// MatchPoints are the leaderboard points awarded per match outcome.
type MatchPoints struct {
	Win  int64 `json:"win" db:"points_win"`
	Draw int64 `json:"draw" db:"points_draw"`
	Lose int64 `json:"lose" db:"points_lose"`
}

type LeagueMatch struct {
	Round  int          `json:"round" db:"round"`
	Number int          `json:"number" db:"number"`
	Team1  string       `json:"team_1" db:"team_1"`
	Team2  string       `json:"team_2" db:"team_2"`
	Result *MatchResult `json:"result,omitempty" db:"result"`
}

type League struct {
	Competition
	Points           MatchPoints `json:"points"`
	DoubleRoundRobin bool        `json:"double_round_robin" db:"double_round_robin"`
	Rounds           int         `json:"rounds" db:"rounds"`

	Matches     []LeagueMatch     `json:"matches,omitempty" db:"-"`
	Adjustments []PointAdjustment `json:"adjustments,omitempty" db:"-"`
}

// PointAdjustment adds (or, when negative, removes) leaderboard points.
type PointAdjustment struct {
	ID        int       `json:"id" db:"id"`
	Member    string    `json:"member" db:"member"`
	Amount    int64     `json:"amount" db:"amount"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type MemberPoints struct {
	Member        string `json:"member"`
	Points        int64  `json:"points"`
	MatchesPlayed int    `json:"matches_played"`
}
