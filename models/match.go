package models

type MatchResult string

const (
	ResultTeam1 MatchResult = "team_1"
	ResultTeam2 MatchResult = "team_2"
	ResultDraw  MatchResult = "draw"
)

func (r MatchResult) Valid() bool {
	switch r {
	case ResultTeam1, ResultTeam2, ResultDraw:
		return true
	}
	return false
}

type Stage string

const (
	StageWinners    Stage = "winners"
	StageLosers     Stage = "losers"
	StageGrandFinal Stage = "grand_final"
	StageReset      Stage = "reset"
	StageThirdPlace Stage = "third_place"
)

// Match is a node of an elimination bracket. Matches are numbered from 1 in
// creation order and reference each other by number.
type Match struct {
	Number          int          `json:"number" db:"number"`
	Round           int          `json:"round" db:"round"`
	Stage           Stage        `json:"stage" db:"stage"`
	Team1           *string      `json:"team_1,omitempty" db:"team_1"`
	Team2           *string      `json:"team_2,omitempty" db:"team_2"`
	Result          *MatchResult `json:"result,omitempty" db:"result"`
	NextMatchWinner *int         `json:"next_match_winner,omitempty" db:"next_match_winner"`
	NextWinnerSlot  int          `json:"next_winner_slot,omitempty" db:"next_winner_slot"`
	NextMatchLoser  *int         `json:"next_match_loser,omitempty" db:"next_match_loser"`
	NextLoserSlot   int          `json:"next_loser_slot,omitempty" db:"next_loser_slot"`
}

func (m *Match) Resolved() bool { return m.Result != nil }

// Winner returns the member that won a resolved match.
func (m *Match) Winner() (string, bool) {
	if m.Result == nil || m.Team1 == nil || m.Team2 == nil {
		return "", false
	}
	switch *m.Result {
	case ResultTeam1:
		return *m.Team1, true
	case ResultTeam2:
		return *m.Team2, true
	}
	return "", false
}

func (m *Match) Loser() (string, bool) {
	if m.Result == nil || m.Team1 == nil || m.Team2 == nil {
		return "", false
	}
	switch *m.Result {
	case ResultTeam1:
		return *m.Team2, true
	case ResultTeam2:
		return *m.Team1, true
	}
	return "", false
}

// MatchResultInput records the result of one match by number.
type MatchResultInput struct {
	MatchNumber int         `json:"match_number" validate:"required,gt=0"`
	Result      MatchResult `json:"result" validate:"required,oneof=team_1 team_2 draw"`
}
