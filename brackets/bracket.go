package brackets

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Dosada05/arena/models"
)

var (
	ErrMatchNotFound     = errors.New("brackets: match not found")
	ErrInvalidResult     = errors.New("brackets: unknown match result")
	ErrMatchNotReady     = errors.New("brackets: match is not populated yet")
	ErrDrawNotAllowed    = errors.New("brackets: elimination matches cannot end in a draw")
	ErrResultConflict    = errors.New("brackets: match already has a different result")
	ErrBracketIncomplete = errors.New("brackets: not every match has a result")
)

// Bracket is a generated elimination bracket and its recorded results.
type Bracket struct {
	Type    models.EliminationType
	Matches []models.Match
}

// Process records results in order and threads winners and losers into the
// matches they feed. Recording the same result again is a no-op; a different
// result for a resolved match is rejected. When any result fails the bracket
// is left unchanged. The returned matches are the ones resolved by this call.
func (b *Bracket) Process(results []models.MatchResultInput) ([]models.Match, error) {
	matches := slices.Clone(b.Matches)
	var resolved []models.Match

	for _, res := range results {
		if !res.Result.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidResult, res.Result)
		}
		if res.Result == models.ResultDraw {
			return nil, fmt.Errorf("%w: match %d", ErrDrawNotAllowed, res.MatchNumber)
		}
		if res.MatchNumber < 1 || res.MatchNumber > len(matches) {
			return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, res.MatchNumber)
		}

		m := &matches[res.MatchNumber-1]
		if m.Result != nil {
			if *m.Result == res.Result {
				continue
			}
			return nil, fmt.Errorf("%w: match %d is %s", ErrResultConflict, m.Number, *m.Result)
		}
		if m.Team1 == nil || m.Team2 == nil {
			return nil, fmt.Errorf("%w: %d", ErrMatchNotReady, m.Number)
		}

		result := res.Result
		m.Result = &result
		winner, _ := m.Winner()
		loser, _ := m.Loser()

		if m.NextMatchWinner != nil {
			fillSlot(&matches[*m.NextMatchWinner-1], m.NextWinnerSlot, winner)
		}
		if m.NextMatchLoser != nil {
			fillSlot(&matches[*m.NextMatchLoser-1], m.NextLoserSlot, loser)
		}
		done := *m
		resolved = append(resolved, done)

		if b.Type == models.DoubleElimination && done.Stage == models.StageGrandFinal && result == models.ResultTeam2 {
			matches = append(matches, resetMatch(done, len(matches)+1))
		}
	}

	b.Matches = matches
	return resolved, nil
}

func fillSlot(m *models.Match, slot int, member string) {
	if slot == 2 {
		m.Team2 = &member
		return
	}
	m.Team1 = &member
}

func resetMatch(final models.Match, number int) models.Match {
	team1, team2 := *final.Team1, *final.Team2
	return models.Match{
		Number: number,
		Round:  final.Round + 1,
		Stage:  models.StageReset,
		Team1:  &team1,
		Team2:  &team2,
	}
}

func (b *Bracket) Completed() bool {
	if len(b.Matches) == 0 {
		return false
	}
	for i := range b.Matches {
		if !b.Matches[i].Resolved() {
			return false
		}
	}
	return true
}

// Placements ranks members once every match is resolved: winner and runner-up
// of the final, then the third place match (single elimination) or the losers
// bracket final loser (double elimination).
func (b *Bracket) Placements() ([]models.Placement, error) {
	if !b.Completed() {
		return nil, ErrBracketIncomplete
	}

	last := &b.Matches[len(b.Matches)-1]
	first, _ := last.Winner()
	second, _ := last.Loser()
	placements := []models.Placement{
		{Place: 1, Members: []string{first}},
		{Place: 2, Members: []string{second}},
	}

	switch b.Type {
	case models.SingleElimination:
		for i := range b.Matches {
			m := &b.Matches[i]
			if m.Stage != models.StageThirdPlace {
				continue
			}
			third, _ := m.Winner()
			fourth, _ := m.Loser()
			placements = append(placements,
				models.Placement{Place: 3, Members: []string{third}},
				models.Placement{Place: 4, Members: []string{fourth}},
			)
		}
	case models.DoubleElimination:
		if third, ok := b.losersFinalLoser(); ok {
			placements = append(placements, models.Placement{Place: 3, Members: []string{third}})
		}
	}
	return placements, nil
}

func (b *Bracket) losersFinalLoser() (string, bool) {
	for i := range b.Matches {
		gf := &b.Matches[i]
		if gf.Stage != models.StageGrandFinal {
			continue
		}
		for j := range b.Matches {
			m := &b.Matches[j]
			if m.Stage == models.StageLosers && m.NextMatchWinner != nil && *m.NextMatchWinner == gf.Number {
				return m.Loser()
			}
		}
	}
	return "", false
}

// PlacementCount is how many placements a completed bracket of this shape yields.
func PlacementCount(t models.EliminationType, members int, thirdPlace bool) int {
	switch {
	case t == models.SingleElimination && thirdPlace:
		return 4
	case t == models.DoubleElimination && members > 2:
		return 3
	}
	return 2
}
