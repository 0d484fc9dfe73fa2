package brackets

import (
	"sort"

	"github.com/Dosada05/arena/models"
)

// Leaderboard folds recorded league results and point adjustments into
// per-member points. Only rounds up to uptoRound count; 0 means all rounds.
// The result is ordered by points descending, then member ascending.
// MatchesPlayed is reported but not used to break ties.
func Leaderboard(members []string, matches []models.LeagueMatch, adjustments []models.PointAdjustment, points models.MatchPoints, uptoRound int) []models.MemberPoints {
	table := make(map[string]*models.MemberPoints, len(members))
	board := make([]models.MemberPoints, len(members))
	for i, m := range members {
		board[i] = models.MemberPoints{Member: m}
		table[m] = &board[i]
	}

	award := func(member string, amount int64) {
		if row, ok := table[member]; ok {
			row.Points += amount
			row.MatchesPlayed++
		}
	}

	for _, m := range matches {
		if m.Result == nil || (uptoRound > 0 && m.Round > uptoRound) {
			continue
		}
		switch *m.Result {
		case models.ResultTeam1:
			award(m.Team1, points.Win)
			award(m.Team2, points.Lose)
		case models.ResultTeam2:
			award(m.Team1, points.Lose)
			award(m.Team2, points.Win)
		case models.ResultDraw:
			award(m.Team1, points.Draw)
			award(m.Team2, points.Draw)
		}
	}

	for _, adj := range adjustments {
		if row, ok := table[adj.Member]; ok {
			row.Points += adj.Amount
		}
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].Points != board[j].Points {
			return board[i].Points > board[j].Points
		}
		return board[i].Member < board[j].Member
	})
	return board
}

// GroupPlacements turns an ordered leaderboard into placements; members on
// equal points share a placement and the next placement follows directly.
func GroupPlacements(board []models.MemberPoints) []models.Placement {
	var placements []models.Placement
	for i, row := range board {
		if i > 0 && board[i-1].Points == row.Points {
			last := &placements[len(placements)-1]
			last.Members = append(last.Members, row.Member)
			continue
		}
		placements = append(placements, models.Placement{
			Place:   len(placements) + 1,
			Members: []string{row.Member},
		})
	}
	return placements
}
