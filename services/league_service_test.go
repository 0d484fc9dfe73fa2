package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arena/brackets"
	"github.com/Dosada05/arena/models"
)

var classicPoints = models.MatchPoints{Win: 3, Draw: 1, Lose: 0}

func createLeague(t *testing.T, f *fixture, input CreateLeagueInput) *models.League {
	t.Helper()
	if input.Name == "" {
		input.Name = "Spring league"
	}
	if input.Points == (models.MatchPoints{}) {
		input.Points = classicPoints
	}
	league, err := f.leagueService.CreateLeague(context.Background(), input)
	require.NoError(t, err)
	return league
}

func TestCreateLeague(t *testing.T) {
	f := newFixture()

	league := createLeague(t, f, CreateLeagueInput{Members: []string{"a", "b", "c"}})
	assert.Equal(t, 3, league.Rounds)
	require.Len(t, league.Matches, 3)
	assert.Equal(t, models.LeagueMatch{Round: 1, Number: 1, Team1: "a", Team2: "c"}, league.Matches[0])
	assert.Equal(t, models.LeagueMatch{Round: 2, Number: 2, Team1: "c", Team2: "b"}, league.Matches[1])
	assert.Equal(t, models.LeagueMatch{Round: 3, Number: 3, Team1: "a", Team2: "b"}, league.Matches[2])

	double := createLeague(t, f, CreateLeagueInput{Name: "Double", Members: []string{"a", "b", "c"}, DoubleRoundRobin: true})
	assert.Equal(t, 6, double.Rounds)
	assert.Len(t, double.Matches, 6)

	_, err := f.leagueService.CreateLeague(context.Background(), CreateLeagueInput{
		Name: "Negative", Members: []string{"a", "b"}, Points: models.MatchPoints{Win: 3, Lose: -1},
	})
	require.ErrorIs(t, err, ErrInvalidMatchPoints)

	_, err = f.leagueService.CreateLeague(context.Background(), CreateLeagueInput{
		Name: "Solo", Members: []string{"a"}, Points: classicPoints,
	})
	require.ErrorIs(t, err, brackets.ErrNotEnoughMembers)
}

func TestLeagueLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	at := models.BlockInfo{Height: 30}

	league := createLeague(t, f, CreateLeagueInput{
		Members:      []string{"a", "b", "c"},
		CategoryID:   intPtr(9),
		Distribution: decimals("0.6", "0.4"),
	})

	_, err := f.leagueService.ProcessRoundResults(ctx, league.ID, 1, at, []models.MatchResultInput{res(1, models.ResultTeam1)})
	require.NoError(t, err)
	assert.Equal(t, 2, f.ratings.upserts)

	// changing a result keeps the league going but does not rate the match again.
	updated, err := f.leagueService.ProcessRoundResults(ctx, league.ID, 1, at, []models.MatchResultInput{res(1, models.ResultTeam2)})
	require.NoError(t, err)
	assert.Equal(t, models.ResultTeam2, *updated.Matches[0].Result)
	assert.Equal(t, 2, f.ratings.upserts)

	adj, err := f.leagueService.AddAdjustment(ctx, league.ID, AdjustmentInput{Member: " c ", Amount: 1, Reason: "fair play"})
	require.NoError(t, err)
	assert.Equal(t, "c", adj.Member)
	assert.True(t, f.hub.has(brackets.CompetitionRoom(league.ID), brackets.EventPointsAdjusted))

	board, err := f.leagueService.Leaderboard(ctx, league.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.MemberPoints{
		{Member: "c", Points: 4, MatchesPlayed: 1},
		{Member: "a", Points: 0, MatchesPlayed: 1},
		{Member: "b", Points: 0, MatchesPlayed: 0},
	}, board)

	_, err = f.leagueService.ProcessRoundResults(ctx, league.ID, 2, at, []models.MatchResultInput{res(2, models.ResultDraw)})
	require.NoError(t, err)
	updated, err = f.leagueService.ProcessRoundResults(ctx, league.ID, 3, at, []models.MatchResultInput{res(3, models.ResultTeam2)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, 6, f.ratings.upserts)

	view, err := f.leagueService.GetStandings(ctx, league.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Placement{
		{Place: 1, Members: []string{"c"}},
		{Place: 2, Members: []string{"b"}},
		{Place: 3, Members: []string{"a"}},
	}, view.Standings.Placements)
	assert.Equal(t, []models.MemberPoints{
		{Member: "c", Points: 5, MatchesPlayed: 2},
		{Member: "b", Points: 4, MatchesPlayed: 2},
		{Member: "a", Points: 0, MatchesPlayed: 2},
	}, view.Standings.Leaderboard)
	require.Len(t, view.Standings.Shares, 2)
	assert.Equal(t, "0.6", view.Standings.Shares[0].Share.String())
	assert.Equal(t, "0.4", view.Standings.Shares[1].Share.String())
	assert.Equal(t, []int{league.ID}, f.archiver.archived)

	_, err = f.leagueService.ProcessRoundResults(ctx, league.ID, 3, at, []models.MatchResultInput{res(3, models.ResultTeam1)})
	require.ErrorIs(t, err, ErrCompetitionCompleted)
	_, err = f.leagueService.AddAdjustment(ctx, league.ID, AdjustmentInput{Member: "a", Amount: 2})
	require.ErrorIs(t, err, ErrCompetitionCompleted)
}

func TestTiedLeagueSplitsShares(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	league := createLeague(t, f, CreateLeagueInput{
		Members:      []string{"a", "b"},
		Distribution: decimals("0.75", "0.25"),
	})
	_, err := f.leagueService.ProcessRoundResults(ctx, league.ID, 1, models.BlockInfo{}, []models.MatchResultInput{res(1, models.ResultDraw)})
	require.NoError(t, err)

	view, err := f.leagueService.GetStandings(ctx, league.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Placement{{Place: 1, Members: []string{"a", "b"}}}, view.Standings.Placements)
	assert.Equal(t, "0.5", view.Standings.Shares[0].Share.String())
	assert.Equal(t, "0.5", view.Standings.Shares[1].Share.String())
}

func TestLeagueErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	league := createLeague(t, f, CreateLeagueInput{Members: []string{"a", "b", "c"}})

	testCases := []struct {
		name    string
		id      int
		round   int
		results []models.MatchResultInput
		want    error
	}{
		{name: "unknown league", id: 42, round: 1, results: []models.MatchResultInput{res(1, models.ResultTeam1)}, want: ErrCompetitionNotFound},
		{name: "no results", id: league.ID, round: 1, want: ErrEmptyResults},
		{name: "round zero", id: league.ID, round: 0, results: []models.MatchResultInput{res(1, models.ResultTeam1)}, want: ErrRoundNotFound},
		{name: "round past the end", id: league.ID, round: 4, results: []models.MatchResultInput{res(1, models.ResultTeam1)}, want: ErrRoundNotFound},
		{name: "match from another round", id: league.ID, round: 2, results: []models.MatchResultInput{res(1, models.ResultTeam1)}, want: ErrMatchNotInRound},
		{name: "unknown match", id: league.ID, round: 1, results: []models.MatchResultInput{res(9, models.ResultTeam1)}, want: brackets.ErrMatchNotFound},
		{name: "unknown result", id: league.ID, round: 1, results: []models.MatchResultInput{res(1, "forfeit")}, want: brackets.ErrInvalidResult},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.leagueService.ProcessRoundResults(ctx, tc.id, tc.round, models.BlockInfo{}, tc.results)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.leagueService.AddAdjustment(ctx, league.ID, AdjustmentInput{Member: "zed", Amount: 1})
	require.ErrorIs(t, err, ErrMemberNotInLeague)
	_, err = f.leagueService.AddAdjustment(ctx, league.ID, AdjustmentInput{Member: "a"})
	require.ErrorIs(t, err, ErrZeroAdjustment)
	_, err = f.leagueService.AddAdjustment(ctx, 42, AdjustmentInput{Member: "a", Amount: 1})
	require.ErrorIs(t, err, ErrCompetitionNotFound)

	_, err = f.leagueService.Leaderboard(ctx, league.ID, 4)
	require.ErrorIs(t, err, ErrRoundNotFound)
	_, err = f.leagueService.GetStandings(ctx, league.ID)
	require.ErrorIs(t, err, ErrStandingsNotReady)
}
