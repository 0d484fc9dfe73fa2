package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arena/brackets"
	"github.com/Dosada05/arena/competition"
	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

func intPtr(v int) *int { return &v }

func decimals(values ...string) []fixed.Decimal {
	out := make([]fixed.Decimal, len(values))
	for i, v := range values {
		out[i] = fixed.MustFromString(v)
	}
	return out
}

func res(number int, r models.MatchResult) models.MatchResultInput {
	return models.MatchResultInput{MatchNumber: number, Result: r}
}

func createCup(t *testing.T, f *fixture, input CreateTournamentInput) *models.Tournament {
	t.Helper()
	if input.Name == "" {
		input.Name = "Winter cup"
	}
	if input.EliminationType == "" {
		input.EliminationType = models.SingleElimination
	}
	tournament, err := f.tournamentService.CreateTournament(context.Background(), input)
	require.NoError(t, err)
	return tournament
}

func TestCreateTournament(t *testing.T) {
	f := newFixture()
	desc := "  open bracket "

	tournament := createCup(t, f, CreateTournamentInput{
		Name:        "  Winter cup ",
		Description: &desc,
		Members:     []string{"a", " b", "c", "d", "e"},
	})

	assert.Equal(t, "Winter cup", tournament.Name)
	assert.Equal(t, "open bracket", *tournament.Description)
	assert.Equal(t, models.StatusActive, tournament.Status)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, tournament.Members)
	// five members pad to eight: one first round match, then 2 + 1.
	assert.Len(t, tournament.Matches, 4)

	loaded, err := f.tournamentService.GetTournamentByID(context.Background(), tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.Matches, loaded.Matches)
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	testCases := []struct {
		name  string
		input CreateTournamentInput
		want  error
	}{
		{
			name:  "blank name",
			input: CreateTournamentInput{Name: "  ", Members: []string{"a", "b"}, EliminationType: models.SingleElimination},
			want:  ErrCompetitionNameRequired,
		},
		{
			name:  "duplicate member",
			input: CreateTournamentInput{Name: "x", Members: []string{"a", "a "}, EliminationType: models.SingleElimination},
			want:  brackets.ErrDuplicateMember,
		},
		{
			name:  "third place with three members",
			input: CreateTournamentInput{Name: "x", Members: []string{"a", "b", "c"}, EliminationType: models.SingleElimination, ThirdPlace: true},
			want:  brackets.ErrThirdPlaceTooSmall,
		},
		{
			name:  "unknown elimination",
			input: CreateTournamentInput{Name: "x", Members: []string{"a", "b"}, EliminationType: "swiss"},
			want:  brackets.ErrUnknownElimination,
		},
		{
			name: "distribution sum",
			input: CreateTournamentInput{
				Name: "x", Members: []string{"a", "b"}, EliminationType: models.SingleElimination,
				Distribution: decimals("0.5", "0.4"),
			},
			want: competition.ErrDistributionSum,
		},
		{
			name: "distribution overflows",
			input: CreateTournamentInput{
				Name: "x", Members: []string{"a", "b"}, EliminationType: models.SingleElimination,
				Distribution: decimals("300000000000000000000", "300000000000000000000"),
			},
			want: fixed.ErrOverflow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.tournamentService.CreateTournament(ctx, tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}

	createCup(t, f, CreateTournamentInput{Name: "dup", Members: []string{"a", "b"}})
	_, err := f.tournamentService.CreateTournament(ctx, CreateTournamentInput{
		Name: "dup", Members: []string{"a", "b"}, EliminationType: models.SingleElimination,
	})
	require.ErrorIs(t, err, ErrCompetitionNameConflict)
}

func TestProcessResultsCompletesTournament(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := createCup(t, f, CreateTournamentInput{
		Members:      []string{"a", "b", "c", "d"},
		CategoryID:   intPtr(5),
		Distribution: decimals("0.7", "0.3"),
	})
	// seeds pair as a-d and b-c, then the final.
	require.Equal(t, [2]string{"a", "d"}, [2]string{*tournament.Matches[0].Team1, *tournament.Matches[0].Team2})

	at := models.BlockInfo{Height: 20, Time: 2_000}
	updated, err := f.tournamentService.ProcessResults(ctx, tournament.ID, at, []models.MatchResultInput{
		res(1, models.ResultTeam1),
		res(2, models.ResultTeam1),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)
	assert.Equal(t, "a", *updated.Matches[2].Team1)
	assert.Equal(t, "b", *updated.Matches[2].Team2)

	updated, err = f.tournamentService.ProcessResults(ctx, tournament.ID, at, []models.MatchResultInput{
		res(3, models.ResultTeam2),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	view, err := f.tournamentService.GetStandings(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Placement{
		{Place: 1, Members: []string{"b"}},
		{Place: 2, Members: []string{"a"}},
	}, view.Standings.Placements)
	require.Len(t, view.Standings.Shares, 2)
	assert.Equal(t, "b", view.Standings.Shares[0].Member)
	assert.Equal(t, "0.7", view.Standings.Shares[0].Share.String())
	require.NotNil(t, view.ArchiveURL)
	assert.Equal(t, "https://archive.example.com/1.json", *view.ArchiveURL)

	// every member was rated, b twice.
	assert.Equal(t, 6, f.ratings.upserts)
	b, err := f.ratingService.GetRating(ctx, 5, "b")
	require.NoError(t, err)
	assert.Greater(t, asFloat(b.Rating.Value), 1500.0)

	assert.True(t, f.hub.has(brackets.CompetitionRoom(tournament.ID), brackets.EventMatchesUpdated))
	assert.True(t, f.hub.has(brackets.CompetitionRoom(tournament.ID), brackets.EventCompetitionCompleted))
	assert.True(t, f.hub.has(brackets.RatingsRoom(5), brackets.EventRatingsUpdated))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CompetitionsFinished.WithLabelValues("tournament")))

	_, err = f.tournamentService.ProcessResults(ctx, tournament.ID, at, []models.MatchResultInput{res(3, models.ResultTeam2)})
	require.ErrorIs(t, err, ErrCompetitionCompleted)
}

func TestProcessResultsDoubleEliminationReset(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tournament := createCup(t, f, CreateTournamentInput{
		Members:         []string{"a", "b"},
		EliminationType: models.DoubleElimination,
	})
	require.Len(t, tournament.Matches, 2)

	updated, err := f.tournamentService.ProcessResults(ctx, tournament.ID, models.BlockInfo{}, []models.MatchResultInput{
		res(1, models.ResultTeam1),
		res(2, models.ResultTeam2),
	})
	require.NoError(t, err)
	require.Len(t, updated.Matches, 3)
	assert.Equal(t, models.StageReset, updated.Matches[2].Stage)
	assert.Equal(t, models.StatusActive, updated.Status)

	updated, err = f.tournamentService.ProcessResults(ctx, tournament.ID, models.BlockInfo{}, []models.MatchResultInput{
		res(3, models.ResultTeam2),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	// no rating category, so nothing was rated.
	assert.Zero(t, f.ratings.upserts)
}

func TestProcessResultsErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tournament := createCup(t, f, CreateTournamentInput{Members: []string{"a", "b", "c", "d"}})

	testCases := []struct {
		name    string
		id      int
		results []models.MatchResultInput
		want    error
	}{
		{name: "unknown tournament", id: 99, results: []models.MatchResultInput{res(1, models.ResultTeam1)}, want: ErrCompetitionNotFound},
		{name: "no results", id: tournament.ID, want: ErrEmptyResults},
		{name: "draw", id: tournament.ID, results: []models.MatchResultInput{res(1, models.ResultDraw)}, want: brackets.ErrDrawNotAllowed},
		{name: "final not ready", id: tournament.ID, results: []models.MatchResultInput{res(3, models.ResultTeam1)}, want: brackets.ErrMatchNotReady},
		{name: "unknown match", id: tournament.ID, results: []models.MatchResultInput{res(9, models.ResultTeam1)}, want: brackets.ErrMatchNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.tournamentService.ProcessResults(ctx, tc.id, models.BlockInfo{}, tc.results)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.tournamentService.GetStandings(ctx, tournament.ID)
	require.ErrorIs(t, err, ErrStandingsNotReady)
}

func TestArchiveFailureDoesNotFailCompletion(t *testing.T) {
	f := newFixture()
	f.archiver.err = errors.New("bucket unavailable")
	ctx := context.Background()

	tournament := createCup(t, f, CreateTournamentInput{Members: []string{"a", "b"}})
	updated, err := f.tournamentService.ProcessResults(ctx, tournament.ID, models.BlockInfo{}, []models.MatchResultInput{
		res(1, models.ResultTeam1),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ArchiveFailures))

	view, err := f.tournamentService.GetStandings(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Nil(t, view.ArchiveURL)
}
