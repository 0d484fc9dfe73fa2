package handlers

import (
	"context"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
	"github.com/Dosada05/arena/services"
)

type fakeRatingService struct {
	applyErr error
	getErr   error
	listErr  error

	gotCategory int
	gotBlock    models.BlockInfo
	gotMatch    models.MatchOutcome
	gotLimit    int
	gotOffset   int
}

func (f *fakeRatingService) ApplyMatchResult(_ context.Context, categoryID int, at models.BlockInfo, match models.MatchOutcome) (*models.MemberRating, *models.MemberRating, error) {
	f.gotCategory, f.gotBlock, f.gotMatch = categoryID, at, match
	if f.applyErr != nil {
		return nil, nil, f.applyErr
	}
	r1 := &models.MemberRating{CategoryID: categoryID, Member: match.Member1, Rating: models.DefaultRating()}
	r2 := &models.MemberRating{CategoryID: categoryID, Member: match.Member2, Rating: models.DefaultRating()}
	return r1, r2, nil
}

func (f *fakeRatingService) AdjustRatings(context.Context, repositories.SQLExecutor, int, models.BlockInfo, []models.MatchOutcome) ([]models.MemberRating, error) {
	return nil, nil
}

func (f *fakeRatingService) GetRating(_ context.Context, categoryID int, member string) (*models.MemberRating, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.MemberRating{CategoryID: categoryID, Member: member, Rating: models.DefaultRating()}, nil
}

func (f *fakeRatingService) ListRatings(_ context.Context, _ int, limit, offset int) ([]models.MemberRating, error) {
	f.gotLimit, f.gotOffset = limit, offset
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []models.MemberRating{}, nil
}

func (f *fakeRatingService) DefaultRating() models.Rating {
	return models.DefaultRating()
}

type fakeTournamentService struct {
	err        error
	gotInput   services.CreateTournamentInput
	gotID      int
	gotBlock   models.BlockInfo
	gotResults []models.MatchResultInput
}

func (f *fakeTournamentService) CreateTournament(_ context.Context, input services.CreateTournamentInput) (*models.Tournament, error) {
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &models.Tournament{Competition: models.Competition{ID: 1, Kind: models.KindTournament, Name: input.Name, Members: input.Members}}, nil
}

func (f *fakeTournamentService) GetTournamentByID(_ context.Context, id int) (*models.Tournament, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Tournament{Competition: models.Competition{ID: id}}, nil
}

func (f *fakeTournamentService) ProcessResults(_ context.Context, id int, at models.BlockInfo, results []models.MatchResultInput) (*models.Tournament, error) {
	f.gotID, f.gotBlock, f.gotResults = id, at, results
	if f.err != nil {
		return nil, f.err
	}
	return &models.Tournament{Competition: models.Competition{ID: id}}, nil
}

func (f *fakeTournamentService) GetStandings(_ context.Context, id int) (*services.StandingsView, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	url := "https://archive.example.com/1.json"
	return &services.StandingsView{
		Standings:  &models.Standings{CompetitionID: id, Placements: []models.Placement{{Place: 1, Members: []string{"a"}}}},
		ArchiveURL: &url,
	}, nil
}

type fakeLeagueService struct {
	err        error
	gotID      int
	gotRound   int
	gotUpto    int
	gotResults []models.MatchResultInput
	gotAdjust  services.AdjustmentInput
}

func (f *fakeLeagueService) CreateLeague(_ context.Context, input services.CreateLeagueInput) (*models.League, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.League{Competition: models.Competition{ID: 2, Kind: models.KindLeague, Name: input.Name}, Points: input.Points}, nil
}

func (f *fakeLeagueService) GetLeagueByID(_ context.Context, id int) (*models.League, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.League{Competition: models.Competition{ID: id}}, nil
}

func (f *fakeLeagueService) Leaderboard(_ context.Context, id int, uptoRound int) ([]models.MemberPoints, error) {
	f.gotID, f.gotUpto = id, uptoRound
	if f.err != nil {
		return nil, f.err
	}
	return []models.MemberPoints{{Member: "a", Points: 3, MatchesPlayed: 1}}, nil
}

func (f *fakeLeagueService) ProcessRoundResults(_ context.Context, id int, round int, _ models.BlockInfo, results []models.MatchResultInput) (*models.League, error) {
	f.gotID, f.gotRound, f.gotResults = id, round, results
	if f.err != nil {
		return nil, f.err
	}
	return &models.League{Competition: models.Competition{ID: id}}, nil
}

func (f *fakeLeagueService) AddAdjustment(_ context.Context, id int, input services.AdjustmentInput) (*models.PointAdjustment, error) {
	f.gotID, f.gotAdjust = id, input
	if f.err != nil {
		return nil, f.err
	}
	return &models.PointAdjustment{ID: 1, Member: input.Member, Amount: input.Amount, Reason: input.Reason}, nil
}

func (f *fakeLeagueService) GetStandings(_ context.Context, id int) (*services.StandingsView, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &services.StandingsView{Standings: &models.Standings{CompetitionID: id}}, nil
}
