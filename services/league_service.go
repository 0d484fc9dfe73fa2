package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/arena/brackets"
	"github.com/Dosada05/arena/competition"
	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/metrics"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
)

type LeagueService interface {
	CreateLeague(ctx context.Context, input CreateLeagueInput) (*models.League, error)
	GetLeagueByID(ctx context.Context, id int) (*models.League, error)
	// Leaderboard folds results and adjustments up to round uptoRound
	// (0 means every round).
	Leaderboard(ctx context.Context, id int, uptoRound int) ([]models.MemberPoints, error)
	ProcessRoundResults(ctx context.Context, id int, round int, at models.BlockInfo, results []models.MatchResultInput) (*models.League, error)
	AddAdjustment(ctx context.Context, id int, input AdjustmentInput) (*models.PointAdjustment, error)
	GetStandings(ctx context.Context, id int) (*StandingsView, error)
}

type CreateLeagueInput struct {
	Name             string             `json:"name" validate:"required,max=128"`
	Description      *string            `json:"description,omitempty" validate:"omitempty,max=1024"`
	CategoryID       *int               `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Members          []string           `json:"members" validate:"required,min=2,unique,dive,required,max=128"`
	Points           models.MatchPoints `json:"points"`
	DoubleRoundRobin bool               `json:"double_round_robin"`
	Distribution     []fixed.Decimal    `json:"distribution,omitempty"`
}

type AdjustmentInput struct {
	Member string `json:"member" validate:"required,max=128"`
	Amount int64  `json:"amount" validate:"required"`
	Reason string `json:"reason" validate:"max=512"`
}

type leagueService struct {
	tx         repositories.TxRunner
	leagueRepo repositories.LeagueRepository
	scheduler  *brackets.RoundRobinGenerator
	ratings    RatingService
	final      *finalizer
	hub        EventBroadcaster
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewLeagueService(
	tx repositories.TxRunner,
	leagueRepo repositories.LeagueRepository,
	ratings RatingService,
	deps CompletionDeps,
) LeagueService {
	f := deps.finalizer()
	return &leagueService{
		tx:         tx,
		leagueRepo: leagueRepo,
		scheduler:  brackets.NewRoundRobinGenerator(),
		ratings:    ratings,
		final:      f,
		hub:        f.hub,
		metrics:    f.metrics,
		logger:     f.logger,
	}
}

func (s *leagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (*models.League, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCompetitionNameRequired
	}
	if input.Points.Win < 0 || input.Points.Draw < 0 || input.Points.Lose < 0 {
		return nil, ErrInvalidMatchPoints
	}
	members := trimMembers(input.Members)

	if err := competition.ValidateDistribution(input.Distribution, len(members)); err != nil {
		return nil, err
	}

	matches, rounds, err := s.scheduler.GenerateRounds(ctx, members, input.DoubleRoundRobin)
	if err != nil {
		return nil, err
	}

	l := &models.League{
		Competition: models.Competition{
			Kind:         models.KindLeague,
			Name:         name,
			Description:  trimmedOrNil(input.Description),
			CategoryID:   input.CategoryID,
			Status:       models.StatusActive,
			Members:      members,
			Distribution: input.Distribution,
		},
		Points:           input.Points,
		DoubleRoundRobin: input.DoubleRoundRobin,
		Rounds:           rounds,
		Matches:          matches,
		Adjustments:      []models.PointAdjustment{},
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.leagueRepo.Create(ctx, exec, l)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNameConflict) {
			return nil, ErrCompetitionNameConflict
		}
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	s.logger.Info("league created",
		slog.Int("league_id", l.ID),
		slog.String("generator", s.scheduler.GetName()),
		slog.Int("members", len(members)),
		slog.Int("rounds", rounds),
	)
	return l, nil
}

func (s *leagueService) GetLeagueByID(ctx context.Context, id int) (*models.League, error) {
	var (
		l           *models.League
		matches     []models.LeagueMatch
		adjustments []models.PointAdjustment
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		l, err = s.leagueRepo.GetByID(gCtx, nil, id)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.leagueRepo.ListMatches(gCtx, nil, id)
		return err
	})
	g.Go(func() error {
		var err error
		adjustments, err = s.leagueRepo.ListAdjustments(gCtx, nil, id)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	l.Matches = matches
	l.Adjustments = adjustments
	return l, nil
}

func (s *leagueService) Leaderboard(ctx context.Context, id int, uptoRound int) ([]models.MemberPoints, error) {
	l, err := s.GetLeagueByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uptoRound < 0 || uptoRound > l.Rounds {
		return nil, fmt.Errorf("%w: %d", ErrRoundNotFound, uptoRound)
	}
	return brackets.Leaderboard(l.Members, l.Matches, l.Adjustments, l.Points, uptoRound), nil
}

// ProcessRoundResults records results of one round. A result may be changed
// while the league is active; ratings are only fed by the first result of a
// match. The league completes when every match has a result.
func (s *leagueService) ProcessRoundResults(ctx context.Context, id int, round int, at models.BlockInfo, results []models.MatchResultInput) (*models.League, error) {
	if len(results) == 0 {
		return nil, ErrEmptyResults
	}

	var (
		l         *models.League
		rated     []models.MemberRating
		standings *models.Standings
	)
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		l, err = s.leagueRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return err
		}
		if l.Status == models.StatusCompleted {
			return ErrCompetitionCompleted
		}
		if round < 1 || round > l.Rounds {
			return fmt.Errorf("%w: %d", ErrRoundNotFound, round)
		}

		l.Matches, err = s.leagueRepo.ListMatches(ctx, exec, id)
		if err != nil {
			return err
		}
		l.Adjustments, err = s.leagueRepo.ListAdjustments(ctx, exec, id)
		if err != nil {
			return err
		}

		var outcomes []models.MatchOutcome
		for _, res := range results {
			if !res.Result.Valid() {
				return fmt.Errorf("%w: %q", brackets.ErrInvalidResult, res.Result)
			}
			idx := res.MatchNumber - 1
			if idx < 0 || idx >= len(l.Matches) || l.Matches[idx].Number != res.MatchNumber {
				return fmt.Errorf("%w: %d", brackets.ErrMatchNotFound, res.MatchNumber)
			}
			m := &l.Matches[idx]
			if m.Round != round {
				return fmt.Errorf("%w: match %d is in round %d", ErrMatchNotInRound, m.Number, m.Round)
			}

			if m.Result == nil {
				outcomes = append(outcomes, outcome(m.Team1, m.Team2, res.Result))
			}
			result := res.Result
			m.Result = &result
			if err := s.leagueRepo.UpdateMatchResult(ctx, exec, id, m.Number, result); err != nil {
				return err
			}
		}

		if l.CategoryID != nil && len(outcomes) > 0 {
			rated, err = s.ratings.AdjustRatings(ctx, exec, *l.CategoryID, at, outcomes)
			if err != nil {
				return err
			}
		}

		allPlayed := lo.EveryBy(l.Matches, func(m models.LeagueMatch) bool { return m.Result != nil })
		if !allPlayed {
			return nil
		}
		board := brackets.Leaderboard(l.Members, l.Matches, l.Adjustments, l.Points, 0)
		standings, err = s.final.complete(ctx, exec, &l.Competition, brackets.GroupPlacements(board), board)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	s.metrics.MatchResults.WithLabelValues(string(models.KindLeague)).Add(float64(len(results)))
	s.hub.BroadcastToRoom(brackets.CompetitionRoom(id), brackets.EventMatchesUpdated, l.Matches)
	if len(rated) > 0 {
		s.hub.BroadcastToRoom(brackets.RatingsRoom(*l.CategoryID), brackets.EventRatingsUpdated, rated)
	}
	if standings != nil {
		s.final.publish(ctx, standings)
	}

	s.logger.Info("league round processed",
		slog.Int("league_id", id),
		slog.Int("round", round),
		slog.Int("results", len(results)),
		slog.Bool("completed", standings != nil),
	)
	return l, nil
}

func (s *leagueService) AddAdjustment(ctx context.Context, id int, input AdjustmentInput) (*models.PointAdjustment, error) {
	if input.Amount == 0 {
		return nil, ErrZeroAdjustment
	}
	member := strings.TrimSpace(input.Member)

	adjustment := &models.PointAdjustment{
		Member: member,
		Amount: input.Amount,
		Reason: strings.TrimSpace(input.Reason),
	}
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		l, err := s.leagueRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return err
		}
		if l.Status == models.StatusCompleted {
			return ErrCompetitionCompleted
		}
		if !lo.Contains(l.Members, member) {
			return fmt.Errorf("%w: %q", ErrMemberNotInLeague, member)
		}
		return s.leagueRepo.AddAdjustment(ctx, exec, id, adjustment)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	s.hub.BroadcastToRoom(brackets.CompetitionRoom(id), brackets.EventPointsAdjusted, adjustment)
	s.logger.Info("point adjustment added",
		slog.Int("league_id", id),
		slog.String("member", member),
		slog.Int64("amount", input.Amount),
	)
	return adjustment, nil
}

func (s *leagueService) GetStandings(ctx context.Context, id int) (*StandingsView, error) {
	if _, err := s.leagueRepo.GetByID(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return s.final.get(ctx, id)
}
