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

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	// ProcessResults records match results, feeds the rating category and
	// completes the tournament once every match is resolved.
	ProcessResults(ctx context.Context, id int, at models.BlockInfo, results []models.MatchResultInput) (*models.Tournament, error)
	GetStandings(ctx context.Context, id int) (*StandingsView, error)
}

type CreateTournamentInput struct {
	Name            string                 `json:"name" validate:"required,max=128"`
	Description     *string                `json:"description,omitempty" validate:"omitempty,max=1024"`
	CategoryID      *int                   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Members         []string               `json:"members" validate:"required,min=2,unique,dive,required,max=128"`
	EliminationType models.EliminationType `json:"elimination_type" validate:"required,oneof=single_elimination double_elimination"`
	ThirdPlace      bool                   `json:"third_place"`
	Distribution    []fixed.Decimal        `json:"distribution,omitempty"`
}

type tournamentService struct {
	tx             repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	ratings        RatingService
	final          *finalizer
	hub            EventBroadcaster
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

func NewTournamentService(
	tx repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	ratings RatingService,
	deps CompletionDeps,
) TournamentService {
	f := deps.finalizer()
	return &tournamentService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		ratings:        ratings,
		final:          f,
		hub:            f.hub,
		metrics:        f.metrics,
		logger:         f.logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCompetitionNameRequired
	}
	members := trimMembers(input.Members)

	if err := competition.ValidateDistribution(input.Distribution, len(members)); err != nil {
		return nil, err
	}

	generator, err := brackets.NewGenerator(input.EliminationType)
	if err != nil {
		return nil, err
	}
	matches, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Members:    members,
		ThirdPlace: input.ThirdPlace,
	})
	if err != nil {
		return nil, err
	}

	t := &models.Tournament{
		Competition: models.Competition{
			Kind:         models.KindTournament,
			Name:         name,
			Description:  trimmedOrNil(input.Description),
			CategoryID:   input.CategoryID,
			Status:       models.StatusActive,
			Members:      members,
			Distribution: input.Distribution,
		},
		EliminationType: input.EliminationType,
		ThirdPlace:      input.ThirdPlace,
		Matches:         matches,
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.tournamentRepo.Create(ctx, exec, t)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNameConflict) {
			return nil, ErrCompetitionNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", t.ID),
		slog.String("generator", generator.GetName()),
		slog.Int("members", len(members)),
		slog.Int("matches", len(matches)),
	)
	return t, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	var (
		t       *models.Tournament
		matches []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.tournamentRepo.GetByID(gCtx, nil, id)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.tournamentRepo.ListMatches(gCtx, nil, id)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	t.Matches = matches
	return t, nil
}

func (s *tournamentService) ProcessResults(ctx context.Context, id int, at models.BlockInfo, results []models.MatchResultInput) (*models.Tournament, error) {
	if len(results) == 0 {
		return nil, ErrEmptyResults
	}

	var (
		t         *models.Tournament
		resolved  []models.Match
		rated     []models.MemberRating
		standings *models.Standings
	)
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		t, err = s.tournamentRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return err
		}
		if t.Status == models.StatusCompleted {
			return ErrCompetitionCompleted
		}

		matches, err := s.tournamentRepo.ListMatches(ctx, exec, id)
		if err != nil {
			return err
		}

		bracket := brackets.Bracket{Type: t.EliminationType, Matches: matches}
		resolved, err = bracket.Process(results)
		if err != nil {
			return err
		}
		if err := s.tournamentRepo.SaveMatches(ctx, exec, id, bracket.Matches); err != nil {
			return err
		}
		t.Matches = bracket.Matches

		if t.CategoryID != nil && len(resolved) > 0 {
			outcomes := lo.Map(resolved, func(m models.Match, _ int) models.MatchOutcome {
				return outcome(*m.Team1, *m.Team2, *m.Result)
			})
			rated, err = s.ratings.AdjustRatings(ctx, exec, *t.CategoryID, at, outcomes)
			if err != nil {
				return err
			}
		}

		if !bracket.Completed() {
			return nil
		}
		placements, err := bracket.Placements()
		if err != nil {
			return err
		}
		standings, err = s.final.complete(ctx, exec, &t.Competition, placements, nil)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	s.metrics.MatchResults.WithLabelValues(string(models.KindTournament)).Add(float64(len(resolved)))
	s.hub.BroadcastToRoom(brackets.CompetitionRoom(id), brackets.EventMatchesUpdated, t.Matches)
	if len(rated) > 0 {
		s.hub.BroadcastToRoom(brackets.RatingsRoom(*t.CategoryID), brackets.EventRatingsUpdated, rated)
	}
	if standings != nil {
		s.final.publish(ctx, standings)
	}

	s.logger.Info("tournament results processed",
		slog.Int("tournament_id", id),
		slog.Int("resolved", len(resolved)),
		slog.Bool("completed", standings != nil),
	)
	return t, nil
}

func (s *tournamentService) GetStandings(ctx context.Context, id int) (*StandingsView, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return s.final.get(ctx, id)
}
