package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/arena/brackets"
	"github.com/Dosada05/arena/competition"
	"github.com/Dosada05/arena/logging"
	"github.com/Dosada05/arena/metrics"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
	"github.com/Dosada05/arena/storage"
)

// CompletionDeps is what tournament and league services share to finish a
// competition. Nil fields fall back to no-op implementations.
type CompletionDeps struct {
	CompetitionRepo repositories.CompetitionRepository
	StandingRepo    repositories.StandingRepository
	Archiver        storage.StandingsArchiver
	Hub             EventBroadcaster
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
	Now             func() time.Time
}

func (d CompletionDeps) finalizer() *finalizer {
	f := &finalizer{
		competitionRepo: d.CompetitionRepo,
		standingRepo:    d.StandingRepo,
		archiver:        d.Archiver,
		hub:             d.Hub,
		metrics:         d.Metrics,
		logger:          d.Logger,
		now:             d.Now,
	}
	if f.archiver == nil {
		f.archiver = storage.NewNopArchiver()
	}
	if f.hub == nil {
		f.hub = nopBroadcaster{}
	}
	if f.metrics == nil {
		f.metrics = metrics.NewNop()
	}
	if f.logger == nil {
		f.logger = logging.Discard()
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// finalizer completes competitions: it stores the final standings in the
// caller's transaction and, once committed, archives and announces them.
type finalizer struct {
	competitionRepo repositories.CompetitionRepository
	standingRepo    repositories.StandingRepository
	archiver        storage.StandingsArchiver
	hub             EventBroadcaster
	metrics         *metrics.Metrics
	logger          *slog.Logger
	now             func() time.Time
}

func (f *finalizer) complete(
	ctx context.Context,
	exec repositories.SQLExecutor,
	c *models.Competition,
	placements []models.Placement,
	leaderboard []models.MemberPoints,
) (*models.Standings, error) {
	shares, err := competition.SplitDistribution(c.Distribution, placements)
	if err != nil {
		return nil, fmt.Errorf("split distribution of competition %d: %w", c.ID, err)
	}

	now := f.now().UTC()
	if err := f.competitionRepo.Complete(ctx, exec, c.ID, now); err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionCompleted
		}
		return nil, err
	}

	standings := &models.Standings{
		CompetitionID: c.ID,
		Kind:          c.Kind,
		Name:          c.Name,
		Placements:    placements,
		Shares:        shares,
		Leaderboard:   leaderboard,
		FinalizedAt:   now,
	}
	if err := f.standingRepo.Save(ctx, exec, standings); err != nil {
		return nil, err
	}

	c.Status = models.StatusCompleted
	c.CompletedAt = &now
	return standings, nil
}

// publish runs after commit. An archive failure is logged and counted, never
// returned: the standings are already stored.
func (f *finalizer) publish(ctx context.Context, standings *models.Standings) {
	f.metrics.CompetitionsFinished.WithLabelValues(string(standings.Kind)).Inc()

	location, err := f.archiver.Archive(ctx, standings)
	switch {
	case err != nil:
		f.metrics.ArchiveFailures.Inc()
		f.logger.Error("failed to archive standings", slog.Int("competition_id", standings.CompetitionID), logging.Err(err))
	case location != "":
		if err := f.standingRepo.SetArchiveURL(ctx, standings.CompetitionID, location); err != nil {
			f.logger.Error("failed to record archive url", slog.Int("competition_id", standings.CompetitionID), logging.Err(err))
		}
	}

	f.hub.BroadcastToRoom(brackets.CompetitionRoom(standings.CompetitionID), brackets.EventCompetitionCompleted, standings)
	f.logger.Info("competition completed",
		slog.Int("competition_id", standings.CompetitionID),
		slog.String("kind", string(standings.Kind)),
		slog.Int("placements", len(standings.Placements)),
	)
}

type StandingsView struct {
	Standings  *models.Standings `json:"standings"`
	ArchiveURL *string           `json:"archive_url,omitempty"`
}

func (f *finalizer) get(ctx context.Context, competitionID int) (*StandingsView, error) {
	s, url, err := f.standingRepo.Get(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrStandingsNotFound) {
			return nil, ErrStandingsNotReady
		}
		return nil, err
	}
	return &StandingsView{Standings: s, ArchiveURL: url}, nil
}
