package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/arena/brackets"
	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/glicko"
	"github.com/Dosada05/arena/logging"
	"github.com/Dosada05/arena/metrics"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
)

type RatingService interface {
	// ApplyMatchResult rates one match and stores both new ratings atomically.
	ApplyMatchResult(ctx context.Context, categoryID int, at models.BlockInfo, match models.MatchOutcome) (*models.MemberRating, *models.MemberRating, error)
	// AdjustRatings rates matches in order inside the caller's transaction.
	// Members without a rating start from the default.
	AdjustRatings(ctx context.Context, exec repositories.SQLExecutor, categoryID int, at models.BlockInfo, matches []models.MatchOutcome) ([]models.MemberRating, error)
	GetRating(ctx context.Context, categoryID int, member string) (*models.MemberRating, error)
	ListRatings(ctx context.Context, categoryID int, limit, offset int) ([]models.MemberRating, error)
	DefaultRating() models.Rating
}

type ratingService struct {
	tx         repositories.TxRunner
	ratingRepo repositories.RatingRepository
	engine     *glicko.Engine
	hub        EventBroadcaster
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewRatingService(
	tx repositories.TxRunner,
	ratingRepo repositories.RatingRepository,
	engine *glicko.Engine,
	hub EventBroadcaster,
	m *metrics.Metrics,
	logger *slog.Logger,
) RatingService {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	if m == nil {
		m = metrics.NewNop()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ratingService{
		tx:         tx,
		ratingRepo: ratingRepo,
		engine:     engine,
		hub:        hub,
		metrics:    m,
		logger:     logger,
	}
}

func (s *ratingService) DefaultRating() models.Rating {
	return s.engine.DefaultRating()
}

func (s *ratingService) ApplyMatchResult(ctx context.Context, categoryID int, at models.BlockInfo, match models.MatchOutcome) (*models.MemberRating, *models.MemberRating, error) {
	var updated []models.MemberRating
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		updated, err = s.AdjustRatings(ctx, exec, categoryID, at, []models.MatchOutcome{match})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.hub.BroadcastToRoom(brackets.RatingsRoom(categoryID), brackets.EventRatingsUpdated, updated)
	return &updated[0], &updated[1], nil
}

func (s *ratingService) AdjustRatings(ctx context.Context, exec repositories.SQLExecutor, categoryID int, at models.BlockInfo, matches []models.MatchOutcome) ([]models.MemberRating, error) {
	updated := make([]models.MemberRating, 0, 2*len(matches))
	for _, match := range matches {
		if match.Member1 == match.Member2 {
			return nil, fmt.Errorf("%w: %q", ErrSameMember, match.Member1)
		}

		r1, r2, err := s.lockPair(ctx, exec, categoryID, match.Member1, match.Member2)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		n1, n2, err := s.engine.ApplyMatchResult(at, r1.Rating, r2.Rating, fixed.ToInternal(match.Score1), fixed.ToInternal(match.Score2))
		if err != nil {
			return nil, fmt.Errorf("rate %q vs %q: %w", match.Member1, match.Member2, err)
		}
		s.metrics.RatingDuration.Observe(time.Since(start).Seconds())

		r1.Rating, r2.Rating = n1, n2
		for _, mr := range []*models.MemberRating{r1, r2} {
			if err := s.ratingRepo.Upsert(ctx, exec, mr); err != nil {
				return nil, err
			}
			updated = append(updated, *mr)
		}
		s.metrics.RatingUpdates.Inc()

		s.logger.Debug("match rated",
			slog.Int("category_id", categoryID),
			slog.String("member_1", match.Member1),
			slog.String("member_2", match.Member2),
			slog.String("value_1", n1.Value.String()),
			slog.String("value_2", n2.Value.String()),
		)
	}
	return updated, nil
}

// lockPair loads both ratings, locking rows in member order so concurrent
// matches between the same members cannot deadlock.
func (s *ratingService) lockPair(ctx context.Context, exec repositories.SQLExecutor, categoryID int, member1, member2 string) (*models.MemberRating, *models.MemberRating, error) {
	first, second := member1, member2
	if second < first {
		first, second = second, first
	}

	a, err := s.loadOrDefault(ctx, exec, categoryID, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.loadOrDefault(ctx, exec, categoryID, second)
	if err != nil {
		return nil, nil, err
	}

	if first == member1 {
		return a, b, nil
	}
	return b, a, nil
}

// loadOrDefault makes sure the member has a row before locking it, so a
// member rated for the first time is serialized like any other.
func (s *ratingService) loadOrDefault(ctx context.Context, exec repositories.SQLExecutor, categoryID int, member string) (*models.MemberRating, error) {
	fresh := &models.MemberRating{CategoryID: categoryID, Member: member, Rating: s.engine.DefaultRating()}
	if err := s.ratingRepo.Ensure(ctx, exec, fresh); err != nil {
		s.logger.Error("failed to insert default rating", slog.Int("category_id", categoryID), slog.String("member", member), logging.Err(err))
		return nil, err
	}

	mr, err := s.ratingRepo.GetForUpdate(ctx, exec, categoryID, member)
	if err != nil {
		s.logger.Error("failed to load rating", slog.Int("category_id", categoryID), slog.String("member", member), logging.Err(err))
		return nil, err
	}
	return mr, nil
}

func (s *ratingService) GetRating(ctx context.Context, categoryID int, member string) (*models.MemberRating, error) {
	mr, err := s.ratingRepo.Get(ctx, categoryID, member)
	if err != nil {
		if errors.Is(err, repositories.ErrRatingNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return mr, nil
}

func (s *ratingService) ListRatings(ctx context.Context, categoryID int, limit, offset int) ([]models.MemberRating, error) {
	if limit < 0 || offset < 0 {
		return nil, ErrInvalidRatingWindow
	}
	return s.ratingRepo.ListByCategory(ctx, categoryID, limit, offset)
}
