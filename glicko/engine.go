package glicko

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

var (
	ErrInvalidRating = errors.New("glicko: rating phi and sigma must be positive")
	ErrInvalidScore  = errors.New("glicko: scores must each be 0, 0.5 or 1 and sum to 1")
)

var validScores = []decimal.Decimal{decimal.Zero, decimal.RequireFromString("0.5"), fixed.One}

type Config struct {
	Period  models.Duration
	Default models.Rating
}

// Engine applies match results with a fixed rating period and default rating.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	period models.Duration
	def    models.Rating
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := ValidatePeriod(cfg.Period); err != nil {
		return nil, err
	}
	if err := ValidateRating(cfg.Default); err != nil {
		return nil, fmt.Errorf("default rating: %w", err)
	}
	def := cfg.Default
	def.LastBlock = nil
	return &Engine{period: cfg.Period, def: def}, nil
}

func (e *Engine) DefaultRating() models.Rating {
	return e.def
}

func (e *Engine) Period() models.Duration {
	return e.period
}

func ValidateRating(r models.Rating) error {
	if r.Phi.IsZero() || r.Sigma.IsZero() {
		return fmt.Errorf("%w: phi=%s sigma=%s", ErrInvalidRating, r.Phi, r.Sigma)
	}
	return nil
}

func ValidateScores(score1, score2 decimal.Decimal) error {
	if !isValidScore(score1) || !isValidScore(score2) || !score1.Add(score2).Equal(fixed.One) {
		return fmt.Errorf("%w: got %s and %s", ErrInvalidScore, score1, score2)
	}
	return nil
}

func isValidScore(s decimal.Decimal) bool {
	for _, v := range validScores {
		if s.Equal(v) {
			return true
		}
	}
	return false
}

// ApplyMatchResult rates one match played at block at. Inputs are not
// modified; both results carry LastBlock = at.
func (e *Engine) ApplyMatchResult(at models.BlockInfo, r1, r2 models.Rating, score1, score2 decimal.Decimal) (models.Rating, models.Rating, error) {
	if err := ValidateRating(r1); err != nil {
		return models.Rating{}, models.Rating{}, err
	}
	if err := ValidateRating(r2); err != nil {
		return models.Rating{}, models.Rating{}, err
	}
	if err := ValidateScores(score1, score2); err != nil {
		return models.Rating{}, models.Rating{}, err
	}

	t1, err := e.idlePeriods(at, r1)
	if err != nil {
		return models.Rating{}, models.Rating{}, err
	}
	t2, err := e.idlePeriods(at, r2)
	if err != nil {
		return models.Rating{}, models.Rating{}, err
	}

	n1, n2 := UpdateInternal(FromRating(r1), FromRating(r2), score1, score2, t1, t2)
	n1.LastBlock = copyBlock(&at)
	n2.LastBlock = copyBlock(&at)

	out1, err := ToRating(n1)
	if err != nil {
		return models.Rating{}, models.Rating{}, err
	}
	out2, err := ToRating(n2)
	if err != nil {
		return models.Rating{}, models.Rating{}, err
	}
	return out1, out2, nil
}

// idlePeriods counts the whole periods r sat idle before at. Never-rated
// members have none.
func (e *Engine) idlePeriods(at models.BlockInfo, r models.Rating) (uint64, error) {
	if r.LastBlock == nil {
		return 0, nil
	}
	return ElapsedPeriods(at, *r.LastBlock, e.period)
}
