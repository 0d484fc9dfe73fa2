package glicko

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

var (
	ErrInvalidPeriod   = errors.New("glicko: rating period must be a positive height or time duration")
	ErrClockRegression = errors.New("glicko: current block is before the last rating update")
)

func ValidatePeriod(d models.Duration) error {
	if d.Length == 0 {
		return ErrInvalidPeriod
	}
	switch d.Kind {
	case models.DurationHeight, models.DurationTime:
		return nil
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidPeriod, d.Kind)
}

// ElapsedPeriods is the number of whole rating periods between last and now.
func ElapsedPeriods(now, last models.BlockInfo, period models.Duration) (uint64, error) {
	if err := ValidatePeriod(period); err != nil {
		return 0, err
	}

	from, to := last.Height, now.Height
	if period.Kind == models.DurationTime {
		from, to = last.Time, now.Time
	}
	if to < from {
		return 0, fmt.Errorf("%w: %d < %d", ErrClockRegression, to, from)
	}
	return (to - from) / period.Length, nil
}

// InflatePhi grows a deviation for t idle periods: sqrt(phi² + sigma²·t).
// Applying it t times with t = 1 yields the same value up to rounding.
func InflatePhi(phi, sigma decimal.Decimal, periods uint64) decimal.Decimal {
	t := decimal.NewFromBigInt(new(big.Int).SetUint64(periods), 0)
	return fixed.Sqrt(fixed.Mul(phi, phi).Add(fixed.Mul(fixed.Mul(sigma, sigma), t)))
}
