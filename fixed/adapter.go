package fixed

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxPreservedDigits is the number of fractional digits ToBounded keeps.
const MaxPreservedDigits = 9

// ToInternal reinterprets a bounded decimal in the signed arithmetic domain.
// It never loses precision.
func ToInternal(d Decimal) decimal.Decimal {
	return d.v
}

// ToBounded keeps min(scale(x), 9) fractional digits, rounding half away from
// zero, and re-expresses the result as a bounded Decimal. Values that do not
// fit (negative, or wider than 128 bits) are returned as errors, never clamped.
func ToBounded(x decimal.Decimal) (Decimal, error) {
	digits := int32(0)
	if exp := x.Exponent(); exp < 0 {
		digits = -exp
	}
	if digits > MaxPreservedDigits {
		digits = MaxPreservedDigits
	}

	numerator := x.Shift(digits).Round(0)
	if numerator.Sign() < 0 {
		return Decimal{}, fmt.Errorf("%w: %s", ErrNegative, x.String())
	}
	return New(numerator.Shift(-digits))
}
