// Package fixed holds the two decimal representations used by the rating
// engine: the bounded, non-negative Decimal that is persisted and exchanged,
// and the arbitrary-precision signed shopspring decimal used for arithmetic.
package fixed

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// FractionalDigits is the scale of a persisted Decimal.
const FractionalDigits = 18

var (
	ErrNegative  = errors.New("fixed: decimal must not be negative")
	ErrOverflow  = errors.New("fixed: decimal does not fit in 128 bits")
	ErrPrecision = errors.New("fixed: decimal has more than 18 fractional digits")
	ErrZeroRatio = errors.New("fixed: ratio denominator is zero")
)

var maxAtomics = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Decimal is a non-negative fixed-point number with 18 fractional digits whose
// atomic units fit in an unsigned 128-bit integer. The zero value is 0.
type Decimal struct {
	v decimal.Decimal
}

// New validates v against the bounds of Decimal.
func New(v decimal.Decimal) (Decimal, error) {
	if v.Sign() < 0 {
		return Decimal{}, fmt.Errorf("%w: %s", ErrNegative, v.String())
	}
	if v.Exponent() < -FractionalDigits && !v.Equal(v.Truncate(FractionalDigits)) {
		return Decimal{}, fmt.Errorf("%w: %s", ErrPrecision, v.String())
	}
	if v.Shift(FractionalDigits).BigInt().Cmp(maxAtomics) > 0 {
		return Decimal{}, fmt.Errorf("%w: %s", ErrOverflow, v.String())
	}
	return Decimal{v: v}, nil
}

func MustNew(v decimal.Decimal) Decimal {
	d, err := New(v)
	if err != nil {
		panic(err)
	}
	return d
}

// FromString parses a plain decimal string such as "1500" or "0.06".
func FromString(s string) (Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("fixed: parse %q: %w", s, err)
	}
	return New(v)
}

func MustFromString(s string) Decimal {
	d, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromRatio returns numerator/denominator rounded down to 18 fractional digits.
func FromRatio(numerator, denominator uint64) (Decimal, error) {
	if denominator == 0 {
		return Decimal{}, ErrZeroRatio
	}
	num := new(big.Int).SetUint64(numerator)
	num.Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(FractionalDigits), nil))
	num.Quo(num, new(big.Int).SetUint64(denominator))
	return New(decimal.NewFromBigInt(num, -FractionalDigits))
}

func MustFromRatio(numerator, denominator uint64) Decimal {
	d, err := FromRatio(numerator, denominator)
	if err != nil {
		panic(err)
	}
	return d
}

// Atomics returns the value in units of 10^-18.
func (d Decimal) Atomics() *big.Int {
	return d.v.Shift(FractionalDigits).BigInt()
}

func (d Decimal) IsZero() bool { return d.v.IsZero() }

func (d Decimal) Equal(o Decimal) bool { return d.v.Equal(o.v) }

func (d Decimal) Cmp(o Decimal) int { return d.v.Cmp(o.v) }

func (d Decimal) String() string { return d.v.String() }

// Add panics when the sum does not fit in 128 bits. Use CheckedAdd for
// values that come from callers.
func (d Decimal) Add(o Decimal) Decimal {
	return MustNew(d.v.Add(o.v))
}

func (d Decimal) CheckedAdd(o Decimal) (Decimal, error) {
	return New(d.v.Add(o.v))
}

func (d Decimal) Sub(o Decimal) (Decimal, error) {
	return New(d.v.Sub(o.v))
}

// QuoUint divides by n, rounding down to 18 fractional digits.
func (d Decimal) QuoUint(n uint64) Decimal {
	q := new(big.Int).Quo(d.Atomics(), new(big.Int).SetUint64(n))
	return Decimal{v: decimal.NewFromBigInt(q, -FractionalDigits)}
}

// Sum adds values and fails with ErrOverflow once the total leaves 128 bits.
func Sum(values ...Decimal) (Decimal, error) {
	var total Decimal
	for _, v := range values {
		next, err := total.CheckedAdd(v)
		if err != nil {
			return Decimal{}, err
		}
		total = next
	}
	return total, nil
}

// MarshalJSON encodes the value as a JSON string to keep every digit.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.v.String())
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("fixed: decimal must be a JSON string: %w", err)
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the decimal as text so NUMERIC columns keep full precision.
func (d Decimal) Value() (driver.Value, error) {
	return d.v.String(), nil
}

func (d *Decimal) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		s = fmt.Sprintf("%d", v)
	case nil:
		return errors.New("fixed: cannot scan NULL into Decimal")
	default:
		return fmt.Errorf("fixed: cannot scan %T into Decimal", src)
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
