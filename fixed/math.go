package fixed

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept by every product and quotient
// of the rating math. Sums and differences are exact.
const Scale int32 = 30

var (
	One  = decimal.NewFromInt(1)
	Two  = decimal.NewFromInt(2)
	half = decimal.RequireFromString("0.5")

	E         = decimal.RequireFromString("2.718281828459045235360287471352662497757247093699959574966967627724")
	Ln2       = decimal.RequireFromString("0.693147180559945309417232121458176568075500134360255254120680009493")
	PiSquared = decimal.RequireFromString("9.869604401089358618834490999876151135313699407240790626413349376220")
)

// Mul multiplies and rounds half away from zero to Scale digits.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(Scale)
}

// Quo divides and rounds half away from zero to Scale digits. b must not be zero.
func Quo(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, Scale)
}

// Sqrt returns the square root truncated to Scale digits.
func Sqrt(x decimal.Decimal) decimal.Decimal {
	if x.Sign() < 0 {
		panic("fixed: square root of a negative number")
	}
	n := x.Shift(2 * Scale).BigInt()
	return decimal.NewFromBigInt(new(big.Int).Sqrt(n), -Scale)
}

// Exp evaluates e^x as e^n * e^f, where n is the integer part of x and the
// fractional part f is expanded as a Taylor series until a term rounds to zero.
func Exp(x decimal.Decimal) decimal.Decimal {
	n := x.IntPart()
	f := x.Sub(decimal.NewFromInt(n))

	sum, term := One, One
	for i := int64(1); ; i++ {
		term = Quo(Mul(term, f), decimal.NewFromInt(i))
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
	}

	if n >= 0 {
		return Mul(sum, powInt(E, n))
	}
	return Quo(sum, powInt(E, -n))
}

// Ln returns the natural logarithm of a positive x. The argument is reduced
// to [0.5, 1] by powers of two and the rest is the atanh series
// ln(m) = 2 * sum z^(2i+1)/(2i+1) with z = (m-1)/(m+1).
func Ln(x decimal.Decimal) decimal.Decimal {
	if x.Sign() <= 0 {
		panic("fixed: logarithm of a non-positive number")
	}

	k := int64(0)
	for x.GreaterThan(One) {
		x = Quo(x, Two)
		k++
	}
	for x.LessThan(half) {
		x = Mul(x, Two)
		k--
	}

	z := Quo(x.Sub(One), x.Add(One))
	z2 := Mul(z, z)
	sum, term := decimal.Zero, z
	for i := int64(1); ; i += 2 {
		t := Quo(term, decimal.NewFromInt(i))
		if t.IsZero() {
			break
		}
		sum = sum.Add(t)
		term = Mul(term, z2)
	}

	return Mul(Two, sum).Add(Mul(decimal.NewFromInt(k), Ln2))
}

func powInt(b decimal.Decimal, n int64) decimal.Decimal {
	res := One
	for n > 0 {
		if n&1 == 1 {
			res = Mul(res, b)
		}
		b = Mul(b, b)
		n >>= 1
	}
	return res
}
