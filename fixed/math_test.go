package fixed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func near(t *testing.T, want string, got decimal.Decimal, tolerance string) {
	t.Helper()
	diff := got.Sub(decimal.RequireFromString(want)).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString(tolerance)),
		"got %s, want %s (tolerance %s)", got, want, tolerance)
}

func TestMulQuoRoundHalfAwayFromZero(t *testing.T) {
	tiny := decimal.New(5, -Scale-1)

	assert.True(t, Mul(tiny, One).Equal(decimal.New(1, -Scale)))
	assert.True(t, Mul(tiny.Neg(), One).Equal(decimal.New(-1, -Scale)))
	assert.True(t, Quo(One, decimal.NewFromInt(3)).Equal(decimal.RequireFromString("0.333333333333333333333333333333")))
	assert.True(t, Quo(Two, decimal.NewFromInt(3)).Equal(decimal.RequireFromString("0.666666666666666666666666666667")))
	assert.True(t, Quo(Two.Neg(), decimal.NewFromInt(3)).Equal(decimal.RequireFromString("-0.666666666666666666666666666667")))
}

func TestSqrt(t *testing.T) {
	assert.True(t, Sqrt(decimal.NewFromInt(4)).Equal(Two))
	assert.True(t, Sqrt(decimal.Zero).IsZero())
	assert.True(t, Sqrt(Two).Equal(decimal.RequireFromString("1.414213562373095048801688724209")))
	assert.True(t, Sqrt(decimal.NewFromInt(122500)).Equal(decimal.NewFromInt(350)))

	require.Panics(t, func() { Sqrt(decimal.NewFromInt(-1)) })
}

func TestExp(t *testing.T) {
	assert.True(t, Exp(decimal.Zero).Equal(One))
	assert.True(t, Exp(One).Equal(E.Round(Scale)))

	near(t, "0.367879441171442321595523770161", Exp(One.Neg()), "1e-28")
	near(t, "1.648721270700128146848650787814", Exp(half), "1e-28")
	near(t, "0.597142201790066782134590027242", Exp(decimal.RequireFromString("-0.5156")), "1e-28")
	near(t, "22026.465794806716516957900645284", Exp(decimal.NewFromInt(10)), "1e-24")
}

func TestLn(t *testing.T) {
	assert.True(t, Ln(One).IsZero())

	near(t, "1", Ln(E), "1e-28")
	near(t, "0.693147180559945309417232121458", Ln(Two), "1e-28")
	near(t, "-2.813410716760036", Ln(decimal.RequireFromString("0.06")), "1e-15")
	near(t, "5.857933154483459364", Ln(decimal.NewFromInt(350)), "1e-15")

	require.Panics(t, func() { Ln(decimal.Zero) })
}

func TestExpLnInverse(t *testing.T) {
	for _, s := range []string{"0.06", "0.244782", "3.5", "1507.72542"} {
		x := decimal.RequireFromString(s)
		near(t, s, Exp(Ln(x)), "1e-24")
	}
}
