package glicko

import (
	"github.com/shopspring/decimal"

	"github.com/Dosada05/arena/fixed"
)

const MaxIterations = 100

var (
	BaseRating    = decimal.NewFromInt(1500)
	ScalingFactor = decimal.RequireFromString("173.7178")
	Tau           = decimal.NewFromInt(1)
	Epsilon       = decimal.RequireFromString("0.000001")

	three = decimal.NewFromInt(3)
)

// ReduceImpact is the g-function: 1 / (1 + sqrt(3·phi²/π²)).
func ReduceImpact(phi decimal.Decimal) decimal.Decimal {
	q := fixed.Quo(fixed.Mul(three, fixed.Mul(phi, phi)), fixed.PiSquared)
	return fixed.Quo(fixed.One, fixed.One.Add(fixed.Sqrt(q)))
}

// ExpectScore is the expected score against an opponent rated otherMu whose
// deviation reduces to impact.
func ExpectScore(mu, otherMu, impact decimal.Decimal) decimal.Decimal {
	return fixed.Quo(fixed.One, fixed.One.Add(fixed.Exp(fixed.Mul(otherMu.Sub(mu), impact))))
}

// NewSigma finds the new volatility with the Illinois variant of regula falsi.
// Both the bracketing search and the main loop stop after MaxIterations; the
// best estimate so far is returned in that case.
func NewSigma(sigma, phi, variance, delta decimal.Decimal) decimal.Decimal {
	return newSigma(sigma, phi, variance, delta, MaxIterations)
}

func newSigma(sigma, phi, variance, delta decimal.Decimal, maxIterations int) decimal.Decimal {
	alpha := fixed.Ln(sigma)
	phi2 := fixed.Mul(phi, phi)
	delta2 := fixed.Mul(delta, delta)
	tau2 := fixed.Mul(Tau, Tau)

	f := func(x decimal.Decimal) decimal.Decimal {
		ex := fixed.Exp(x)
		tmp := phi2.Add(variance).Add(ex)
		num := fixed.Mul(ex, delta2.Sub(tmp))
		den := fixed.Mul(fixed.Two, fixed.Mul(tmp, tmp))
		return fixed.Quo(num, den).Sub(fixed.Quo(x.Sub(alpha), tau2))
	}

	a := alpha
	var b decimal.Decimal
	if delta2.GreaterThan(phi2.Add(variance)) {
		b = fixed.Ln(delta2.Sub(phi2).Sub(variance))
	} else {
		k := fixed.One
		for i := 0; i < maxIterations && f(alpha.Sub(fixed.Mul(k, Tau))).Sign() < 0; i++ {
			k = k.Add(fixed.One)
		}
		b = a.Sub(fixed.Mul(k, Tau))
	}

	fa, fb := f(a), f(b)
	for i := 0; i < maxIterations && b.Sub(a).Abs().GreaterThan(Epsilon); i++ {
		if fb.Equal(fa) {
			break
		}
		c := a.Add(fixed.Quo(fixed.Mul(a.Sub(b), fa), fb.Sub(fa)))
		fc := f(c)
		if fixed.Mul(fc, fb).Sign() < 0 {
			a, fa = b, fb
		} else {
			fa = fixed.Quo(fa, fixed.Two)
		}
		b, fb = c, fc
	}

	return fixed.Exp(fixed.Quo(a, fixed.Two))
}

// UpdateInternal inflates each side for its idle periods (only sides rated
// before) and then rates the match.
func UpdateInternal(r1, r2 RatingInternal, score1, score2 decimal.Decimal, periods1, periods2 uint64) (RatingInternal, RatingInternal) {
	if r1.LastBlock != nil {
		r1.Phi = InflatePhi(r1.Phi, r1.Sigma, periods1)
	}
	if r2.LastBlock != nil {
		r2.Phi = InflatePhi(r2.Phi, r2.Sigma, periods2)
	}
	return Update(r1, r2, score1, score2)
}

// Update rates both sides of one match from the same pre-match snapshot.
// Deviations must already be inflated for idle periods.
func Update(r1, r2 RatingInternal, score1, score2 decimal.Decimal) (RatingInternal, RatingInternal) {
	return updateSide(r1, r2, score1), updateSide(r2, r1, score2)
}

func updateSide(r, other RatingInternal, score decimal.Decimal) RatingInternal {
	mu := fixed.Quo(r.Value.Sub(BaseRating), ScalingFactor)
	phi := fixed.Quo(r.Phi, ScalingFactor)
	otherMu := fixed.Quo(other.Value.Sub(BaseRating), ScalingFactor)
	otherPhi := fixed.Quo(other.Phi, ScalingFactor)

	impact := ReduceImpact(otherPhi)
	expected := ExpectScore(mu, otherMu, impact)
	invVariance := fixed.Mul(fixed.Mul(fixed.Mul(impact, impact), expected), fixed.One.Sub(expected))
	if invVariance.IsZero() {
		// the outcome was certain at this precision and carries no information
		return r
	}
	diff := fixed.Mul(impact, score.Sub(expected))
	variance := fixed.Quo(fixed.One, invVariance)

	sigma := NewSigma(r.Sigma, phi, variance, diff)

	phiStar := fixed.Sqrt(fixed.Mul(phi, phi).Add(fixed.Mul(sigma, sigma)))
	newPhi := fixed.Quo(fixed.One, fixed.Sqrt(fixed.Quo(fixed.Quo(fixed.One, phiStar), phiStar).Add(fixed.Quo(fixed.One, variance))))
	newMu := mu.Add(fixed.Mul(fixed.Mul(newPhi, newPhi), fixed.Quo(diff, variance)))

	return RatingInternal{
		Value:     fixed.Mul(newMu, ScalingFactor).Add(BaseRating),
		Phi:       fixed.Mul(newPhi, ScalingFactor),
		Sigma:     sigma,
		LastBlock: r.LastBlock,
	}
}
