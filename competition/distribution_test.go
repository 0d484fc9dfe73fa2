package competition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

func dist(values ...string) []fixed.Decimal {
	out := make([]fixed.Decimal, len(values))
	for i, v := range values {
		out[i] = fixed.MustFromString(v)
	}
	return out
}

func places(groups ...[]string) []models.Placement {
	out := make([]models.Placement, len(groups))
	for i, g := range groups {
		out[i] = models.Placement{Place: i + 1, Members: g}
	}
	return out
}

func sharesOf(shares []models.MemberShare) map[string]string {
	out := make(map[string]string, len(shares))
	for _, s := range shares {
		out[s.Member] = s.Share.String()
	}
	return out
}

func TestSplitDistribution(t *testing.T) {
	testCases := []struct {
		name       string
		dist       []fixed.Decimal
		placements []models.Placement
		want       map[string]string
	}{
		{
			name:       "one member per placement",
			dist:       dist("0.7", "0.3"),
			placements: places([]string{"a"}, []string{"b"}, []string{"c"}),
			want:       map[string]string{"a": "0.7", "b": "0.3"},
		},
		{
			name:       "tie on first place",
			dist:       dist("0.5", "0.3", "0.2"),
			placements: places([]string{"a", "b"}, []string{"c"}, []string{"d"}),
			want:       map[string]string{"a": "0.3", "b": "0.3", "c": "0.4"},
		},
		{
			name:       "fewer placements than entries",
			dist:       dist("0.5", "0.3", "0.2"),
			placements: places([]string{"a"}, []string{"b"}),
			want:       map[string]string{"a": "0.6", "b": "0.4"},
		},
		{
			name:       "three way tie keeps the dust on first",
			dist:       dist("0.6", "0.4"),
			placements: places([]string{"a", "b", "c"}, []string{"d"}),
			want: map[string]string{
				"a": "0.333333333333333334",
				"b": "0.333333333333333333",
				"c": "0.333333333333333333",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			shares, err := SplitDistribution(tc.dist, tc.placements)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sharesOf(shares))

			total := fixed.Decimal{}
			for _, s := range shares {
				total = total.Add(s.Share)
			}
			assert.Equal(t, "1", total.String())
		})
	}
}

func TestSplitDistributionErrors(t *testing.T) {
	shares, err := SplitDistribution(nil, places([]string{"a"}))
	require.NoError(t, err)
	assert.Nil(t, shares)

	_, err = SplitDistribution(dist("0.5", "0.4"), places([]string{"a"}, []string{"b"}))
	require.ErrorIs(t, err, ErrDistributionSum)

	_, err = SplitDistribution(dist("1"), nil)
	require.ErrorIs(t, err, ErrNoPlacements)
}

func TestValidateDistribution(t *testing.T) {
	require.NoError(t, ValidateDistribution(nil, 0))
	require.NoError(t, ValidateDistribution(dist("0.5", "0.25", "0.25"), 3))

	require.ErrorIs(t, ValidateDistribution(dist("0.5", "0.25", "0.25"), 2), ErrDistributionTooLong)
	require.ErrorIs(t, ValidateDistribution(dist("0.5", "0.6"), 4), ErrDistributionSum)
}

func TestValidateDistributionOverflow(t *testing.T) {
	huge := dist("300000000000000000000", "300000000000000000000")

	err := ValidateDistribution(huge, 2)
	require.ErrorIs(t, err, ErrDistributionSum)
	require.ErrorIs(t, err, fixed.ErrOverflow)

	_, err = SplitDistribution(huge, places([]string{"a"}, []string{"b"}))
	require.ErrorIs(t, err, fixed.ErrOverflow)
}

func TestDecimalArithmetic(t *testing.T) {
	a := fixed.MustFromString("0.25")
	b := fixed.MustFromString("0.5")

	assert.Equal(t, "0.75", a.Add(b).String())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "0.25", diff.String())

	_, err = a.Sub(b)
	require.ErrorIs(t, err, fixed.ErrNegative)

	assert.Equal(t, "0.333333333333333333", fixed.MustFromString("1").QuoUint(3).String())
	total, err := fixed.Sum(a, a, b)
	require.NoError(t, err)
	assert.Equal(t, "1", total.String())
}
