// Package competition splits a prize distribution over final placements.
package competition

import (
	"errors"
	"fmt"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

var (
	ErrDistributionSum     = errors.New("competition: distribution must sum to 1")
	ErrDistributionTooLong = errors.New("competition: distribution has more placements than members")
	ErrNoPlacements        = errors.New("competition: no placements to distribute over")
)

var one = fixed.MustFromString("1")

// ValidateDistribution checks a distribution against the number of members
// that can be ranked. An empty distribution is valid and pays nobody.
func ValidateDistribution(distribution []fixed.Decimal, members int) error {
	if len(distribution) == 0 {
		return nil
	}
	if len(distribution) > members {
		return fmt.Errorf("%w: %d > %d", ErrDistributionTooLong, len(distribution), members)
	}
	return checkSum(distribution)
}

func checkSum(distribution []fixed.Decimal) error {
	sum, err := fixed.Sum(distribution...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDistributionSum, err)
	}
	if !sum.Equal(one) {
		return fmt.Errorf("%w: got %s", ErrDistributionSum, sum)
	}
	return nil
}

// SplitDistribution assigns shares to members by placement. Placements are
// taken while fewer members than distribution entries have been placed, so a
// tie can fill several entries. Shares of entries no placement reached are
// spread evenly over the placements taken; members tied on a placement split
// its share evenly; rounding dust goes to the first member.
func SplitDistribution(distribution []fixed.Decimal, placements []models.Placement) ([]models.MemberShare, error) {
	if len(distribution) == 0 {
		return nil, nil
	}
	if len(placements) == 0 || len(placements[0].Members) == 0 {
		return nil, ErrNoPlacements
	}
	if err := checkSum(distribution); err != nil {
		return nil, err
	}

	var taken []models.Placement
	placed := 0
	for _, p := range placements {
		if len(taken) > 0 && placed >= len(distribution) {
			break
		}
		taken = append(taken, p)
		placed += len(p.Members)
	}

	rest, err := fixed.Sum(distribution[len(taken):]...)
	if err != nil {
		return nil, err
	}
	extra := rest.QuoUint(uint64(len(taken)))

	var shares []models.MemberShare
	remainder := one
	for i, p := range taken {
		share := distribution[i].Add(extra).QuoUint(uint64(len(p.Members)))
		for _, member := range p.Members {
			var err error
			if remainder, err = remainder.Sub(share); err != nil {
				return nil, fmt.Errorf("split distribution: %w", err)
			}
			shares = append(shares, models.MemberShare{Member: member, Share: share})
		}
	}

	if !remainder.IsZero() {
		shares[0].Share = shares[0].Share.Add(remainder)
	}
	return shares, nil
}
