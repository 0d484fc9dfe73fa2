package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/arena/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() *RoundRobinGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateRounds schedules a league with the circle method. Every member meets
// every other member once per leg and plays at most once per round; with an odd
// count one member sits out each round. The second leg repeats the first with
// sides swapped. Match numbers run across all rounds starting from 1.
func (g *RoundRobinGenerator) GenerateRounds(ctx context.Context, members []string, doubleRoundRobin bool) ([]models.LeagueMatch, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if err := validateMembers(members); err != nil {
		return nil, 0, err
	}

	// 1-based member positions; 0 is the dummy that gives odd counts a rest.
	slots := make([]int, 0, len(members)+1)
	for i := range members {
		slots = append(slots, i+1)
	}
	if len(slots)%2 != 0 {
		slots = append(slots, 0)
	}

	half := len(slots) / 2
	x := append([]int(nil), slots[:half]...)
	y := append([]int(nil), slots[half:]...)
	rounds := len(slots) - 1

	matches := make([]models.LeagueMatch, 0, rounds*half)
	for round := 1; round <= rounds; round++ {
		if round > 1 {
			first := y[0]
			y = y[1:]
			x = append(x[:1], append([]int{first}, x[1:]...)...)
			y = append(y, x[len(x)-1])
			x = x[:len(x)-1]
		}
		for j := range x {
			if x[j] == 0 || y[j] == 0 {
				continue
			}
			matches = append(matches, models.LeagueMatch{
				Round:  round,
				Number: len(matches) + 1,
				Team1:  members[x[j]-1],
				Team2:  members[y[j]-1],
			})
		}
	}

	if doubleRoundRobin {
		firstLeg := len(matches)
		for i := 0; i < firstLeg; i++ {
			m := matches[i]
			matches = append(matches, models.LeagueMatch{
				Round:  m.Round + rounds,
				Number: len(matches) + 1,
				Team1:  m.Team2,
				Team2:  m.Team1,
			})
		}
		rounds *= 2
	}

	if len(matches) == 0 {
		return nil, 0, fmt.Errorf("%w: no matches scheduled", ErrNotEnoughMembers)
	}
	return matches, rounds, nil
}
