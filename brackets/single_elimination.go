package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/arena/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket lays out a knockout bracket. Fields are padded to the next
// power of two and the top seeds receive the byes. With ThirdPlace the
// semifinal losers meet in a match numbered just before the final.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateMembers(params.Members); err != nil {
		return nil, err
	}
	if params.ThirdPlace && len(params.Members) < 4 {
		return nil, fmt.Errorf("%w: got %d", ErrThirdPlaceTooSmall, len(params.Members))
	}

	b := &builder{}
	feeds := seededFeeds(params.Members)
	var previousLosers []feed

	for round := 1; len(feeds) > 1; round++ {
		if len(feeds) == 2 && params.ThirdPlace {
			b.play(models.StageThirdPlace, round, previousLosers[0], previousLosers[1])
		}
		feeds, previousLosers = b.playRound(models.StageWinners, round, feeds)
	}

	return b.matches, nil
}
