package brackets

import (
	"context"

	"github.com/Dosada05/arena/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket lays out the winners bracket, then the losers bracket, then
// the grand final. Losers bracket rounds alternate between a drop-in round,
// where winners bracket losers enter, and a consolidation round. Drop-ins from
// every second winners round are reversed so that rematches come as late as
// possible. The reset match is not generated here; Bracket.Process adds it
// when the losers bracket side wins the grand final.
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateMembers(params.Members); err != nil {
		return nil, err
	}

	b := &builder{}
	feeds := seededFeeds(params.Members)

	var dropped [][]feed
	round := 1
	for ; len(feeds) > 1; round++ {
		var losers []feed
		feeds, losers = b.playRound(models.StageWinners, round, feeds)
		dropped = append(dropped, losers)
	}
	champion := feeds[0]

	var challenger feed
	if len(dropped) == 1 {
		challenger = dropped[0][0]
	} else {
		lbRound := 1
		lb, _ := b.playRound(models.StageLosers, lbRound, dropped[0])

		for r := 1; r < len(dropped); r++ {
			drops := dropped[r]
			if r%2 == 1 {
				drops = reversed(drops)
			}

			lbRound++
			next := make([]feed, len(lb))
			for i := range lb {
				next[i], _ = b.play(models.StageLosers, lbRound, lb[i], drops[i])
			}
			lb = next

			if len(lb) > 1 {
				lbRound++
				lb, _ = b.playRound(models.StageLosers, lbRound, lb)
			}
		}
		challenger = lb[0]
	}

	b.play(models.StageGrandFinal, round, champion, challenger)
	return b.matches, nil
}

func reversed(feeds []feed) []feed {
	out := make([]feed, len(feeds))
	for i, f := range feeds {
		out[len(feeds)-1-i] = f
	}
	return out
}
