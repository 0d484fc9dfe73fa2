package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
)

var (
	ErrNotEnoughMembers   = errors.New("brackets: at least two members are required")
	ErrDuplicateMember    = errors.New("brackets: member listed more than once")
	ErrThirdPlaceTooSmall = errors.New("brackets: a third place match needs at least four members")
	ErrUnknownElimination = errors.New("brackets: unknown elimination type")
)

// GenerateBracketParams lists members by seed, strongest first.
type GenerateBracketParams struct {
	Members    []string
	ThirdPlace bool
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error)

	GetName() string
}

func NewGenerator(t models.EliminationType) (BracketGenerator, error) {
	switch t {
	case models.SingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.DoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownElimination, t)
}

func validateMembers(members []string) error {
	if len(members) < 2 {
		return fmt.Errorf("%w: got %d", ErrNotEnoughMembers, len(members))
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, ok := seen[m]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, m)
		}
		seen[m] = struct{}{}
	}
	return nil
}

// feed is what flows into a match slot: a known member, the winner or loser
// of an earlier match, or nothing (a bye).
type feed struct {
	member *string
	match  int
	loser  bool
}

var emptyFeed = feed{}

func (f feed) empty() bool { return f.member == nil && f.match == 0 }

// builder lays out matches in creation order. Pairings with one empty side
// are byes and are not created; the other side flows on unchanged.
type builder struct {
	matches []models.Match
}

func (b *builder) play(stage models.Stage, round int, f1, f2 feed) (winner, loser feed) {
	switch {
	case f1.empty() && f2.empty():
		return emptyFeed, emptyFeed
	case f2.empty():
		return f1, emptyFeed
	case f1.empty():
		return f2, emptyFeed
	}

	number := len(b.matches) + 1
	m := models.Match{Number: number, Round: round, Stage: stage}
	m.Team1 = b.attach(f1, number, 1)
	m.Team2 = b.attach(f2, number, 2)
	b.matches = append(b.matches, m)

	return feed{match: number}, feed{match: number, loser: true}
}

// attach links the match producing f to slot of match number, or returns the
// member when f is already known.
func (b *builder) attach(f feed, number, slot int) *string {
	if f.member != nil {
		member := *f.member
		return &member
	}
	src := &b.matches[f.match-1]
	next := number
	if f.loser {
		src.NextMatchLoser = &next
		src.NextLoserSlot = slot
	} else {
		src.NextMatchWinner = &next
		src.NextWinnerSlot = slot
	}
	return nil
}

// seededFeeds pads members to a power of two and orders them so that byes
// face the top seeds.
func seededFeeds(members []string) []feed {
	size := nextPowerOfTwo(len(members))
	indexes := make([]int, size)
	for i := range indexes {
		indexes[i] = i
	}

	feeds := make([]feed, 0, size)
	for _, idx := range Single(indexes).NestFlat() {
		if idx < len(members) {
			member := members[idx]
			feeds = append(feeds, feed{member: &member})
		} else {
			feeds = append(feeds, emptyFeed)
		}
	}
	return feeds
}

// playRound pairs consecutive feeds and returns winner and loser feeds in order.
func (b *builder) playRound(stage models.Stage, round int, feeds []feed) (winners, losers []feed) {
	winners = make([]feed, 0, len(feeds)/2)
	losers = make([]feed, 0, len(feeds)/2)
	for i := 0; i+1 < len(feeds); i += 2 {
		w, l := b.play(stage, round, feeds[i], feeds[i+1])
		winners = append(winners, w)
		losers = append(losers, l)
	}
	return winners, losers
}
