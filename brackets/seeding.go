package brackets

import (
	"errors"
	"fmt"
)

var (
	ErrNoParticipants = errors.New("brackets: no participants to seed")
	ErrBracketSize    = errors.New("brackets: bracket size must be a power of two and at least 2")
)

// SeedBracket returns the first-round slot order for participants ranked from
// strongest to weakest: 1 vs n, 2 vs n-1 and so on, nested so that the top two
// seeds can only meet in the final.
func SeedBracket[T any](participants []T) ([]T, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if len(participants) < 2 || !isPowerOfTwo(len(participants)) {
		return nil, fmt.Errorf("%w: got %d", ErrBracketSize, len(participants))
	}

	items := make([]T, len(participants))
	copy(items, participants)
	return Single(items).NestFlat(), nil
}
