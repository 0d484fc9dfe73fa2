package services

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

// EventBroadcaster pushes events to websocket rooms.
type EventBroadcaster interface {
	BroadcastToRoom(roomID string, eventType string, payload any)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToRoom(string, string, any) {}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimMembers(members []string) []string {
	return lo.Map(members, func(m string, _ int) string { return strings.TrimSpace(m) })
}

// outcome turns a match result into a rated pairing: 1/0 for a win, 0.5 each
// for a draw.
func outcome(team1, team2 string, result models.MatchResult) models.MatchOutcome {
	o := models.MatchOutcome{Member1: team1, Member2: team2}
	switch result {
	case models.ResultTeam1:
		o.Score1, o.Score2 = fixed.MustFromString("1"), fixed.MustFromString("0")
	case models.ResultTeam2:
		o.Score1, o.Score2 = fixed.MustFromString("0"), fixed.MustFromString("1")
	default:
		o.Score1, o.Score2 = fixed.MustFromString("0.5"), fixed.MustFromString("0.5")
	}
	return o
}
