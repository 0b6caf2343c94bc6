package result

import (
	"errors"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

// ErrMatchNotFound is returned by Settle for an unknown match id.
var ErrMatchNotFound = errors.New("match not found")

// Grade is the outcome assigned to one pick.
type Grade struct {
	PickID  int64
	UserID  int64
	TeamID  int64
	Outcome pick.Outcome
}

// PointAward is the number of season points a user earns from one settlement.
type PointAward struct {
	UserID int64
	Points int
}

// Settlement is everything a posted result changes. It is applied as one unit.
type Settlement struct {
	MatchID      int64
	HomeScore    int
	AwayScore    int
	WinnerTeamID *int64
	Grades       []Grade
	Usage        []usage.Record
	Points       []PointAward
}

// SettleFunc computes a settlement from the locked match and its picks.
type SettleFunc func(current match.Match, picks []pick.Pick) (Settlement, error)
