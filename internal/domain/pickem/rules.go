package pickem

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

var (
	ErrMatchNotInWeek      = errors.New("match not found")
	ErrMatchStarted        = errors.New("match already started")
	ErrTeamNotInMatch      = errors.New("team does not play in match")
	ErrTeamUsedAsLoser     = errors.New("team already used as loser")
	ErrTeamWinnerCapped    = errors.New("team already used twice as winner")
	ErrTeamPickedElsewhere = errors.New("team already picked in an ungraded week")
	ErrWeekPickLocked      = errors.New("week pick already locked")
	ErrResultAlreadySet    = errors.New("result already set")
	ErrNegativeScore       = errors.New("score must not be negative")
)

// Rules stores the team usage limits of the league.
type Rules struct {
	// WinnerCap is how many correct picks retire a team.
	WinnerCap int
	// LoserCap is how many incorrect picks retire a team.
	LoserCap int
}

func DefaultRules() Rules {
	return Rules{
		WinnerCap: 2,
		LoserCap:  1,
	}
}

// IsIneligible reports whether err rejects a pick because of the team usage ledger or the
// user's ungraded picks.
func IsIneligible(err error) bool {
	return errors.Is(err, ErrTeamUsedAsLoser) ||
		errors.Is(err, ErrTeamWinnerCapped) ||
		errors.Is(err, ErrTeamPickedElsewhere)
}

func (r Rules) loserLocked(counts usage.Counts) bool {
	return counts.Loser >= r.LoserCap
}

func (r Rules) winnerCapped(counts usage.Counts) bool {
	return counts.Winner >= r.WinnerCap
}

// overcommitted reports whether pending ungraded picks could push a team past either cap
// once they are graded, whatever their outcome.
func (r Rules) overcommitted(counts usage.Counts, pending int) bool {
	if pending <= 0 {
		return false
	}
	return counts.Loser+pending >= r.LoserCap || counts.Winner+pending >= r.WinnerCap
}

// Candidate is a pick a user wants to submit.
type Candidate struct {
	Week    int
	MatchID int64
	TeamID  int64
}

// Commitments is what a user has already staked when a new pick is validated.
type Commitments struct {
	Ledger usage.Ledger
	// Pending counts ungraded picks per team in weeks other than the candidate's.
	Pending map[int64]int
	// Current is the pick already stored for the candidate's week.
	Current *pick.Pick
	// CurrentMatch is the match Current was made on.
	CurrentMatch match.Match
}

// PendingByTeam counts the ungraded picks per team, skipping week.
func PendingByTeam(picks []pick.Pick, week int) map[int64]int {
	out := make(map[int64]int)
	for _, item := range picks {
		if item.Week == week || item.IsGraded() {
			continue
		}
		out[item.TeamID]++
	}
	return out
}

// ValidatePick checks a candidate against its match and what the user already committed.
// The first failing check wins: match lookup, kickoff, locked week pick, participation,
// loser lock, winner cap, ungraded picks of the team in other weeks. Pass the zero Match
// when the match id is unknown.
func (r Rules) ValidatePick(candidate Candidate, target match.Match, committed Commitments, now time.Time) error {
	if target.ID == 0 || target.ID != candidate.MatchID || target.Week != candidate.Week {
		return fmt.Errorf("%w: match=%d week=%d", ErrMatchNotInWeek, candidate.MatchID, candidate.Week)
	}
	if target.HasStarted(now) {
		return fmt.Errorf("%w: kickoff=%s", ErrMatchStarted, target.KickoffAt.UTC().Format(time.RFC3339))
	}
	if current := committed.Current; current != nil {
		if current.IsGraded() || committed.CurrentMatch.Completed || committed.CurrentMatch.HasStarted(now) {
			return fmt.Errorf("%w: week=%d match=%d", ErrWeekPickLocked, current.Week, current.MatchID)
		}
	}
	if !target.Involves(candidate.TeamID) {
		return fmt.Errorf("%w: team=%d match=%d", ErrTeamNotInMatch, candidate.TeamID, target.ID)
	}

	counts := committed.Ledger.Counts(candidate.TeamID)
	if r.loserLocked(counts) {
		return fmt.Errorf("%w: team=%d", ErrTeamUsedAsLoser, candidate.TeamID)
	}
	if r.winnerCapped(counts) {
		return fmt.Errorf("%w: team=%d", ErrTeamWinnerCapped, candidate.TeamID)
	}
	if pending := committed.Pending[candidate.TeamID]; r.overcommitted(counts, pending) {
		return fmt.Errorf("%w: team=%d pending=%d", ErrTeamPickedElsewhere, candidate.TeamID, pending)
	}

	return nil
}
