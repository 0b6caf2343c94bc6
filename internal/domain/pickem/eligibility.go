package pickem

import (
	"slices"
	"strings"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

type ReasonCode string

const (
	ReasonUsedAsLoser          ReasonCode = "used_as_loser"
	ReasonOpponentOfLoser      ReasonCode = "opponent_of_loser"
	ReasonWinnerCapped         ReasonCode = "winner_capped"
	ReasonOpponentOfCappedTeam ReasonCode = "opponent_of_winner_capped"
	ReasonPickedElsewhere      ReasonCode = "picked_elsewhere"
)

var reasonMessages = map[ReasonCode]string{
	ReasonUsedAsLoser:          "already used as a loser",
	ReasonOpponentOfLoser:      "opponent of a team already eliminated as loser",
	ReasonWinnerCapped:         "already used twice as winner",
	ReasonOpponentOfCappedTeam: "opponent of a team already at its 2x winner cap",
	ReasonPickedElsewhere:      "already picked in another ungraded week",
}

// Reason explains why a team cannot be picked. CauseTeamID is the locked team for
// opponent reasons and the team itself otherwise.
type Reason struct {
	Code        ReasonCode
	Message     string
	CauseTeamID int64
}

func newReason(code ReasonCode, causeTeamID int64) Reason {
	return Reason{Code: code, Message: reasonMessages[code], CauseTeamID: causeTeamID}
}

// Restriction lists every reason a team is unpickable, in rule order.
type Restriction struct {
	TeamID  int64
	Reasons []Reason
}

// Summary joins all reason messages.
func (r Restriction) Summary() string {
	messages := make([]string, 0, len(r.Reasons))
	for _, reason := range r.Reasons {
		messages = append(messages, reason.Message)
	}
	return strings.Join(messages, "; ")
}

// Eligibility is the partition of a week's teams for one user.
type Eligibility struct {
	unpickable map[int64]*Restriction
	order      []int64
}

func (e Eligibility) IsPickable(teamID int64) bool {
	_, blocked := e.unpickable[teamID]
	return !blocked
}

// Restriction returns the reasons recorded for teamID.
func (e Eligibility) Restriction(teamID int64) (Restriction, bool) {
	restriction, ok := e.unpickable[teamID]
	if !ok {
		return Restriction{}, false
	}
	return *restriction, true
}

// Unpickable returns restrictions ordered by team id.
func (e Eligibility) Unpickable() []Restriction {
	ids := slices.Clone(e.order)
	slices.Sort(ids)
	out := make([]Restriction, 0, len(ids))
	for _, teamID := range ids {
		out = append(out, *e.unpickable[teamID])
	}
	return out
}

func (e *Eligibility) block(teamID int64, reason Reason) {
	if e.unpickable == nil {
		e.unpickable = make(map[int64]*Restriction)
	}
	restriction, ok := e.unpickable[teamID]
	if !ok {
		restriction = &Restriction{TeamID: teamID}
		e.unpickable[teamID] = restriction
		e.order = append(e.order, teamID)
	}
	restriction.Reasons = append(restriction.Reasons, reason)
}

// Eligibility partitions the teams playing in matches. The loser-lock rule runs over every
// match before the winner-cap rule, so a team hit by both carries its loser reasons first.
// Opponents are only blocked through a match both teams actually play this week. Teams
// held by ungraded picks of other weeks come last and never block their opponents.
func (r Rules) Eligibility(ledger usage.Ledger, pending map[int64]int, matches []match.Match) Eligibility {
	var out Eligibility

	for _, m := range matches {
		for _, teamID := range []int64{m.HomeTeamID, m.AwayTeamID} {
			if !r.loserLocked(ledger.Counts(teamID)) {
				continue
			}
			opponentID, _ := m.Opponent(teamID)
			out.block(teamID, newReason(ReasonUsedAsLoser, teamID))
			out.block(opponentID, newReason(ReasonOpponentOfLoser, teamID))
		}
	}

	for _, m := range matches {
		for _, teamID := range []int64{m.HomeTeamID, m.AwayTeamID} {
			if !r.winnerCapped(ledger.Counts(teamID)) {
				continue
			}
			opponentID, _ := m.Opponent(teamID)
			out.block(teamID, newReason(ReasonWinnerCapped, teamID))
			out.block(opponentID, newReason(ReasonOpponentOfCappedTeam, teamID))
		}
	}

	for _, m := range matches {
		for _, teamID := range []int64{m.HomeTeamID, m.AwayTeamID} {
			if r.overcommitted(ledger.Counts(teamID), pending[teamID]) {
				out.block(teamID, newReason(ReasonPickedElsewhere, teamID))
			}
		}
	}

	return out
}
