package pickem

import (
	"testing"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

func weekMatches() []match.Match {
	return []match.Match{
		{ID: 1, Week: 5, HomeTeamID: teamX, AwayTeamID: teamY, KickoffAt: kickoff()},
		{ID: 2, Week: 5, HomeTeamID: teamZ, AwayTeamID: teamW, KickoffAt: kickoff()},
	}
}

func TestEligibilityWithoutHistory(t *testing.T) {
	t.Parallel()

	got := DefaultRules().Eligibility(nil, nil, weekMatches())
	if len(got.Unpickable()) != 0 {
		t.Fatalf("expected no restrictions, got %+v", got.Unpickable())
	}
	for _, teamID := range []int64{teamX, teamY, teamZ, teamW} {
		if !got.IsPickable(teamID) {
			t.Fatalf("expected team %d to be pickable", teamID)
		}
	}
}

func TestEligibilityLoserLockBlocksOpponent(t *testing.T) {
	t.Parallel()

	ledger := usage.Ledger{teamX: {Loser: 1}}
	got := DefaultRules().Eligibility(ledger, nil, weekMatches())

	self, ok := got.Restriction(teamX)
	if !ok || self.Summary() != "already used as a loser" {
		t.Fatalf("unexpected restriction for loser-locked team: %+v", self)
	}
	opponent, ok := got.Restriction(teamY)
	if !ok {
		t.Fatalf("expected opponent of loser-locked team to be unpickable")
	}
	if opponent.Summary() != "opponent of a team already eliminated as loser" {
		t.Fatalf("unexpected opponent reason: %q", opponent.Summary())
	}
	if opponent.Reasons[0].CauseTeamID != teamX {
		t.Fatalf("expected reason to cite team %d, got %d", teamX, opponent.Reasons[0].CauseTeamID)
	}
	if !got.IsPickable(teamZ) || !got.IsPickable(teamW) {
		t.Fatalf("expected unrelated match to stay pickable")
	}
}

func TestEligibilityWinnerCapBlocksOpponent(t *testing.T) {
	t.Parallel()

	ledger := usage.Ledger{teamZ: {Winner: 2}}
	got := DefaultRules().Eligibility(ledger, nil, weekMatches())

	restrictions := got.Unpickable()
	if len(restrictions) != 2 {
		t.Fatalf("expected two restrictions, got %+v", restrictions)
	}
	if restrictions[0].TeamID != teamZ || restrictions[0].Summary() != "already used twice as winner" {
		t.Fatalf("unexpected capped restriction: %+v", restrictions[0])
	}
	if restrictions[1].TeamID != teamW || restrictions[1].Summary() != "opponent of a team already at its 2x winner cap" {
		t.Fatalf("unexpected opponent restriction: %+v", restrictions[1])
	}
}

func TestEligibilityOpponentBlockingRequiresScheduledTeam(t *testing.T) {
	t.Parallel()

	// teamW is capped but does not play in this week's only match.
	ledger := usage.Ledger{teamW: {Winner: 2}, teamZ: {Loser: 1}}
	matches := []match.Match{{ID: 3, Week: 5, HomeTeamID: teamX, AwayTeamID: teamY, KickoffAt: kickoff()}}

	got := DefaultRules().Eligibility(ledger, nil, matches)
	if len(got.Unpickable()) != 0 {
		t.Fatalf("expected no restrictions, got %+v", got.Unpickable())
	}
}

func TestEligibilityConcatenatesAllReasons(t *testing.T) {
	t.Parallel()

	ledger := usage.Ledger{
		teamX: {Winner: 2, Loser: 1},
		teamY: {Loser: 1},
	}
	got := DefaultRules().Eligibility(ledger, nil, weekMatches())

	x, ok := got.Restriction(teamX)
	if !ok {
		t.Fatalf("expected team %d to be unpickable", teamX)
	}
	want := "already used as a loser; opponent of a team already eliminated as loser; already used twice as winner"
	if x.Summary() != want {
		t.Fatalf("unexpected summary\nwant %q\ngot  %q", want, x.Summary())
	}

	y, _ := got.Restriction(teamY)
	wantY := "opponent of a team already eliminated as loser; already used as a loser; opponent of a team already at its 2x winner cap"
	if y.Summary() != wantY {
		t.Fatalf("unexpected summary\nwant %q\ngot  %q", wantY, y.Summary())
	}
}

func TestEligibilityBlocksTeamsPickedInOtherWeeks(t *testing.T) {
	t.Parallel()

	got := DefaultRules().Eligibility(nil, map[int64]int{teamZ: 1}, weekMatches())

	z, ok := got.Restriction(teamZ)
	if !ok {
		t.Fatalf("expected team %d to be unpickable", teamZ)
	}
	if z.Summary() != "already picked in another ungraded week" {
		t.Fatalf("unexpected summary %q", z.Summary())
	}
	if !got.IsPickable(teamW) {
		t.Fatalf("expected opponent %d to stay pickable", teamW)
	}
	if len(got.Unpickable()) != 1 {
		t.Fatalf("expected one restriction, got %+v", got.Unpickable())
	}
}
