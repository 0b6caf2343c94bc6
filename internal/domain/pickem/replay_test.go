package pickem

import (
	"testing"

	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

func TestReplayLedgerMatchesSettlement(t *testing.T) {
	t.Parallel()

	historical := []history.Pick{
		{UserID: 1, Week: 2, TeamID: teamX, Correct: true},
		{UserID: 1, Week: 1, TeamID: teamY, Correct: false},
	}
	season := []pick.Pick{
		{ID: 1, UserID: 1, Week: 3, MatchID: 30, TeamID: teamX, Outcome: pick.OutcomeCorrect},
		{ID: 2, UserID: 1, Week: 4, MatchID: 40, TeamID: teamZ, Outcome: pick.OutcomePending},
	}

	graded := append(GradedFromHistory(historical), GradedFromSeason(season)...)
	records := ReplayLedger(graded)
	if len(records) != 3 {
		t.Fatalf("expected three records, got %d", len(records))
	}
	if records[0].Week != 1 || records[0].Type != usage.TypeLoser || records[0].Source != usage.SourceHistorical {
		t.Fatalf("expected week one loser first, got %+v", records[0])
	}

	ledger := usage.BuildLedger(records)
	if got := ledger.Counts(teamX); got.Winner != 2 || got.Loser != 0 {
		t.Fatalf("unexpected counts for team %d: %+v", teamX, got)
	}
	if got := ledger.Counts(teamZ); got != (usage.Counts{}) {
		t.Fatalf("pending pick must not reach the ledger, got %+v", got)
	}

	stored := usage.Ledger{teamX: {Winner: 1}, teamY: {Loser: 1}}
	diff := usage.Diff(ledger, stored)
	if len(diff) != 1 || diff[0].TeamID != teamX {
		t.Fatalf("expected a single mismatch for team %d, got %+v", teamX, diff)
	}
}
