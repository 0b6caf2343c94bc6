package pickem

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

const (
	teamX int64 = 10
	teamY int64 = 11
	teamZ int64 = 12
	teamW int64 = 13
)

func kickoff() time.Time {
	return time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC)
}

func TestValidatePick(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	target := match.Match{ID: 1, Week: 1, HomeTeamID: teamX, AwayTeamID: teamY, KickoffAt: kickoff()}
	before := kickoff().Add(-time.Second)
	earlier := match.Match{ID: 2, Week: 1, HomeTeamID: teamZ, AwayTeamID: teamW, KickoffAt: kickoff().Add(-time.Hour)}
	later := match.Match{ID: 3, Week: 1, HomeTeamID: teamZ, AwayTeamID: teamW, KickoffAt: kickoff().Add(time.Hour)}

	tests := []struct {
		name         string
		candidate    Candidate
		target       match.Match
		ledger       usage.Ledger
		pending      map[int64]int
		current      *pick.Pick
		currentMatch match.Match
		now          time.Time
		targetErr    error
	}{
		{
			name:      "valid pick",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			now:       before,
		},
		{
			name:      "unknown match",
			candidate: Candidate{Week: 1, MatchID: 99, TeamID: teamX},
			target:    match.Match{},
			now:       before,
			targetErr: ErrMatchNotInWeek,
		},
		{
			name:      "match belongs to another week",
			candidate: Candidate{Week: 2, MatchID: 1, TeamID: teamX},
			target:    target,
			now:       before,
			targetErr: ErrMatchNotInWeek,
		},
		{
			name:      "one second after kickoff",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			now:       kickoff().Add(time.Second),
			targetErr: ErrMatchStarted,
		},
		{
			name:      "exactly at kickoff",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			now:       kickoff(),
			targetErr: ErrMatchStarted,
		},
		{
			name:      "team not in match",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamZ},
			target:    target,
			now:       before,
			targetErr: ErrTeamNotInMatch,
		},
		{
			name:      "team used as loser",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			ledger:    usage.Ledger{teamX: {Loser: 1}},
			now:       before,
			targetErr: ErrTeamUsedAsLoser,
		},
		{
			name:      "team used twice as winner",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			ledger:    usage.Ledger{teamX: {Winner: 2}},
			now:       before,
			targetErr: ErrTeamWinnerCapped,
		},
		{
			name:      "team used once as winner",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			ledger:    usage.Ledger{teamX: {Winner: 1}},
			now:       before,
		},
		{
			name:      "kickoff check wins over ledger",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			ledger:    usage.Ledger{teamX: {Loser: 1}},
			now:       kickoff().Add(time.Minute),
			targetErr: ErrMatchStarted,
		},
		{
			name:      "loser lock wins over winner cap",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			ledger:    usage.Ledger{teamX: {Winner: 2, Loser: 1}},
			now:       before,
			targetErr: ErrTeamUsedAsLoser,
		},
		{
			name:      "team pending in another week",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			pending:   map[int64]int{teamX: 1},
			now:       before,
			targetErr: ErrTeamPickedElsewhere,
		},
		{
			name:      "other team pending in another week",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			pending:   map[int64]int{teamY: 2},
			now:       before,
		},
		{
			name:      "winner cap wins over pending picks",
			candidate: Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:    target,
			ledger:    usage.Ledger{teamX: {Winner: 2}},
			pending:   map[int64]int{teamX: 1},
			now:       before,
			targetErr: ErrTeamWinnerCapped,
		},
		{
			name:         "replace open week pick",
			candidate:    Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:       target,
			current:      &pick.Pick{Week: 1, MatchID: later.ID, TeamID: teamZ, Outcome: pick.OutcomePending},
			currentMatch: later,
			now:          before,
		},
		{
			name:         "week pick match already started",
			candidate:    Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:       target,
			current:      &pick.Pick{Week: 1, MatchID: earlier.ID, TeamID: teamZ, Outcome: pick.OutcomePending},
			currentMatch: earlier,
			now:          before,
			targetErr:    ErrWeekPickLocked,
		},
		{
			name:         "week pick already graded",
			candidate:    Candidate{Week: 1, MatchID: 1, TeamID: teamX},
			target:       target,
			current:      &pick.Pick{Week: 1, MatchID: later.ID, TeamID: teamZ, Outcome: pick.OutcomeCorrect},
			currentMatch: later,
			now:          before,
			targetErr:    ErrWeekPickLocked,
		},
		{
			name:         "locked week pick wins over participation",
			candidate:    Candidate{Week: 1, MatchID: 1, TeamID: teamZ},
			target:       target,
			current:      &pick.Pick{Week: 1, MatchID: earlier.ID, TeamID: teamZ, Outcome: pick.OutcomePending},
			currentMatch: earlier,
			now:          before,
			targetErr:    ErrWeekPickLocked,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			committed := Commitments{
				Ledger:       tc.ledger,
				Pending:      tc.pending,
				Current:      tc.current,
				CurrentMatch: tc.currentMatch,
			}
			err := rules.ValidatePick(tc.candidate, tc.target, committed, tc.now)
			if tc.targetErr == nil && err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if tc.targetErr != nil && !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected error %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestValidatePickKickoffBoundary(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	target := match.Match{ID: 7, Week: 3, HomeTeamID: teamX, AwayTeamID: teamY, KickoffAt: kickoff()}
	candidate := Candidate{Week: 3, MatchID: 7, TeamID: teamY}

	if err := rules.ValidatePick(candidate, target, Commitments{}, kickoff().Add(-time.Second)); err != nil {
		t.Fatalf("expected pick at 12:59:59 to be accepted, got %v", err)
	}
	if err := rules.ValidatePick(candidate, target, Commitments{}, kickoff().Add(time.Second)); !errors.Is(err, ErrMatchStarted) {
		t.Fatalf("expected pick at 13:00:01 to be rejected, got %v", err)
	}
}

func TestIsIneligible(t *testing.T) {
	t.Parallel()

	if !IsIneligible(ErrTeamUsedAsLoser) || !IsIneligible(ErrTeamWinnerCapped) || !IsIneligible(ErrTeamPickedElsewhere) {
		t.Fatalf("expected ledger errors to be ineligible")
	}
	if IsIneligible(ErrMatchStarted) || IsIneligible(ErrWeekPickLocked) {
		t.Fatalf("expected kickoff errors not to be ineligible")
	}
}

func TestPendingByTeam(t *testing.T) {
	t.Parallel()

	picks := []pick.Pick{
		{Week: 1, TeamID: teamX, Outcome: pick.OutcomeCorrect},
		{Week: 2, TeamID: teamX, Outcome: pick.OutcomePending},
		{Week: 3, TeamID: teamX, Outcome: pick.OutcomePending},
		{Week: 4, TeamID: teamY, Outcome: pick.OutcomePending},
	}

	got := PendingByTeam(picks, 3)
	if got[teamX] != 1 || got[teamY] != 1 || len(got) != 2 {
		t.Fatalf("unexpected pending counts %v", got)
	}
}

// Advance picks of one team stop at the first one, since any of them may still lose.
func TestValidatePickCountsAdvancePicks(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	var stored []pick.Pick
	for week := 1; week <= 3; week++ {
		m := match.Match{ID: int64(week), Week: week, HomeTeamID: teamX, AwayTeamID: teamY, KickoffAt: kickoff().AddDate(0, 0, 7*week)}
		candidate := Candidate{Week: week, MatchID: m.ID, TeamID: teamX}
		err := rules.ValidatePick(candidate, m, Commitments{Pending: PendingByTeam(stored, week)}, kickoff())
		if week == 1 && err != nil {
			t.Fatalf("week 1: expected pick to be accepted, got %v", err)
		}
		if week > 1 && !errors.Is(err, ErrTeamPickedElsewhere) {
			t.Fatalf("week %d: expected ErrTeamPickedElsewhere, got %v", week, err)
		}
		if err == nil {
			stored = append(stored, pick.Pick{Week: week, MatchID: m.ID, TeamID: teamX, Outcome: pick.OutcomePending})
		}
	}
}
