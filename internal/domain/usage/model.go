package usage

import (
	"fmt"
	"slices"
)

type Type string

const (
	TypeWinner Type = "winner"
	TypeLoser  Type = "loser"
)

type Source string

const (
	SourceSeason     Source = "season"
	SourceHistorical Source = "historical"
)

// Record is one ledger entry: a graded pick of TeamID by UserID.
type Record struct {
	UserID  int64
	TeamID  int64
	Type    Type
	Week    int
	MatchID int64
	Source  Source
}

func (r Record) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("usage user id must be > 0")
	}
	if r.TeamID <= 0 {
		return fmt.Errorf("usage team id must be > 0")
	}
	switch r.Type {
	case TypeWinner, TypeLoser:
	default:
		return fmt.Errorf("unknown usage type %q", r.Type)
	}
	return nil
}

// Counts is how often one team was used by one user.
type Counts struct {
	Winner int
	Loser  int
}

// Ledger holds the usage counts of a single user keyed by team id.
type Ledger map[int64]Counts

func BuildLedger(records []Record) Ledger {
	ledger := make(Ledger)
	for _, record := range records {
		counts := ledger[record.TeamID]
		switch record.Type {
		case TypeWinner:
			counts.Winner++
		case TypeLoser:
			counts.Loser++
		}
		ledger[record.TeamID] = counts
	}
	return ledger
}

// BuildLedgers splits records by user.
func BuildLedgers(records []Record) map[int64]Ledger {
	grouped := make(map[int64][]Record)
	for _, record := range records {
		grouped[record.UserID] = append(grouped[record.UserID], record)
	}

	out := make(map[int64]Ledger, len(grouped))
	for userID, items := range grouped {
		out[userID] = BuildLedger(items)
	}
	return out
}

func (l Ledger) Counts(teamID int64) Counts {
	return l[teamID]
}

// TeamIDs returns the ledger's team ids in ascending order.
func (l Ledger) TeamIDs() []int64 {
	ids := make([]int64, 0, len(l))
	for teamID := range l {
		ids = append(ids, teamID)
	}
	slices.Sort(ids)
	return ids
}

// Mismatch describes a team whose counts differ between two ledgers.
type Mismatch struct {
	TeamID   int64
	Expected Counts
	Actual   Counts
}

// Diff compares an expected ledger with an actual one.
func Diff(expected, actual Ledger) []Mismatch {
	teamIDs := make(map[int64]struct{}, len(expected)+len(actual))
	for teamID := range expected {
		teamIDs[teamID] = struct{}{}
	}
	for teamID := range actual {
		teamIDs[teamID] = struct{}{}
	}

	ids := make([]int64, 0, len(teamIDs))
	for teamID := range teamIDs {
		ids = append(ids, teamID)
	}
	slices.Sort(ids)

	out := make([]Mismatch, 0)
	for _, teamID := range ids {
		want := expected[teamID]
		got := actual[teamID]
		if want != got {
			out = append(out, Mismatch{TeamID: teamID, Expected: want, Actual: got})
		}
	}
	return out
}
