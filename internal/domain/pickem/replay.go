package pickem

import (
	"sort"

	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

// GradedPick is a pick whose outcome is known, from either source.
type GradedPick struct {
	UserID  int64
	Week    int
	MatchID int64
	TeamID  int64
	Correct bool
	Source  usage.Source
}

// GradedFromHistory converts pre-tracked picks.
func GradedFromHistory(items []history.Pick) []GradedPick {
	out := make([]GradedPick, 0, len(items))
	for _, item := range items {
		out = append(out, GradedPick{
			UserID:  item.UserID,
			Week:    item.Week,
			TeamID:  item.TeamID,
			Correct: item.Correct,
			Source:  usage.SourceHistorical,
		})
	}
	return out
}

// GradedFromSeason keeps the graded season picks and drops pending ones.
func GradedFromSeason(items []pick.Pick) []GradedPick {
	out := make([]GradedPick, 0, len(items))
	for _, item := range items {
		if !item.IsGraded() {
			continue
		}
		out = append(out, GradedPick{
			UserID:  item.UserID,
			Week:    item.Week,
			MatchID: item.MatchID,
			TeamID:  item.TeamID,
			Correct: item.Outcome == pick.OutcomeCorrect,
			Source:  usage.SourceSeason,
		})
	}
	return out
}

// ReplayLedger rebuilds usage records from graded picks in week order. The result must match
// what settlement appended over the season.
func ReplayLedger(picks []GradedPick) []usage.Record {
	ordered := make([]GradedPick, len(picks))
	copy(ordered, picks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Week < ordered[j].Week
	})

	records := make([]usage.Record, 0, len(ordered))
	for _, item := range ordered {
		usageType := usage.TypeLoser
		if item.Correct {
			usageType = usage.TypeWinner
		}
		records = append(records, usage.Record{
			UserID:  item.UserID,
			TeamID:  item.TeamID,
			Type:    usageType,
			Week:    item.Week,
			MatchID: item.MatchID,
			Source:  item.Source,
		})
	}
	return records
}
