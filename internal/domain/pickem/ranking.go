package pickem

import (
	"sort"
	"strings"

	"github.com/riskibarqy/nfl-pickem/internal/domain/standing"
)

// RankStandings orders totals by points descending then username, and assigns competition
// ranks: tied totals share a rank and the next total ranks 1 + the number of users ahead.
func RankStandings(totals []standing.Totals) []standing.Entry {
	sorted := make([]standing.Totals, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Total() != sorted[j].Total() {
			return sorted[i].Total() > sorted[j].Total()
		}
		return strings.ToLower(sorted[i].Username) < strings.ToLower(sorted[j].Username)
	})

	entries := make([]standing.Entry, 0, len(sorted))
	for i, item := range sorted {
		rank := i + 1
		if i > 0 && item.Total() == sorted[i-1].Total() {
			rank = entries[i-1].Rank
		}
		entries = append(entries, standing.Entry{Rank: rank, Totals: item})
	}
	return entries
}

// RankOf returns the rank of userID, or 0 when the user is not on the board.
func RankOf(entries []standing.Entry, userID int64) int {
	for _, entry := range entries {
		if entry.UserID == userID {
			return entry.Rank
		}
	}
	return 0
}
