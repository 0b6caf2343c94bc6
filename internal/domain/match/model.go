package match

import (
	"fmt"
	"slices"
	"time"
)

// Match is one scheduled game. A match completes exactly once, when an admin posts its result.
type Match struct {
	ID           int64
	Week         int
	HomeTeamID   int64
	AwayTeamID   int64
	KickoffAt    time.Time
	Completed    bool
	HomeScore    *int
	AwayScore    *int
	WinnerTeamID *int64
}

// WeekSummary aggregates match completion for one week.
type WeekSummary struct {
	Week           int
	GamesCount     int
	CompletedGames int
}

func (m Match) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("match id must be > 0")
	}
	if m.Week <= 0 {
		return fmt.Errorf("match week must be > 0")
	}
	if m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
		return fmt.Errorf("match teams are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away team must differ")
	}
	if m.KickoffAt.IsZero() {
		return fmt.Errorf("match kickoff is required")
	}
	return nil
}

func (m Match) Involves(teamID int64) bool {
	return teamID == m.HomeTeamID || teamID == m.AwayTeamID
}

// Opponent returns the other participant when teamID plays in this match.
func (m Match) Opponent(teamID int64) (int64, bool) {
	switch teamID {
	case m.HomeTeamID:
		return m.AwayTeamID, true
	case m.AwayTeamID:
		return m.HomeTeamID, true
	default:
		return 0, false
	}
}

// HasStarted reports whether picks are closed. Picks are accepted strictly before kickoff.
func (m Match) HasStarted(now time.Time) bool {
	return !now.Before(m.KickoffAt)
}

// Summarize groups matches by week in ascending week order.
func Summarize(items []Match) []WeekSummary {
	byWeek := make(map[int]*WeekSummary)
	weeks := make([]int, 0)
	for _, item := range items {
		summary, ok := byWeek[item.Week]
		if !ok {
			summary = &WeekSummary{Week: item.Week}
			byWeek[item.Week] = summary
			weeks = append(weeks, item.Week)
		}
		summary.GamesCount++
		if item.Completed {
			summary.CompletedGames++
		}
	}

	slices.Sort(weeks)
	out := make([]WeekSummary, 0, len(weeks))
	for _, week := range weeks {
		out = append(out, *byWeek[week])
	}
	return out
}
