package standing

// Totals is the per-user aggregate behind the leaderboard.
type Totals struct {
	UserID           int64
	Username         string
	HistoricalPoints int
	SeasonPoints     int
	GradedPicks      int
	CorrectPicks     int
}

func (t Totals) Total() int {
	return t.HistoricalPoints + t.SeasonPoints
}

// Entry is a ranked leaderboard row.
type Entry struct {
	Rank int
	Totals
}
