package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
)

// Season holds the mutable state of one season: schedule results, picks, the usage ledger
// and season points. A single lock covers all of it so a settlement is never observed half
// applied.
type Season struct {
	mu           sync.RWMutex
	users        []user.User
	history      []history.Pick
	matches      map[int64]match.Match
	picks        map[pickKey]pick.Pick
	nextPickID   int64
	usage        []usage.Record
	seasonPoints map[int64]int
	now          func() time.Time
}

// SetClock replaces time.Now for kickoff checks.
func (s *Season) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Season) pickLocked(item pick.Pick, now time.Time) bool {
	if item.IsGraded() {
		return true
	}
	current, ok := s.matches[item.MatchID]
	return ok && (current.Completed || current.HasStarted(now))
}

type pickKey struct {
	userID int64
	week   int
}

// NewSeason builds the state from seed data. Historical picks are replayed into the ledger.
func NewSeason(users []user.User, matches []match.Match, historical []history.Pick) *Season {
	s := &Season{
		users:        append([]user.User(nil), users...),
		history:      append([]history.Pick(nil), historical...),
		matches:      make(map[int64]match.Match, len(matches)),
		picks:        make(map[pickKey]pick.Pick),
		seasonPoints: make(map[int64]int),
		now:          time.Now,
	}
	for _, item := range matches {
		s.matches[item.ID] = cloneMatch(item)
	}
	s.usage = pickem.ReplayLedger(pickem.GradedFromHistory(historical))
	return s
}

func (s *Season) sortedMatches(filter func(match.Match) bool) []match.Match {
	out := make([]match.Match, 0, len(s.matches))
	for _, item := range s.matches {
		if filter != nil && !filter(item) {
			continue
		}
		out = append(out, cloneMatch(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Season) sortedPicks(filter func(pick.Pick) bool) []pick.Pick {
	out := make([]pick.Pick, 0, len(s.picks))
	for _, item := range s.picks {
		if filter != nil && !filter(item) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

func cloneMatch(m match.Match) match.Match {
	copied := m
	if m.HomeScore != nil {
		v := *m.HomeScore
		copied.HomeScore = &v
	}
	if m.AwayScore != nil {
		v := *m.AwayScore
		copied.AwayScore = &v
	}
	if m.WinnerTeamID != nil {
		v := *m.WinnerTeamID
		copied.WinnerTeamID = &v
	}
	return copied
}
