package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/team"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
)

// TeamRepository serves the static team table.
type TeamRepository struct {
	items []team.Team
	byID  map[int64]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := append([]team.Team(nil), teams...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return &TeamRepository{items: items, byID: team.Index(items)}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	return append([]team.Team(nil), r.items...), nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	item, ok := r.byID[teamID]
	return item, ok, nil
}

// UserRepository serves the static user roster.
type UserRepository struct {
	items      []user.User
	byID       map[int64]user.User
	byUsername map[string]user.User
}

func NewUserRepository(users []user.User) *UserRepository {
	r := &UserRepository{
		items:      append([]user.User(nil), users...),
		byID:       make(map[int64]user.User, len(users)),
		byUsername: make(map[string]user.User, len(users)),
	}
	sort.Slice(r.items, func(i, j int) bool { return r.items[i].ID < r.items[j].ID })
	for _, item := range r.items {
		r.byID[item.ID] = item
		r.byUsername[user.NormalizeUsername(item.Username)] = item
	}
	return r
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	return append([]user.User(nil), r.items...), nil
}

func (r *UserRepository) GetByID(_ context.Context, userID int64) (user.User, bool, error) {
	item, ok := r.byID[userID]
	return item, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	item, ok := r.byUsername[user.NormalizeUsername(username)]
	return item, ok, nil
}

// HistoryRepository serves picks made before the season was tracked.
type HistoryRepository struct {
	items []history.Pick
}

func NewHistoryRepository(items []history.Pick) *HistoryRepository {
	return &HistoryRepository{items: append([]history.Pick(nil), items...)}
}

func (r *HistoryRepository) ListAll(_ context.Context) ([]history.Pick, error) {
	return append([]history.Pick(nil), r.items...), nil
}

func (r *HistoryRepository) ListByUser(_ context.Context, userID int64) ([]history.Pick, error) {
	out := make([]history.Pick, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}
