package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/result"
	"github.com/riskibarqy/nfl-pickem/internal/domain/team"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	basecache "github.com/riskibarqy/nfl-pickem/internal/platform/cache"
)

const matchKeyPrefix = "match:"

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	key := "team:id:" + strconv.FormatInt(teamID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	v, err := r.cache.GetOrLoad(ctx, "user:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]user.User(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]user.User)
	return append([]user.User(nil), items...), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (user.User, bool, error) {
	return r.getOne(ctx, "user:id:"+strconv.FormatInt(userID, 10), func(ctx context.Context) (user.User, bool, error) {
		return r.next.GetByID(ctx, userID)
	})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	return r.getOne(ctx, "user:name:"+user.NormalizeUsername(username), func(ctx context.Context) (user.User, bool, error) {
		return r.next.GetByUsername(ctx, username)
	})
}

func (r *UserRepository) getOne(ctx context.Context, key string, load func(context.Context) (user.User, bool, error)) (user.User, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return cachedUser{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}

	cached, _ := v.(cachedUser)
	return cached.value, cached.exists, nil
}

type cachedUser struct {
	value  user.User
	exists bool
}

// MatchRepository caches schedule reads. Entries are dropped by ResultRepository after
// every settlement, so a cached board never outlives a posted result.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.listCached(ctx, matchKeyPrefix+"list", r.next.List)
}

func (r *MatchRepository) ListByWeek(ctx context.Context, week int) ([]match.Match, error) {
	return r.listCached(ctx, matchKeyPrefix+"week:"+strconv.Itoa(week), func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListByWeek(ctx, week)
	})
}

func (r *MatchRepository) ListIncomplete(ctx context.Context) ([]match.Match, error) {
	return r.listCached(ctx, matchKeyPrefix+"incomplete", r.next.ListIncomplete)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	key := matchKeyPrefix + "id:" + strconv.FormatInt(matchID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: cloneMatch(item), exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cloneMatch(cached.value), cached.exists, nil
}

func (r *MatchRepository) ListWeekSummaries(ctx context.Context) ([]match.WeekSummary, error) {
	v, err := r.cache.GetOrLoad(ctx, matchKeyPrefix+"weeks", func(ctx context.Context) (any, error) {
		items, err := r.next.ListWeekSummaries(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.WeekSummary(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.WeekSummary)
	return append([]match.WeekSummary(nil), items...), nil
}

func (r *MatchRepository) listCached(ctx context.Context, key string, load func(context.Context) ([]match.Match, error)) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return cloneMatches(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return cloneMatches(items), nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

type ResultRepository struct {
	next  result.Repository
	cache *basecache.Store
}

func NewResultRepository(next result.Repository, cache *basecache.Store) *ResultRepository {
	return &ResultRepository{next: next, cache: cache}
}

// Settle invalidates cached schedule reads whether or not the settlement succeeded.
func (r *ResultRepository) Settle(ctx context.Context, matchID int64, fn result.SettleFunc) (result.Settlement, error) {
	defer r.cache.DeletePrefix(ctx, matchKeyPrefix)
	return r.next.Settle(ctx, matchID, fn)
}

func cloneMatches(items []match.Match) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		out = append(out, cloneMatch(item))
	}
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
