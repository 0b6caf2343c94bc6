package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/team"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
	"github.com/riskibarqy/nfl-pickem/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

type SubmitPickInput struct {
	Week    int
	MatchID int64
	TeamID  int64
}

type BoardMatch struct {
	Match      match.Match
	HomeTeam   team.Team
	AwayTeam   team.Team
	HasStarted bool
}

// WeekBoard is one user's view of a week: the schedule, their pick and the teams they
// may not pick.
type WeekBoard struct {
	Week       int
	Matches    []BoardMatch
	Pick       *pick.Pick
	Unpickable []pickem.Restriction
}

type PickEntry struct {
	Week    int
	MatchID int64
	Team    team.Team
	Outcome pick.Outcome
	Source  usage.Source
}

type UserPicks struct {
	UserID   int64
	Username string
	Picks    []PickEntry
}

type PickService struct {
	matchRepo   match.Repository
	pickRepo    pick.Repository
	usageRepo   usage.Repository
	historyRepo history.Repository
	userRepo    user.Repository
	teamRepo    team.Repository
	rules       pickem.Rules
	logger      *logging.Logger
	locks       *resilience.KeyedMutex
	now         func() time.Time
}

func NewPickService(
	matchRepo match.Repository,
	pickRepo pick.Repository,
	usageRepo usage.Repository,
	historyRepo history.Repository,
	userRepo user.Repository,
	teamRepo team.Repository,
	rules pickem.Rules,
	logger *logging.Logger,
) *PickService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PickService{
		matchRepo:   matchRepo,
		pickRepo:    pickRepo,
		usageRepo:   usageRepo,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		teamRepo:    teamRepo,
		rules:       rules,
		logger:      logger,
		locks:       &resilience.KeyedMutex{},
		now:         time.Now,
	}
}

func (s *PickService) WeekBoard(ctx context.Context, userID int64, week int) (WeekBoard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.WeekBoard", attribute.Int("week", week))
	defer span.End()

	if userID <= 0 {
		return WeekBoard{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if week <= 0 {
		return WeekBoard{}, fmt.Errorf("%w: week must be > 0", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListByWeek(ctx, week)
	if err != nil {
		return WeekBoard{}, fmt.Errorf("list matches by week: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return WeekBoard{}, fmt.Errorf("list teams: %w", err)
	}
	picks, err := s.pickRepo.ListByUser(ctx, userID)
	if err != nil {
		return WeekBoard{}, fmt.Errorf("list picks by user: %w", err)
	}
	ledger, err := s.userLedger(ctx, userID)
	if err != nil {
		return WeekBoard{}, err
	}
	current, exists, err := s.pickRepo.GetByUserAndWeek(ctx, userID, week)
	if err != nil {
		return WeekBoard{}, fmt.Errorf("get pick by user and week: %w", err)
	}

	index := team.Index(teams)
	now := s.now()
	board := WeekBoard{
		Week:       week,
		Matches:    make([]BoardMatch, 0, len(matches)),
		Unpickable: s.rules.Eligibility(ledger, pickem.PendingByTeam(picks, week), matches).Unpickable(),
	}
	for _, item := range matches {
		board.Matches = append(board.Matches, BoardMatch{
			Match:      item,
			HomeTeam:   index[item.HomeTeamID],
			AwayTeam:   index[item.AwayTeamID],
			HasStarted: item.HasStarted(now),
		})
	}
	if exists {
		board.Pick = &current
	}

	return board, nil
}

// SubmitPick validates a pick against the schedule, the user's ledger and their other
// ungraded picks, and replaces the pick for the same week while it is still open. The ledger
// itself only changes when results are posted.
func (s *PickService) SubmitPick(ctx context.Context, userID int64, input SubmitPickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SubmitPick",
		attribute.Int64("user_id", userID),
		attribute.Int("week", input.Week),
		attribute.Int64("match_id", input.MatchID),
	)
	defer span.End()

	if userID <= 0 {
		return pick.Pick{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Week <= 0 || input.MatchID <= 0 || input.TeamID <= 0 {
		return pick.Pick{}, fmt.Errorf("%w: week, match id and team id are required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(strconv.FormatInt(userID, 10))
	defer unlock()

	target, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		target = match.Match{}
	}

	committed, err := s.commitments(ctx, userID, input.Week)
	if err != nil {
		return pick.Pick{}, err
	}

	candidate := pickem.Candidate{Week: input.Week, MatchID: input.MatchID, TeamID: input.TeamID}
	if err := s.rules.ValidatePick(candidate, target, committed, s.now()); err != nil {
		return pick.Pick{}, mapPickRuleError(err)
	}

	saved, err := s.pickRepo.Upsert(ctx, pick.Pick{
		UserID:  userID,
		Week:    input.Week,
		MatchID: input.MatchID,
		TeamID:  input.TeamID,
	})
	if err != nil {
		if errors.Is(err, pick.ErrMatchClosed) {
			return pick.Pick{}, fmt.Errorf("%w: %w", ErrAlreadyStarted, err)
		}
		return pick.Pick{}, fmt.Errorf("%w: upsert pick: %w", ErrDependencyUnavailable, err)
	}

	s.logger.InfoContext(ctx, "pick submitted",
		"user_id", userID,
		"week", saved.Week,
		"match_id", saved.MatchID,
		"team_id", saved.TeamID,
	)
	return saved, nil
}

// commitments loads what the user already staked before a pick for week. Picks are read
// before the ledger so a pick graded in between is counted twice rather than missed.
func (s *PickService) commitments(ctx context.Context, userID int64, week int) (pickem.Commitments, error) {
	picks, err := s.pickRepo.ListByUser(ctx, userID)
	if err != nil {
		return pickem.Commitments{}, fmt.Errorf("list picks by user: %w", err)
	}
	ledger, err := s.userLedger(ctx, userID)
	if err != nil {
		return pickem.Commitments{}, err
	}

	committed := pickem.Commitments{
		Ledger:  ledger,
		Pending: pickem.PendingByTeam(picks, week),
	}
	for i := range picks {
		if picks[i].Week != week {
			continue
		}
		current := picks[i]
		currentMatch, ok, err := s.matchRepo.GetByID(ctx, current.MatchID)
		if err != nil {
			return pickem.Commitments{}, fmt.Errorf("get match of week pick: %w", err)
		}
		if !ok {
			return pickem.Commitments{}, fmt.Errorf("week pick %d references unknown match %d", current.ID, current.MatchID)
		}
		committed.Current = &current
		committed.CurrentMatch = currentMatch
		break
	}
	return committed, nil
}

// ListAllPicks groups historical and season picks by user. Season picks of other users stay
// hidden until they are graded.
func (s *PickService) ListAllPicks(ctx context.Context, viewerID int64) ([]UserPicks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListAllPicks")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	historical, err := s.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list historical picks: %w", err)
	}
	season, err := s.pickRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	index := team.Index(teams)
	byUser := make(map[int64][]PickEntry, len(users))
	for _, item := range historical {
		outcome := pick.OutcomeIncorrect
		if item.Correct {
			outcome = pick.OutcomeCorrect
		}
		byUser[item.UserID] = append(byUser[item.UserID], PickEntry{
			Week:    item.Week,
			Team:    index[item.TeamID],
			Outcome: outcome,
			Source:  usage.SourceHistorical,
		})
	}
	for _, item := range season {
		if !item.IsGraded() && item.UserID != viewerID {
			continue
		}
		byUser[item.UserID] = append(byUser[item.UserID], PickEntry{
			Week:    item.Week,
			MatchID: item.MatchID,
			Team:    index[item.TeamID],
			Outcome: item.Outcome,
			Source:  usage.SourceSeason,
		})
	}

	out := make([]UserPicks, 0, len(users))
	for _, u := range users {
		entries := byUser[u.ID]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Week < entries[j].Week })
		out = append(out, UserPicks{UserID: u.ID, Username: u.Username, Picks: entries})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out, nil
}

func (s *PickService) userLedger(ctx context.Context, userID int64) (usage.Ledger, error) {
	records, err := s.usageRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list team usage: %w", err)
	}
	return usage.BuildLedger(records), nil
}

func mapPickRuleError(err error) error {
	switch {
	case errors.Is(err, pickem.ErrMatchNotInWeek):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, pickem.ErrMatchStarted), errors.Is(err, pickem.ErrWeekPickLocked):
		return fmt.Errorf("%w: %w", ErrAlreadyStarted, err)
	case errors.Is(err, pickem.ErrTeamNotInMatch):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case pickem.IsIneligible(err):
		return fmt.Errorf("%w: %w", ErrIneligibleTeam, err)
	default:
		return err
	}
}
