package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	"github.com/riskibarqy/nfl-pickem/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
)

type seasonHarness struct {
	season      *memory.Season
	picks       *PickService
	results     *ResultService
	schedule    *ScheduleService
	leaderboard *LeaderboardService
	dashboard   *DashboardService
	audit       *LedgerAuditService
}

func newSeasonHarness(t *testing.T, matches []match.Match, historical []history.Pick, now time.Time) *seasonHarness {
	t.Helper()

	season := memory.NewSeason(memory.SeedUsers(nil), matches, historical)
	matchRepo := memory.NewMatchRepository(season)
	pickRepo := memory.NewPickRepository(season)
	usageRepo := memory.NewUsageRepository(season)
	standingRepo := memory.NewStandingRepository(season)
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	userRepo := memory.NewUserRepository(memory.SeedUsers(nil))
	historyRepo := memory.NewHistoryRepository(historical)
	logger := logging.NewNop()

	h := &seasonHarness{
		season:      season,
		picks:       NewPickService(matchRepo, pickRepo, usageRepo, historyRepo, userRepo, teamRepo, pickem.DefaultRules(), logger),
		results:     NewResultService(memory.NewResultRepository(season), pickem.DefaultRules(), logger),
		schedule:    NewScheduleService(matchRepo, teamRepo, 18),
		leaderboard: NewLeaderboardService(standingRepo),
		audit:       NewLedgerAuditService(userRepo, historyRepo, pickRepo, usageRepo, 2, logger),
	}
	h.dashboard = NewDashboardService(standingRepo, pickRepo, usageRepo, teamRepo, h.schedule)
	h.setNow(now)
	return h
}

func (h *seasonHarness) setNow(now time.Time) {
	h.picks.now = func() time.Time { return now }
	h.schedule.now = func() time.Time { return now }
	h.season.SetClock(func() time.Time { return now })
}

func weekKickoff(week int) time.Time {
	return testKickoff.AddDate(0, 0, 7*(week-1))
}

func mustSubmit(t *testing.T, svc *PickService, userID int64, week int, matchID, teamID int64) {
	t.Helper()

	if _, err := svc.SubmitPick(context.Background(), userID, SubmitPickInput{Week: week, MatchID: matchID, TeamID: teamID}); err != nil {
		t.Fatalf("submit pick week=%d team=%d: %v", week, teamID, err)
	}
}

func mustSetResult(t *testing.T, svc *ResultService, matchID int64, home, away int) {
	t.Helper()

	if _, err := svc.SetResult(context.Background(), SetResultInput{MatchID: matchID, HomeScore: home, AwayScore: away}); err != nil {
		t.Fatalf("set result match=%d: %v", matchID, err)
	}
}

func TestSeasonScenario_LoserLockAfterLostPick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := []match.Match{
		{ID: 1, Week: 1, HomeTeamID: memory.TeamBUF, AwayTeamID: memory.TeamMIA, KickoffAt: weekKickoff(1)},
		{ID: 2, Week: 5, HomeTeamID: memory.TeamNE, AwayTeamID: memory.TeamBUF, KickoffAt: weekKickoff(5)},
		{ID: 3, Week: 5, HomeTeamID: memory.TeamNYJ, AwayTeamID: memory.TeamMIA, KickoffAt: weekKickoff(5)},
	}
	h := newSeasonHarness(t, matches, nil, weekKickoff(1).Add(-time.Hour))

	mustSubmit(t, h.picks, memory.UserManuel, 1, 1, memory.TeamBUF)
	mustSetResult(t, h.results, 1, 17, 24)

	records, err := memory.NewUsageRepository(h.season).ListByUser(ctx, memory.UserManuel)
	if err != nil {
		t.Fatalf("list usage: %v", err)
	}
	if len(records) != 1 || records[0].TeamID != memory.TeamBUF || records[0].Type != usage.TypeLoser {
		t.Fatalf("expected one loser record for BUF, got %+v", records)
	}

	board, err := h.picks.WeekBoard(ctx, memory.UserManuel, 5)
	if err != nil {
		t.Fatalf("week board: %v", err)
	}
	if len(board.Unpickable) != 2 {
		t.Fatalf("expected BUF and NE to be unpickable, got %+v", board.Unpickable)
	}
	opponent := board.Unpickable[1]
	if opponent.TeamID != memory.TeamNE || opponent.Reasons[0].Code != pickem.ReasonOpponentOfLoser || opponent.Reasons[0].CauseTeamID != memory.TeamBUF {
		t.Fatalf("expected NE blocked as opponent of BUF, got %+v", opponent)
	}

	_, err = h.picks.SubmitPick(ctx, memory.UserManuel, SubmitPickInput{Week: 5, MatchID: 2, TeamID: memory.TeamBUF})
	if !errors.Is(err, ErrIneligibleTeam) || !errors.Is(err, pickem.ErrTeamUsedAsLoser) {
		t.Fatalf("expected loser lock rejection, got %v", err)
	}

	entries, err := h.leaderboard.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	for _, entry := range entries {
		if entry.Total() != 0 {
			t.Fatalf("expected no points after a lost pick, got %+v", entry)
		}
		if entry.Rank != 1 {
			t.Fatalf("expected everyone tied first, got %+v", entry)
		}
	}
}

func TestSeasonScenario_WinnerCapBlocksOpponentOnlyWhenScheduled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := []match.Match{
		{ID: 1, Week: 1, HomeTeamID: memory.TeamKC, AwayTeamID: memory.TeamDEN, KickoffAt: weekKickoff(1)},
		{ID: 2, Week: 3, HomeTeamID: memory.TeamLV, AwayTeamID: memory.TeamKC, KickoffAt: weekKickoff(3)},
		{ID: 3, Week: 4, HomeTeamID: memory.TeamDAL, AwayTeamID: memory.TeamNYG, KickoffAt: weekKickoff(4)},
		{ID: 4, Week: 5, HomeTeamID: memory.TeamKC, AwayTeamID: memory.TeamLAC, KickoffAt: weekKickoff(5)},
	}
	h := newSeasonHarness(t, matches, nil, weekKickoff(1).Add(-time.Hour))

	mustSubmit(t, h.picks, memory.UserDaniel, 1, 1, memory.TeamKC)
	mustSetResult(t, h.results, 1, 27, 20)
	h.setNow(weekKickoff(3).Add(-time.Hour))
	mustSubmit(t, h.picks, memory.UserDaniel, 3, 2, memory.TeamKC)
	mustSetResult(t, h.results, 2, 10, 31)

	week4, err := h.picks.WeekBoard(ctx, memory.UserDaniel, 4)
	if err != nil {
		t.Fatalf("week 4 board: %v", err)
	}
	if len(week4.Unpickable) != 0 {
		t.Fatalf("expected no blocked teams when KC is not scheduled, got %+v", week4.Unpickable)
	}

	week5, err := h.picks.WeekBoard(ctx, memory.UserDaniel, 5)
	if err != nil {
		t.Fatalf("week 5 board: %v", err)
	}
	if len(week5.Unpickable) != 2 {
		t.Fatalf("expected KC and LAC blocked, got %+v", week5.Unpickable)
	}
	for _, restriction := range week5.Unpickable {
		switch restriction.TeamID {
		case memory.TeamKC:
			if restriction.Summary() != "already used twice as winner" {
				t.Fatalf("unexpected KC reason: %q", restriction.Summary())
			}
		case memory.TeamLAC:
			if restriction.Summary() != "opponent of a team already at its 2x winner cap" {
				t.Fatalf("unexpected LAC reason: %q", restriction.Summary())
			}
		default:
			t.Fatalf("unexpected blocked team: %+v", restriction)
		}
	}

	_, err = h.picks.SubmitPick(ctx, memory.UserDaniel, SubmitPickInput{Week: 5, MatchID: 4, TeamID: memory.TeamKC})
	if !errors.Is(err, ErrIneligibleTeam) || !errors.Is(err, pickem.ErrTeamWinnerCapped) {
		t.Fatalf("expected winner cap rejection, got %v", err)
	}

	dash, err := h.dashboard.Get(ctx, memory.UserDaniel)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalPoints != 2 || dash.CorrectPicks != 2 || dash.GradedPicks != 2 || dash.Rank != 1 {
		t.Fatalf("unexpected dashboard totals: %+v", dash)
	}
	if len(dash.WinnerTeams) != 1 || dash.WinnerTeams[0].Team.Abbreviation != "KC" || dash.WinnerTeams[0].Count != 2 {
		t.Fatalf("unexpected winner teams: %+v", dash.WinnerTeams)
	}
	if dash.CurrentWeek != 4 || dash.HasCurrentPick {
		t.Fatalf("expected week 4 without a pick, got week=%d pick=%v", dash.CurrentWeek, dash.HasCurrentPick)
	}
}

func TestSeasonScenario_RegradingIsRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := []match.Match{
		{ID: 1, Week: 1, HomeTeamID: memory.TeamPHI, AwayTeamID: memory.TeamDAL, KickoffAt: weekKickoff(1)},
	}
	h := newSeasonHarness(t, matches, nil, weekKickoff(1).Add(-time.Hour))

	mustSubmit(t, h.picks, memory.UserRaff, 1, 1, memory.TeamPHI)
	mustSubmit(t, h.picks, memory.UserHaunschi, 1, 1, memory.TeamDAL)
	mustSetResult(t, h.results, 1, 24, 20)

	_, err := h.results.SetResult(ctx, SetResultInput{MatchID: 1, HomeScore: 24, AwayScore: 20})
	if !errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("expected ErrAlreadyGraded, got %v", err)
	}

	entries, err := h.leaderboard.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if entries[0].UserID != memory.UserRaff || entries[0].Total() != 1 || entries[0].Rank != 1 {
		t.Fatalf("expected Raff alone on top with one point, got %+v", entries[0])
	}
	for _, entry := range entries[1:] {
		if entry.Rank != 2 || entry.Total() != 0 {
			t.Fatalf("expected remaining users tied second, got %+v", entry)
		}
	}

	_, err = h.picks.SubmitPick(ctx, memory.UserManuel, SubmitPickInput{Week: 1, MatchID: 1, TeamID: memory.TeamPHI})
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected pick on graded match to be rejected, got %v", err)
	}

	audit, err := h.audit.Audit(ctx)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !audit.Consistent || len(audit.Users) != 4 {
		t.Fatalf("expected consistent ledger for 4 users, got %+v", audit)
	}
}

func TestSeasonScenario_ConcurrentGradingAppliesOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := []match.Match{
		{ID: 1, Week: 1, HomeTeamID: memory.TeamSF, AwayTeamID: memory.TeamSEA, KickoffAt: weekKickoff(1)},
	}
	h := newSeasonHarness(t, matches, nil, weekKickoff(1).Add(-time.Hour))
	mustSubmit(t, h.picks, memory.UserManuel, 1, 1, memory.TeamSF)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.results.SetResult(ctx, SetResultInput{MatchID: 1, HomeScore: 21, AwayScore: 14})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyGraded):
				rejected++
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || rejected != attempts-1 {
		t.Fatalf("expected one settlement, got succeeded=%d rejected=%d", succeeded, rejected)
	}

	entries, err := h.leaderboard.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if entries[0].UserID != memory.UserManuel || entries[0].Total() != 1 {
		t.Fatalf("expected exactly one point for Manuel, got %+v", entries[0])
	}
}

func TestSeasonScenario_HistoricalPicksSeedLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newSeasonHarness(t, memory.SeedMatches(), memory.SeedHistoricalPicks(), weekKickoff(1).Add(-24*time.Hour))

	_, err := h.picks.SubmitPick(ctx, memory.UserManuel, SubmitPickInput{Week: 3, MatchID: findMatch(t, h, 3, memory.TeamATL), TeamID: memory.TeamATL})
	if !errors.Is(err, ErrIneligibleTeam) {
		t.Fatalf("expected historical loser lock on ATL, got %v", err)
	}

	audit, err := h.audit.Audit(ctx)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !audit.Consistent {
		t.Fatalf("expected replayed history to match ledger, got %+v", audit)
	}
}

func TestSeasonScenario_AdvancePicksRespectUsageCaps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := []match.Match{
		{ID: 1, Week: 1, HomeTeamID: memory.TeamBUF, AwayTeamID: memory.TeamMIA, KickoffAt: weekKickoff(1)},
		{ID: 2, Week: 2, HomeTeamID: memory.TeamNYJ, AwayTeamID: memory.TeamBUF, KickoffAt: weekKickoff(2)},
		{ID: 3, Week: 3, HomeTeamID: memory.TeamBUF, AwayTeamID: memory.TeamNE, KickoffAt: weekKickoff(3)},
	}
	h := newSeasonHarness(t, matches, nil, weekKickoff(1).Add(-time.Hour))

	mustSubmit(t, h.picks, memory.UserManuel, 1, 1, memory.TeamBUF)
	for _, tc := range []struct {
		week    int
		matchID int64
	}{{week: 2, matchID: 2}, {week: 3, matchID: 3}} {
		_, err := h.picks.SubmitPick(ctx, memory.UserManuel, SubmitPickInput{Week: tc.week, MatchID: tc.matchID, TeamID: memory.TeamBUF})
		if !errors.Is(err, ErrIneligibleTeam) || !errors.Is(err, pickem.ErrTeamPickedElsewhere) {
			t.Fatalf("week %d: expected advance BUF pick to be rejected, got %v", tc.week, err)
		}
	}

	board, err := h.picks.WeekBoard(ctx, memory.UserManuel, 2)
	if err != nil {
		t.Fatalf("week 2 board: %v", err)
	}
	if len(board.Unpickable) != 1 || board.Unpickable[0].TeamID != memory.TeamBUF || board.Unpickable[0].Reasons[0].Code != pickem.ReasonPickedElsewhere {
		t.Fatalf("expected only BUF blocked by its week 1 pick, got %+v", board.Unpickable)
	}

	mustSubmit(t, h.picks, memory.UserManuel, 2, 2, memory.TeamNYJ)
	mustSubmit(t, h.picks, memory.UserManuel, 3, 3, memory.TeamNE)

	mustSetResult(t, h.results, 1, 30, 10)
	h.setNow(weekKickoff(2).Add(-time.Hour))

	// One winner use and no other pending BUF pick: week 2 may switch to BUF.
	mustSubmit(t, h.picks, memory.UserManuel, 2, 2, memory.TeamBUF)
	_, err = h.picks.SubmitPick(ctx, memory.UserManuel, SubmitPickInput{Week: 3, MatchID: 3, TeamID: memory.TeamBUF})
	if !errors.Is(err, pickem.ErrTeamPickedElsewhere) {
		t.Fatalf("expected week 3 BUF pick to be rejected while week 2 is pending, got %v", err)
	}

	mustSetResult(t, h.results, 2, 10, 30)
	h.setNow(weekKickoff(3).Add(-time.Hour))
	_, err = h.picks.SubmitPick(ctx, memory.UserManuel, SubmitPickInput{Week: 3, MatchID: 3, TeamID: memory.TeamBUF})
	if !errors.Is(err, pickem.ErrTeamWinnerCapped) {
		t.Fatalf("expected BUF to be capped after two wins, got %v", err)
	}

	third, _, err := memory.NewPickRepository(h.season).GetByUserAndWeek(ctx, memory.UserManuel, 3)
	if err != nil {
		t.Fatalf("get week 3 pick: %v", err)
	}
	if third.TeamID != memory.TeamNE {
		t.Fatalf("expected week 3 pick to stay on NE, got %+v", third)
	}

	assertUsageBounds(t, h)
	assertLedgerConsistent(t, h)
}

func TestSeasonScenario_LockedWeekPickCannotBeReplaced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := []match.Match{
		{ID: 1, Week: 1, HomeTeamID: memory.TeamPHI, AwayTeamID: memory.TeamDAL, KickoffAt: weekKickoff(1)},
		{ID: 2, Week: 1, HomeTeamID: memory.TeamKC, AwayTeamID: memory.TeamLAC, KickoffAt: weekKickoff(1).Add(4 * time.Hour)},
	}
	h := newSeasonHarness(t, matches, nil, weekKickoff(1).Add(-time.Hour))
	mustSubmit(t, h.picks, memory.UserManuel, 1, 1, memory.TeamPHI)

	h.setNow(weekKickoff(1).Add(time.Hour))
	_, err := h.picks.SubmitPick(ctx, memory.UserManuel, SubmitPickInput{Week: 1, MatchID: 2, TeamID: memory.TeamKC})
	if !errors.Is(err, ErrAlreadyStarted) || !errors.Is(err, pickem.ErrWeekPickLocked) {
		t.Fatalf("expected started week pick to stay locked, got %v", err)
	}

	mustSetResult(t, h.results, 1, 24, 20)
	_, err = h.picks.SubmitPick(ctx, memory.UserManuel, SubmitPickInput{Week: 1, MatchID: 2, TeamID: memory.TeamKC})
	if !errors.Is(err, ErrAlreadyStarted) || !errors.Is(err, pickem.ErrWeekPickLocked) {
		t.Fatalf("expected graded week pick to stay locked, got %v", err)
	}

	picks := memory.NewPickRepository(h.season)
	if _, err := picks.Upsert(ctx, pick.Pick{UserID: memory.UserManuel, Week: 1, MatchID: 2, TeamID: memory.TeamKC}); !errors.Is(err, pick.ErrMatchClosed) {
		t.Fatalf("expected store to refuse overwriting a graded pick, got %v", err)
	}

	// Users without a week pick can still take the late game.
	mustSubmit(t, h.picks, memory.UserRaff, 1, 2, memory.TeamKC)

	kept, _, err := picks.GetByUserAndWeek(ctx, memory.UserManuel, 1)
	if err != nil {
		t.Fatalf("get week pick: %v", err)
	}
	if kept.MatchID != 1 || kept.TeamID != memory.TeamPHI || kept.Outcome != pick.OutcomeCorrect {
		t.Fatalf("expected graded PHI pick to be kept, got %+v", kept)
	}

	mustSetResult(t, h.results, 2, 27, 21)
	entries, err := h.leaderboard.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	for _, entry := range entries {
		want := 0
		if entry.UserID == memory.UserManuel || entry.UserID == memory.UserRaff {
			want = 1
		}
		if entry.Total() != want {
			t.Fatalf("expected %d point(s) for user %d, got %+v", want, entry.UserID, entry)
		}
	}

	assertUsageBounds(t, h)
	assertLedgerConsistent(t, h)
}

func assertUsageBounds(t *testing.T, h *seasonHarness) {
	t.Helper()

	records, err := memory.NewUsageRepository(h.season).ListAll(context.Background())
	if err != nil {
		t.Fatalf("list usage: %v", err)
	}
	rules := pickem.DefaultRules()
	for userID, ledger := range usage.BuildLedgers(records) {
		for teamID, counts := range ledger {
			if counts.Winner > rules.WinnerCap || counts.Loser > rules.LoserCap {
				t.Fatalf("user %d team %d exceeds usage caps: %+v", userID, teamID, counts)
			}
		}
	}
}

func assertLedgerConsistent(t *testing.T, h *seasonHarness) {
	t.Helper()

	audit, err := h.audit.Audit(context.Background())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !audit.Consistent {
		t.Fatalf("expected ledger to match graded picks, got %+v", audit)
	}
}

func findMatch(t *testing.T, h *seasonHarness, week int, teamID int64) int64 {
	t.Helper()

	board, err := h.picks.WeekBoard(context.Background(), memory.UserManuel, week)
	if err != nil {
		t.Fatalf("week board: %v", err)
	}
	for _, item := range board.Matches {
		if item.Match.Involves(teamID) {
			return item.Match.ID
		}
	}
	t.Fatalf("team %d is not scheduled in week %d", teamID, week)
	return 0
}
