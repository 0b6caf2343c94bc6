package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
)

const defaultLedgerAuditWorkers = 4

type LedgerAuditEntry struct {
	UserID      int64
	Username    string
	GradedPicks int
	Records     int
	Mismatches  []usage.Mismatch
}

func (e LedgerAuditEntry) Consistent() bool {
	return len(e.Mismatches) == 0
}

type LedgerAudit struct {
	Users      []LedgerAuditEntry
	Consistent bool
}

// LedgerAuditService rebuilds every user's ledger from graded picks and compares it with
// the stored one.
type LedgerAuditService struct {
	userRepo    user.Repository
	historyRepo history.Repository
	pickRepo    pick.Repository
	usageRepo   usage.Repository
	workers     int
	logger      *logging.Logger
}

func NewLedgerAuditService(
	userRepo user.Repository,
	historyRepo history.Repository,
	pickRepo pick.Repository,
	usageRepo usage.Repository,
	workers int,
	logger *logging.Logger,
) *LedgerAuditService {
	if workers <= 0 {
		workers = defaultLedgerAuditWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LedgerAuditService{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		pickRepo:    pickRepo,
		usageRepo:   usageRepo,
		workers:     workers,
		logger:      logger,
	}
}

func (s *LedgerAuditService) Audit(ctx context.Context) (LedgerAudit, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerAuditService.Audit")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return LedgerAudit{}, fmt.Errorf("list users: %w", err)
	}
	historical, err := s.historyRepo.ListAll(ctx)
	if err != nil {
		return LedgerAudit{}, fmt.Errorf("list historical picks: %w", err)
	}
	season, err := s.pickRepo.ListAll(ctx)
	if err != nil {
		return LedgerAudit{}, fmt.Errorf("list picks: %w", err)
	}
	records, err := s.usageRepo.ListAll(ctx)
	if err != nil {
		return LedgerAudit{}, fmt.Errorf("list team usage: %w", err)
	}

	graded := make(map[int64][]pickem.GradedPick, len(users))
	for _, item := range pickem.GradedFromHistory(historical) {
		graded[item.UserID] = append(graded[item.UserID], item)
	}
	for _, item := range pickem.GradedFromSeason(season) {
		graded[item.UserID] = append(graded[item.UserID], item)
	}
	stored := make(map[int64][]usage.Record, len(users))
	for _, record := range records {
		stored[record.UserID] = append(stored[record.UserID], record)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return LedgerAudit{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	entries := make(chan LedgerAuditEntry, len(users))
	var workers sync.WaitGroup
	for _, u := range users {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			replayed := pickem.ReplayLedger(graded[u.ID])
			entries <- LedgerAuditEntry{
				UserID:      u.ID,
				Username:    u.Username,
				GradedPicks: len(graded[u.ID]),
				Records:     len(stored[u.ID]),
				Mismatches:  usage.Diff(usage.BuildLedger(replayed), usage.BuildLedger(stored[u.ID])),
			}
		}); err != nil {
			workers.Done()
			return LedgerAudit{}, fmt.Errorf("submit audit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(entries)

	out := LedgerAudit{Users: make([]LedgerAuditEntry, 0, len(users)), Consistent: true}
	for entry := range entries {
		if !entry.Consistent() {
			out.Consistent = false
			s.logger.WarnContext(ctx, "ledger mismatch",
				"user_id", entry.UserID,
				"mismatches", len(entry.Mismatches),
			)
		}
		out.Users = append(out.Users, entry)
	}
	sort.Slice(out.Users, func(i, j int) bool { return out.Users[i].UserID < out.Users[j].UserID })

	return out, nil
}
