package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	historymock "github.com/riskibarqy/nfl-pickem/internal/mocks/domain/history"
	pickmock "github.com/riskibarqy/nfl-pickem/internal/mocks/domain/pick"
	usagemock "github.com/riskibarqy/nfl-pickem/internal/mocks/domain/usage"
	usermock "github.com/riskibarqy/nfl-pickem/internal/mocks/domain/user"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type auditMocks struct {
	users   *usermock.Repository
	history *historymock.Repository
	picks   *pickmock.Repository
	usage   *usagemock.Repository
}

func newLedgerAuditServiceWithMocks(t *testing.T) (*LedgerAuditService, auditMocks) {
	t.Helper()

	m := auditMocks{
		users:   usermock.NewRepository(t),
		history: historymock.NewRepository(t),
		picks:   pickmock.NewRepository(t),
		usage:   usagemock.NewRepository(t),
	}
	return NewLedgerAuditService(m.users, m.history, m.picks, m.usage, 2, logging.NewNop()), m
}

func TestLedgerAuditService_Audit(t *testing.T) {
	t.Parallel()

	svc, m := newLedgerAuditServiceWithMocks(t)
	m.users.On("List", mock.Anything).Return([]user.User{
		{ID: 2, Username: "Daniel"},
		{ID: 1, Username: "Manuel", IsAdmin: true},
		{ID: 3, Username: "Raff"},
	}, nil).Once()
	m.history.On("ListAll", mock.Anything).Return([]history.Pick{
		{UserID: 1, Week: 1, TeamID: teamX, Correct: false},
		{UserID: 2, Week: 1, TeamID: teamY, Correct: true},
	}, nil).Once()
	m.picks.On("ListAll", mock.Anything).Return([]pick.Pick{
		{ID: 10, UserID: 1, Week: 3, MatchID: 7, TeamID: teamY, Outcome: pick.OutcomeCorrect},
		{ID: 11, UserID: 2, Week: 3, MatchID: 7, TeamID: teamZ, Outcome: pick.OutcomeIncorrect},
		{ID: 12, UserID: 3, Week: 4, MatchID: 9, TeamID: teamX, Outcome: pick.OutcomePending},
	}, nil).Once()
	m.usage.On("ListAll", mock.Anything).Return([]usage.Record{
		{UserID: 1, TeamID: teamX, Type: usage.TypeLoser, Week: 1, Source: usage.SourceHistorical},
		{UserID: 1, TeamID: teamY, Type: usage.TypeWinner, Week: 3, MatchID: 7, Source: usage.SourceSeason},
		{UserID: 2, TeamID: teamY, Type: usage.TypeWinner, Week: 1, Source: usage.SourceHistorical},
		// Daniel's week 3 loss was never appended.
	}, nil).Once()

	got, err := svc.Audit(context.Background())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if got.Consistent {
		t.Fatalf("expected audit to report a mismatch")
	}
	if len(got.Users) != 3 || got.Users[0].UserID != 1 || got.Users[2].UserID != 3 {
		t.Fatalf("expected entries ordered by user id: %+v", got.Users)
	}

	manuel, daniel, raff := got.Users[0], got.Users[1], got.Users[2]
	if !manuel.Consistent() || manuel.GradedPicks != 2 || manuel.Records != 2 {
		t.Fatalf("unexpected entry for Manuel: %+v", manuel)
	}
	if raff.GradedPicks != 0 || !raff.Consistent() {
		t.Fatalf("pending picks must not be replayed: %+v", raff)
	}
	if len(daniel.Mismatches) != 1 {
		t.Fatalf("expected one mismatch for Daniel, got %+v", daniel.Mismatches)
	}
	mismatch := daniel.Mismatches[0]
	if mismatch.TeamID != teamZ || mismatch.Expected.Loser != 1 || mismatch.Actual.Loser != 0 {
		t.Fatalf("unexpected mismatch: %+v", mismatch)
	}
}

func TestLedgerAuditService_Audit_RepositoryError(t *testing.T) {
	t.Parallel()

	svc, m := newLedgerAuditServiceWithMocks(t)
	repoErr := errors.New("connection reset")
	m.users.On("List", mock.Anything).Return([]user.User{{ID: 1, Username: "Manuel"}}, nil).Once()
	m.history.On("ListAll", mock.Anything).Return(nil, repoErr).Once()

	if _, err := svc.Audit(context.Background()); !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
