package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/result"
	resultmock "github.com/riskibarqy/nfl-pickem/internal/mocks/domain/result"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

// settleWith makes the mock repository run the settle callback against a fixed match state.
func settleWith(current match.Match, picks []pick.Pick) func(context.Context, int64, result.SettleFunc) (result.Settlement, error) {
	return func(_ context.Context, matchID int64, fn result.SettleFunc) (result.Settlement, error) {
		if current.ID != matchID {
			return result.Settlement{}, result.ErrMatchNotFound
		}
		return fn(current, picks)
	}
}

func TestResultService_SetResult_GradesPicks(t *testing.T) {
	t.Parallel()

	repo := resultmock.NewRepository(t)
	svc := NewResultService(repo, pickem.DefaultRules(), logging.NewNop())

	picks := []pick.Pick{
		{ID: 1, UserID: 1, Week: 1, MatchID: 7, TeamID: teamX},
		{ID: 2, UserID: 2, Week: 1, MatchID: 7, TeamID: teamY},
	}
	repo.On("Settle", mock.Anything, int64(7), mock.Anything).
		Return(settleWith(weekOneMatch(), picks), nil).Once()

	got, err := svc.SetResult(context.Background(), SetResultInput{MatchID: 7, HomeScore: 17, AwayScore: 24})
	if err != nil {
		t.Fatalf("set result: %v", err)
	}
	if got.WinnerTeamID == nil || *got.WinnerTeamID != teamY {
		t.Fatalf("expected away team to win, got %+v", got.WinnerTeamID)
	}
	if len(got.Grades) != 2 || got.Grades[0].Outcome != pick.OutcomeIncorrect || got.Grades[1].Outcome != pick.OutcomeCorrect {
		t.Fatalf("unexpected grades: %+v", got.Grades)
	}
	if len(got.Points) != 1 || got.Points[0].UserID != 2 || got.Points[0].Points != 1 {
		t.Fatalf("unexpected points: %+v", got.Points)
	}
}

func TestResultService_SetResult_Errors(t *testing.T) {
	t.Parallel()

	completed := weekOneMatch()
	completed.Completed = true

	tests := []struct {
		name    string
		input   SetResultInput
		current match.Match
		callsDB bool
		wantErr error
	}{
		{
			name:    "missing match id",
			input:   SetResultInput{HomeScore: 1, AwayScore: 0},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative score",
			input:   SetResultInput{MatchID: 7, HomeScore: -1, AwayScore: 0},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown match",
			input:   SetResultInput{MatchID: 99, HomeScore: 1, AwayScore: 0},
			current: weekOneMatch(),
			callsDB: true,
			wantErr: ErrNotFound,
		},
		{
			name:    "already graded",
			input:   SetResultInput{MatchID: 7, HomeScore: 1, AwayScore: 0},
			current: completed,
			callsDB: true,
			wantErr: ErrAlreadyGraded,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := resultmock.NewRepository(t)
			svc := NewResultService(repo, pickem.DefaultRules(), logging.NewNop())
			if tc.callsDB {
				repo.On("Settle", mock.Anything, tc.input.MatchID, mock.Anything).
					Return(settleWith(tc.current, nil), nil).Once()
			}

			_, err := svc.SetResult(context.Background(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestResultService_SetResult_StoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")
	repo := resultmock.NewRepository(t)
	svc := NewResultService(repo, pickem.DefaultRules(), logging.NewNop())
	repo.On("Settle", mock.Anything, int64(7), mock.Anything).Return(result.Settlement{}, storeErr).Once()

	_, err := svc.SetResult(context.Background(), SetResultInput{MatchID: 7, HomeScore: 3, AwayScore: 0})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error in chain, got %v", err)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("store failure must not map to a user error, got %v", err)
	}
}
