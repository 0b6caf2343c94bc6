package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pickem"
	"github.com/riskibarqy/nfl-pickem/internal/domain/result"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
	"github.com/riskibarqy/nfl-pickem/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

type SetResultInput struct {
	MatchID   int64
	HomeScore int
	AwayScore int
}

type ResultService struct {
	resultRepo result.Repository
	rules      pickem.Rules
	locks      *resilience.KeyedMutex
	logger     *logging.Logger
}

func NewResultService(resultRepo result.Repository, rules pickem.Rules, logger *logging.Logger) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResultService{
		resultRepo: resultRepo,
		rules:      rules,
		locks:      &resilience.KeyedMutex{},
		logger:     logger,
	}
}

// SetResult records a final score and grades every pick of the match in one settlement.
// A match can be graded only once.
func (s *ResultService) SetResult(ctx context.Context, input SetResultInput) (result.Settlement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.SetResult", attribute.Int64("match_id", input.MatchID))
	defer span.End()

	if input.MatchID <= 0 {
		return result.Settlement{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return result.Settlement{}, fmt.Errorf("%w: %w", ErrInvalidInput, pickem.ErrNegativeScore)
	}

	unlock := s.locks.Lock(strconv.FormatInt(input.MatchID, 10))
	defer unlock()

	settlement, err := s.resultRepo.Settle(ctx, input.MatchID, func(current match.Match, picks []pick.Pick) (result.Settlement, error) {
		return s.rules.Settle(current, input.HomeScore, input.AwayScore, picks)
	})
	if err != nil {
		switch {
		case errors.Is(err, result.ErrMatchNotFound):
			return result.Settlement{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		case errors.Is(err, pickem.ErrResultAlreadySet):
			return result.Settlement{}, fmt.Errorf("%w: %w", ErrAlreadyGraded, err)
		case errors.Is(err, pickem.ErrNegativeScore):
			return result.Settlement{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		default:
			return result.Settlement{}, fmt.Errorf("%w: settle match %d: %w", ErrDependencyUnavailable, input.MatchID, err)
		}
	}

	s.logger.InfoContext(ctx, "match result recorded",
		"match_id", settlement.MatchID,
		"home_score", settlement.HomeScore,
		"away_score", settlement.AwayScore,
		"graded_picks", len(settlement.Grades),
	)
	return settlement, nil
}
