package pickem

import (
	"fmt"
	"slices"

	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/result"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
)

// DetermineWinner returns the team with the strictly higher score. Ties have no winner.
func DetermineWinner(m match.Match, homeScore, awayScore int) (int64, bool) {
	switch {
	case homeScore > awayScore:
		return m.HomeTeamID, true
	case awayScore > homeScore:
		return m.AwayTeamID, true
	default:
		return 0, false
	}
}

// Settle grades every pick of a match against its final score. A pick is correct only when
// its team won; on a tie every pick is incorrect. Each graded pick yields one usage record
// and every correct pick is worth one point.
func (r Rules) Settle(current match.Match, homeScore, awayScore int, picks []pick.Pick) (result.Settlement, error) {
	if homeScore < 0 || awayScore < 0 {
		return result.Settlement{}, fmt.Errorf("%w: home=%d away=%d", ErrNegativeScore, homeScore, awayScore)
	}
	if current.Completed {
		return result.Settlement{}, fmt.Errorf("%w: match=%d", ErrResultAlreadySet, current.ID)
	}

	settlement := result.Settlement{
		MatchID:   current.ID,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Grades:    make([]result.Grade, 0, len(picks)),
		Usage:     make([]usage.Record, 0, len(picks)),
	}

	winnerID, hasWinner := DetermineWinner(current, homeScore, awayScore)
	if hasWinner {
		settlement.WinnerTeamID = &winnerID
	}

	points := make(map[int64]int)
	for _, item := range picks {
		if item.MatchID != current.ID {
			continue
		}

		correct := hasWinner && item.TeamID == winnerID
		grade := result.Grade{
			PickID:  item.ID,
			UserID:  item.UserID,
			TeamID:  item.TeamID,
			Outcome: pick.OutcomeIncorrect,
		}
		record := usage.Record{
			UserID:  item.UserID,
			TeamID:  item.TeamID,
			Type:    usage.TypeLoser,
			Week:    item.Week,
			MatchID: current.ID,
			Source:  usage.SourceSeason,
		}
		if correct {
			grade.Outcome = pick.OutcomeCorrect
			record.Type = usage.TypeWinner
			points[item.UserID]++
		}

		settlement.Grades = append(settlement.Grades, grade)
		settlement.Usage = append(settlement.Usage, record)
	}

	userIDs := make([]int64, 0, len(points))
	for userID := range points {
		userIDs = append(userIDs, userID)
	}
	slices.Sort(userIDs)
	settlement.Points = make([]result.PointAward, 0, len(userIDs))
	for _, userID := range userIDs {
		settlement.Points = append(settlement.Points, result.PointAward{UserID: userID, Points: points[userID]})
	}

	return settlement, nil
}
