package pick

import (
	"errors"
	"fmt"
	"time"
)

type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// ErrMatchClosed is returned by Upsert when the match was graded before the pick landed or
// the week pick it would replace is already locked.
var ErrMatchClosed = errors.New("match closed for picks")

// Pick is a user's chosen winner for one week. A user holds at most one pick per week.
type Pick struct {
	ID        int64
	UserID    int64
	Week      int
	MatchID   int64
	TeamID    int64
	Outcome   Outcome
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pick) Validate() error {
	if p.UserID <= 0 {
		return fmt.Errorf("pick user id must be > 0")
	}
	if p.Week <= 0 {
		return fmt.Errorf("pick week must be > 0")
	}
	if p.MatchID <= 0 {
		return fmt.Errorf("pick match id must be > 0")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("pick team id must be > 0")
	}
	return nil
}

func (p Pick) IsGraded() bool {
	return p.Outcome == OutcomeCorrect || p.Outcome == OutcomeIncorrect
}
