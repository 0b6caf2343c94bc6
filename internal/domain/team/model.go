package team

import (
	"fmt"
	"strings"
)

// Team is an NFL franchise. Teams are reference data loaded once at startup.
type Team struct {
	ID           int64
	Name         string
	Abbreviation string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be > 0")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.Abbreviation) == "" {
		return fmt.Errorf("team abbreviation is required")
	}

	return nil
}

// Index maps team id to team.
func Index(items []Team) map[int64]Team {
	out := make(map[int64]Team, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}
