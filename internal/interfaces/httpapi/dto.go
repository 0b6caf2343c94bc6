package httpapi

import (
	"fmt"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/pick"
	"github.com/riskibarqy/nfl-pickem/internal/domain/result"
	"github.com/riskibarqy/nfl-pickem/internal/domain/standing"
	"github.com/riskibarqy/nfl-pickem/internal/domain/team"
	"github.com/riskibarqy/nfl-pickem/internal/domain/usage"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	"github.com/riskibarqy/nfl-pickem/internal/usecase"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

type submitPickRequest struct {
	Week    int   `json:"week" validate:"required,gt=0"`
	MatchID int64 `json:"match_id" validate:"required,gt=0"`
	TeamID  int64 `json:"team_id" validate:"required,gt=0"`
}

// Scores are pointers so a missing field is rejected while a score of 0 is accepted.
type setResultRequest struct {
	HomeScore *int `json:"home_score" validate:"required,min=0"`
	AwayScore *int `json:"away_score" validate:"required,min=0"`
}

type principalDTO struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginDTO struct {
	Token string       `json:"token"`
	User  principalDTO `json:"user"`
}

type currentWeekDTO struct {
	Week int `json:"week"`
}

type weekDTO struct {
	Week           int    `json:"week"`
	Status         string `json:"status"`
	GamesCount     int    `json:"games_count"`
	CompletedGames int    `json:"completed_games"`
}

type weekListDTO struct {
	CurrentWeek int       `json:"current_week"`
	Weeks       []weekDTO `json:"weeks"`
}

type teamDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type kickoffDTO struct {
	UTC      string `json:"utc"`
	Local    string `json:"local"`
	Timezone string `json:"timezone"`
	Display  string `json:"display"`
}

type matchDTO struct {
	ID           int64      `json:"id"`
	Week         int        `json:"week"`
	HomeTeam     teamDTO    `json:"home_team"`
	AwayTeam     teamDTO    `json:"away_team"`
	Kickoff      kickoffDTO `json:"kickoff"`
	HasStarted   bool       `json:"has_started"`
	Completed    bool       `json:"completed"`
	HomeScore    *int       `json:"home_score"`
	AwayScore    *int       `json:"away_score"`
	WinnerTeamID *int64     `json:"winner_team_id"`
}

type pickDTO struct {
	ID      int64  `json:"id"`
	Week    int    `json:"week"`
	MatchID int64  `json:"match_id"`
	TeamID  int64  `json:"team_id"`
	Outcome string `json:"outcome"`
}

type reasonDTO struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	CauseTeamID int64  `json:"cause_team_id"`
}

type unpickableTeamDTO struct {
	TeamID       int64       `json:"team_id"`
	Abbreviation string      `json:"abbreviation"`
	Summary      string      `json:"summary"`
	Reasons      []reasonDTO `json:"reasons"`
}

type weekBoardDTO struct {
	Week       int                 `json:"week"`
	Matches    []matchDTO          `json:"matches"`
	Pick       *pickDTO            `json:"pick"`
	Unpickable []unpickableTeamDTO `json:"unpickable"`
}

type pickEntryDTO struct {
	Week    int     `json:"week"`
	MatchID int64   `json:"match_id,omitempty"`
	Team    teamDTO `json:"team"`
	Outcome string  `json:"outcome"`
	Source  string  `json:"source"`
}

type userPicksDTO struct {
	UserID   int64          `json:"user_id"`
	Username string         `json:"username"`
	Picks    []pickEntryDTO `json:"picks"`
}

type leaderboardEntryDTO struct {
	Rank             int    `json:"rank"`
	UserID           int64  `json:"user_id"`
	Username         string `json:"username"`
	TotalPoints      int    `json:"total_points"`
	HistoricalPoints int    `json:"historical_points"`
	SeasonPoints     int    `json:"season_points"`
	CorrectPicks     int    `json:"correct_picks"`
	GradedPicks      int    `json:"graded_picks"`
}

type teamUsageDTO struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
}

type dashboardDTO struct {
	UserID         int64          `json:"user_id"`
	Username       string         `json:"username"`
	CurrentWeek    int            `json:"current_week"`
	HasCurrentPick bool           `json:"has_current_pick"`
	TotalPoints    int            `json:"total_points"`
	Record         string         `json:"record"`
	Rank           int            `json:"rank"`
	WinnerTeams    []teamUsageDTO `json:"winner_teams"`
	LoserTeams     []teamUsageDTO `json:"loser_teams"`
}

type pendingMatchDTO struct {
	MatchID     int64      `json:"match_id"`
	Week        int        `json:"week"`
	Description string     `json:"description"`
	HomeTeam    teamDTO    `json:"home_team"`
	AwayTeam    teamDTO    `json:"away_team"`
	Kickoff     kickoffDTO `json:"kickoff"`
}

type gradeDTO struct {
	PickID  int64  `json:"pick_id"`
	UserID  int64  `json:"user_id"`
	TeamID  int64  `json:"team_id"`
	Outcome string `json:"outcome"`
}

type pointAwardDTO struct {
	UserID int64 `json:"user_id"`
	Points int   `json:"points"`
}

type settlementDTO struct {
	MatchID      int64           `json:"match_id"`
	HomeScore    int             `json:"home_score"`
	AwayScore    int             `json:"away_score"`
	WinnerTeamID *int64          `json:"winner_team_id"`
	Grades       []gradeDTO      `json:"grades"`
	Points       []pointAwardDTO `json:"points"`
}

type usageCountsDTO struct {
	Winner int `json:"winner"`
	Loser  int `json:"loser"`
}

type ledgerMismatchDTO struct {
	TeamID   int64          `json:"team_id"`
	Expected usageCountsDTO `json:"expected"`
	Actual   usageCountsDTO `json:"actual"`
}

type ledgerAuditEntryDTO struct {
	UserID      int64               `json:"user_id"`
	Username    string              `json:"username"`
	GradedPicks int                 `json:"graded_picks"`
	Records     int                 `json:"records"`
	Consistent  bool                `json:"consistent"`
	Mismatches  []ledgerMismatchDTO `json:"mismatches"`
}

type ledgerAuditDTO struct {
	Consistent bool                  `json:"consistent"`
	Users      []ledgerAuditEntryDTO `json:"users"`
}

func principalToDTO(p user.Principal) principalDTO {
	return principalDTO{UserID: p.UserID, Username: p.Username, IsAdmin: p.IsAdmin}
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{ID: t.ID, Name: t.Name, Abbreviation: t.Abbreviation}
}

func kickoffToDTO(at time.Time, location *time.Location) kickoffDTO {
	local := at.In(location)
	return kickoffDTO{
		UTC:      at.UTC().Format(time.RFC3339),
		Local:    local.Format(time.RFC3339),
		Timezone: location.String(),
		Display:  local.Format("Mon 02.01. 15:04"),
	}
}

func pickToDTO(p pick.Pick) pickDTO {
	return pickDTO{
		ID:      p.ID,
		Week:    p.Week,
		MatchID: p.MatchID,
		TeamID:  p.TeamID,
		Outcome: string(p.Outcome),
	}
}

func weekBoardToDTO(board usecase.WeekBoard, location *time.Location) weekBoardDTO {
	abbreviations := make(map[int64]string, 2*len(board.Matches))
	out := weekBoardDTO{
		Week:       board.Week,
		Matches:    make([]matchDTO, 0, len(board.Matches)),
		Unpickable: make([]unpickableTeamDTO, 0, len(board.Unpickable)),
	}
	for _, item := range board.Matches {
		abbreviations[item.HomeTeam.ID] = item.HomeTeam.Abbreviation
		abbreviations[item.AwayTeam.ID] = item.AwayTeam.Abbreviation
		out.Matches = append(out.Matches, matchDTO{
			ID:           item.Match.ID,
			Week:         item.Match.Week,
			HomeTeam:     teamToDTO(item.HomeTeam),
			AwayTeam:     teamToDTO(item.AwayTeam),
			Kickoff:      kickoffToDTO(item.Match.KickoffAt, location),
			HasStarted:   item.HasStarted,
			Completed:    item.Match.Completed,
			HomeScore:    item.Match.HomeScore,
			AwayScore:    item.Match.AwayScore,
			WinnerTeamID: item.Match.WinnerTeamID,
		})
	}
	if board.Pick != nil {
		current := pickToDTO(*board.Pick)
		out.Pick = &current
	}
	for _, restriction := range board.Unpickable {
		reasons := make([]reasonDTO, 0, len(restriction.Reasons))
		for _, reason := range restriction.Reasons {
			reasons = append(reasons, reasonDTO{
				Code:        string(reason.Code),
				Message:     reason.Message,
				CauseTeamID: reason.CauseTeamID,
			})
		}
		out.Unpickable = append(out.Unpickable, unpickableTeamDTO{
			TeamID:       restriction.TeamID,
			Abbreviation: abbreviations[restriction.TeamID],
			Summary:      restriction.Summary(),
			Reasons:      reasons,
		})
	}
	return out
}

func userPicksToDTO(group usecase.UserPicks) userPicksDTO {
	picks := make([]pickEntryDTO, 0, len(group.Picks))
	for _, entry := range group.Picks {
		picks = append(picks, pickEntryDTO{
			Week:    entry.Week,
			MatchID: entry.MatchID,
			Team:    teamToDTO(entry.Team),
			Outcome: string(entry.Outcome),
			Source:  string(entry.Source),
		})
	}
	return userPicksDTO{UserID: group.UserID, Username: group.Username, Picks: picks}
}

func leaderboardEntryToDTO(entry standing.Entry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:             entry.Rank,
		UserID:           entry.UserID,
		Username:         entry.Username,
		TotalPoints:      entry.Total(),
		HistoricalPoints: entry.HistoricalPoints,
		SeasonPoints:     entry.SeasonPoints,
		CorrectPicks:     entry.CorrectPicks,
		GradedPicks:      entry.GradedPicks,
	}
}

func teamUsageToDTO(items []usecase.TeamUsage) []teamUsageDTO {
	out := make([]teamUsageDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamUsageDTO{
			Abbreviation: item.Team.Abbreviation,
			Name:         item.Team.Name,
			Count:        item.Count,
		})
	}
	return out
}

func dashboardToDTO(d usecase.Dashboard) dashboardDTO {
	return dashboardDTO{
		UserID:         d.UserID,
		Username:       d.Username,
		CurrentWeek:    d.CurrentWeek,
		HasCurrentPick: d.HasCurrentPick,
		TotalPoints:    d.TotalPoints,
		Record:         fmt.Sprintf("%d/%d", d.CorrectPicks, d.GradedPicks),
		Rank:           d.Rank,
		WinnerTeams:    teamUsageToDTO(d.WinnerTeams),
		LoserTeams:     teamUsageToDTO(d.LoserTeams),
	}
}

func pendingMatchToDTO(item usecase.PendingMatch, location *time.Location) pendingMatchDTO {
	return pendingMatchDTO{
		MatchID:     item.Match.ID,
		Week:        item.Match.Week,
		Description: item.Description,
		HomeTeam:    teamToDTO(item.HomeTeam),
		AwayTeam:    teamToDTO(item.AwayTeam),
		Kickoff:     kickoffToDTO(item.Match.KickoffAt, location),
	}
}

func settlementToDTO(s result.Settlement) settlementDTO {
	out := settlementDTO{
		MatchID:      s.MatchID,
		HomeScore:    s.HomeScore,
		AwayScore:    s.AwayScore,
		WinnerTeamID: s.WinnerTeamID,
		Grades:       make([]gradeDTO, 0, len(s.Grades)),
		Points:       make([]pointAwardDTO, 0, len(s.Points)),
	}
	for _, grade := range s.Grades {
		out.Grades = append(out.Grades, gradeDTO{
			PickID:  grade.PickID,
			UserID:  grade.UserID,
			TeamID:  grade.TeamID,
			Outcome: string(grade.Outcome),
		})
	}
	for _, award := range s.Points {
		out.Points = append(out.Points, pointAwardDTO{UserID: award.UserID, Points: award.Points})
	}
	return out
}

func countsToDTO(c usage.Counts) usageCountsDTO {
	return usageCountsDTO{Winner: c.Winner, Loser: c.Loser}
}

func ledgerAuditToDTO(audit usecase.LedgerAudit) ledgerAuditDTO {
	out := ledgerAuditDTO{
		Consistent: audit.Consistent,
		Users:      make([]ledgerAuditEntryDTO, 0, len(audit.Users)),
	}
	for _, entry := range audit.Users {
		mismatches := make([]ledgerMismatchDTO, 0, len(entry.Mismatches))
		for _, m := range entry.Mismatches {
			mismatches = append(mismatches, ledgerMismatchDTO{
				TeamID:   m.TeamID,
				Expected: countsToDTO(m.Expected),
				Actual:   countsToDTO(m.Actual),
			})
		}
		out.Users = append(out.Users, ledgerAuditEntryDTO{
			UserID:      entry.UserID,
			Username:    entry.Username,
			GradedPicks: entry.GradedPicks,
			Records:     entry.Records,
			Consistent:  entry.Consistent(),
			Mismatches:  mismatches,
		})
	}
	return out
}
