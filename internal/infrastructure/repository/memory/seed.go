package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/history"
	"github.com/riskibarqy/nfl-pickem/internal/domain/match"
	"github.com/riskibarqy/nfl-pickem/internal/domain/team"
	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
)

// Team ids are stable and shared by the schedule and the historical picks.
const (
	TeamBUF int64 = iota + 1
	TeamMIA
	TeamNE
	TeamNYJ
	TeamBAL
	TeamCIN
	TeamCLE
	TeamPIT
	TeamHOU
	TeamIND
	TeamJAX
	TeamTEN
	TeamDEN
	TeamKC
	TeamLV
	TeamLAC
	TeamDAL
	TeamNYG
	TeamPHI
	TeamWAS
	TeamCHI
	TeamDET
	TeamGB
	TeamMIN
	TeamATL
	TeamCAR
	TeamNO
	TeamTB
	TeamARI
	TeamLAR
	TeamSF
	TeamSEA
)

const (
	UserManuel int64 = iota + 1
	UserDaniel
	UserRaff
	UserHaunschi
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamBUF, Name: "Buffalo Bills", Abbreviation: "BUF"},
		{ID: TeamMIA, Name: "Miami Dolphins", Abbreviation: "MIA"},
		{ID: TeamNE, Name: "New England Patriots", Abbreviation: "NE"},
		{ID: TeamNYJ, Name: "New York Jets", Abbreviation: "NYJ"},
		{ID: TeamBAL, Name: "Baltimore Ravens", Abbreviation: "BAL"},
		{ID: TeamCIN, Name: "Cincinnati Bengals", Abbreviation: "CIN"},
		{ID: TeamCLE, Name: "Cleveland Browns", Abbreviation: "CLE"},
		{ID: TeamPIT, Name: "Pittsburgh Steelers", Abbreviation: "PIT"},
		{ID: TeamHOU, Name: "Houston Texans", Abbreviation: "HOU"},
		{ID: TeamIND, Name: "Indianapolis Colts", Abbreviation: "IND"},
		{ID: TeamJAX, Name: "Jacksonville Jaguars", Abbreviation: "JAX"},
		{ID: TeamTEN, Name: "Tennessee Titans", Abbreviation: "TEN"},
		{ID: TeamDEN, Name: "Denver Broncos", Abbreviation: "DEN"},
		{ID: TeamKC, Name: "Kansas City Chiefs", Abbreviation: "KC"},
		{ID: TeamLV, Name: "Las Vegas Raiders", Abbreviation: "LV"},
		{ID: TeamLAC, Name: "Los Angeles Chargers", Abbreviation: "LAC"},
		{ID: TeamDAL, Name: "Dallas Cowboys", Abbreviation: "DAL"},
		{ID: TeamNYG, Name: "New York Giants", Abbreviation: "NYG"},
		{ID: TeamPHI, Name: "Philadelphia Eagles", Abbreviation: "PHI"},
		{ID: TeamWAS, Name: "Washington Commanders", Abbreviation: "WAS"},
		{ID: TeamCHI, Name: "Chicago Bears", Abbreviation: "CHI"},
		{ID: TeamDET, Name: "Detroit Lions", Abbreviation: "DET"},
		{ID: TeamGB, Name: "Green Bay Packers", Abbreviation: "GB"},
		{ID: TeamMIN, Name: "Minnesota Vikings", Abbreviation: "MIN"},
		{ID: TeamATL, Name: "Atlanta Falcons", Abbreviation: "ATL"},
		{ID: TeamCAR, Name: "Carolina Panthers", Abbreviation: "CAR"},
		{ID: TeamNO, Name: "New Orleans Saints", Abbreviation: "NO"},
		{ID: TeamTB, Name: "Tampa Bay Buccaneers", Abbreviation: "TB"},
		{ID: TeamARI, Name: "Arizona Cardinals", Abbreviation: "ARI"},
		{ID: TeamLAR, Name: "Los Angeles Rams", Abbreviation: "LAR"},
		{ID: TeamSF, Name: "San Francisco 49ers", Abbreviation: "SF"},
		{ID: TeamSEA, Name: "Seattle Seahawks", Abbreviation: "SEA"},
	}
}

// SeedUsers returns the group roster. Usernames in admins (case-insensitive) get admin rights.
func SeedUsers(admins []string) []user.User {
	adminSet := make(map[string]struct{}, len(admins))
	for _, name := range admins {
		adminSet[user.NormalizeUsername(name)] = struct{}{}
	}

	users := []user.User{
		{ID: UserManuel, Username: "Manuel"},
		{ID: UserDaniel, Username: "Daniel"},
		{ID: UserRaff, Username: "Raff"},
		{ID: UserHaunschi, Username: "Haunschi"},
	}
	for i := range users {
		_, users[i].IsAdmin = adminSet[user.NormalizeUsername(users[i].Username)]
	}
	return users
}

// US kickoff zones during the early season (daylight saving time).
var (
	zoneET  = time.FixedZone("EDT", -4*60*60)
	zoneCT  = time.FixedZone("CDT", -5*60*60)
	zoneMT  = time.FixedZone("MDT", -6*60*60)
	zonePT  = time.FixedZone("PDT", -7*60*60)
	zoneBRT = time.FixedZone("BRT", -3*60*60)
)

type scheduledGame struct {
	week    int
	away    int64
	home    int64
	kickoff string
	zone    *time.Location
}

var seasonSchedule = []scheduledGame{
	{1, TeamDAL, TeamPHI, "2025-09-05 20:20", zoneET},
	{1, TeamKC, TeamLAC, "2025-09-06 21:00", zoneBRT},
	{1, TeamCIN, TeamCLE, "2025-09-07 13:00", zoneET},
	{1, TeamLV, TeamNE, "2025-09-07 13:00", zoneET},
	{1, TeamNYG, TeamWAS, "2025-09-07 13:00", zoneET},
	{1, TeamTB, TeamATL, "2025-09-07 13:00", zoneET},
	{1, TeamMIA, TeamIND, "2025-09-07 13:00", zoneET},
	{1, TeamPIT, TeamNYJ, "2025-09-07 13:00", zoneET},
	{1, TeamCAR, TeamJAX, "2025-09-07 13:00", zoneET},
	{1, TeamARI, TeamNO, "2025-09-07 13:00", zoneCT},
	{1, TeamSF, TeamSEA, "2025-09-07 16:05", zonePT},
	{1, TeamTEN, TeamDEN, "2025-09-07 16:05", zoneMT},
	{1, TeamDET, TeamGB, "2025-09-07 16:25", zoneCT},
	{1, TeamHOU, TeamLAR, "2025-09-07 16:25", zonePT},
	{1, TeamBAL, TeamBUF, "2025-09-07 20:20", zoneET},
	{1, TeamMIN, TeamCHI, "2025-09-08 20:15", zoneCT},

	{2, TeamGB, TeamWAS, "2025-09-11 20:15", zoneCT},
	{2, TeamDAL, TeamNYG, "2025-09-14 13:00", zoneET},
	{2, TeamDET, TeamCHI, "2025-09-14 13:00", zoneCT},
	{2, TeamBAL, TeamCLE, "2025-09-14 13:00", zoneET},
	{2, TeamNYJ, TeamBUF, "2025-09-14 13:00", zoneET},
	{2, TeamPIT, TeamSEA, "2025-09-14 16:05", zonePT},
	{2, TeamCIN, TeamJAX, "2025-09-14 13:00", zoneET},

	{3, TeamMIA, TeamBUF, "2025-09-18 20:15", zoneET},
	{3, TeamATL, TeamCAR, "2025-09-21 13:00", zoneET},
	{3, TeamGB, TeamCLE, "2025-09-21 13:00", zoneET},
	{3, TeamHOU, TeamJAX, "2025-09-21 13:00", zoneET},
	{3, TeamCIN, TeamMIN, "2025-09-21 13:00", zoneCT},
	{3, TeamPIT, TeamNE, "2025-09-21 13:00", zoneET},
	{3, TeamLAR, TeamPHI, "2025-09-21 13:00", zoneET},
	{3, TeamNYJ, TeamTB, "2025-09-21 13:00", zoneET},
	{3, TeamIND, TeamTEN, "2025-09-21 13:00", zoneCT},
	{3, TeamLV, TeamWAS, "2025-09-21 13:00", zoneET},
	{3, TeamDEN, TeamLAC, "2025-09-21 16:05", zonePT},
	{3, TeamNO, TeamSEA, "2025-09-21 16:05", zonePT},
	{3, TeamDAL, TeamCHI, "2025-09-21 16:25", zoneCT},
	{3, TeamARI, TeamSF, "2025-09-21 16:25", zonePT},
	{3, TeamKC, TeamNYG, "2025-09-21 20:20", zoneET},
	{3, TeamDET, TeamBAL, "2025-09-22 20:15", zoneET},

	{4, TeamNE, TeamMIA, "2025-09-28 13:00", zoneET},
	{4, TeamBUF, TeamNYJ, "2025-09-28 13:00", zoneET},
	{4, TeamCLE, TeamPIT, "2025-09-28 13:00", zoneET},
	{4, TeamBAL, TeamCIN, "2025-09-28 13:00", zoneET},
}

// SeedMatches returns the season schedule with match ids assigned in listing order.
func SeedMatches() []match.Match {
	out := make([]match.Match, 0, len(seasonSchedule))
	for i, game := range seasonSchedule {
		kickoff, err := time.ParseInLocation("2006-01-02 15:04", game.kickoff, game.zone)
		if err != nil {
			panic(fmt.Sprintf("seed schedule row %d: %v", i, err))
		}
		out = append(out, match.Match{
			ID:         int64(i + 1),
			Week:       game.week,
			HomeTeamID: game.home,
			AwayTeamID: game.away,
			KickoffAt:  kickoff.UTC(),
		})
	}
	return out
}

// SeedHistoricalPicks returns picks made before the season was tracked here.
func SeedHistoricalPicks() []history.Pick {
	return []history.Pick{
		{UserID: UserManuel, Week: 1, TeamID: TeamATL, Correct: false},
		{UserID: UserManuel, Week: 2, TeamID: TeamDAL, Correct: true},
		{UserID: UserDaniel, Week: 1, TeamID: TeamDEN, Correct: true},
		{UserID: UserDaniel, Week: 2, TeamID: TeamPHI, Correct: true},
		{UserID: UserRaff, Week: 1, TeamID: TeamCIN, Correct: true},
		{UserID: UserRaff, Week: 2, TeamID: TeamDAL, Correct: true},
		{UserID: UserHaunschi, Week: 1, TeamID: TeamWAS, Correct: true},
		{UserID: UserHaunschi, Week: 2, TeamID: TeamBUF, Correct: true},
	}
}

// TeamByAbbreviation finds a seeded team, ignoring case.
func TeamByAbbreviation(abbreviation string) (team.Team, bool) {
	for _, item := range SeedTeams() {
		if strings.EqualFold(item.Abbreviation, strings.TrimSpace(abbreviation)) {
			return item, true
		}
	}
	return team.Team{}, false
}
