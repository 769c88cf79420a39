package memory

import (
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/team"
)

const (
	TeamIDYankees = 147
	TeamIDRedSox  = 111
	TeamIDDodgers = 119
	TeamIDGiants  = 137
	TeamIDCubs    = 112
	TeamIDMets    = 121
	TeamIDBraves  = 144
	TeamIDAstros  = 117
)

var (
	SeedDatePlayed   = time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	SeedDateUpcoming = time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDYankees, Name: "New York Yankees", City: "New York", Nick: "Yankees", Abbr: "NYY", Logo: "https://www.mlbstatic.com/team-logos/147.svg"},
		{ID: TeamIDRedSox, Name: "Boston Red Sox", City: "Boston", Nick: "Red Sox", Abbr: "BOS", Logo: "https://www.mlbstatic.com/team-logos/111.svg"},
		{ID: TeamIDDodgers, Name: "Los Angeles Dodgers", City: "Los Angeles", Nick: "Dodgers", Abbr: "LAD", Logo: "https://www.mlbstatic.com/team-logos/119.svg"},
		{ID: TeamIDGiants, Name: "San Francisco Giants", City: "San Francisco", Nick: "Giants", Abbr: "SF", Logo: "https://www.mlbstatic.com/team-logos/137.svg"},
		{ID: TeamIDCubs, Name: "Chicago Cubs", City: "Chicago", Nick: "Cubs", Abbr: "CHC", Logo: "https://www.mlbstatic.com/team-logos/112.svg"},
		{ID: TeamIDMets, Name: "New York Mets", City: "New York", Nick: "Mets", Abbr: "NYM", Logo: "https://www.mlbstatic.com/team-logos/121.svg"},
		{ID: TeamIDBraves, Name: "Atlanta Braves", City: "Atlanta", Nick: "Braves", Abbr: "ATL", Logo: "https://www.mlbstatic.com/team-logos/144.svg"},
		{ID: TeamIDAstros, Name: "Houston Astros", City: "Houston", Nick: "Astros", Abbr: "HOU", Logo: "https://www.mlbstatic.com/team-logos/117.svg"},
	}
}

func SeedGames() []game.Game {
	yankees := TeamIDYankees
	giants := TeamIDGiants
	two := 2
	three := 3
	five := 5
	seven := 7

	return []game.Game{
		{
			ID:           745001,
			HomeTeamID:   TeamIDRedSox,
			AwayTeamID:   TeamIDYankees,
			HomeName:     "Boston Red Sox",
			AwayName:     "New York Yankees",
			Date:         SeedDatePlayed,
			StartTimeUTC: SeedDatePlayed.Add(23 * time.Hour),
			Venue:        "Fenway Park",
			Finished:     true,
			WinnerTeamID: &yankees,
			HomeScore:    &three,
			AwayScore:    &seven,
		},
		{
			ID:           745002,
			HomeTeamID:   TeamIDDodgers,
			AwayTeamID:   TeamIDGiants,
			HomeName:     "Los Angeles Dodgers",
			AwayName:     "San Francisco Giants",
			Date:         SeedDatePlayed,
			StartTimeUTC: SeedDatePlayed.Add(26 * time.Hour),
			Venue:        "Dodger Stadium",
			Finished:     true,
			WinnerTeamID: &giants,
			HomeScore:    &two,
			AwayScore:    &five,
		},
		{
			ID:           745101,
			HomeTeamID:   TeamIDRedSox,
			AwayTeamID:   TeamIDYankees,
			HomeName:     "Boston Red Sox",
			AwayName:     "New York Yankees",
			Date:         SeedDateUpcoming,
			StartTimeUTC: SeedDateUpcoming.Add(23 * time.Hour),
			Venue:        "Fenway Park",
			IsMarquee:    true,
		},
		{
			ID:           745102,
			HomeTeamID:   TeamIDDodgers,
			AwayTeamID:   TeamIDGiants,
			HomeName:     "Los Angeles Dodgers",
			AwayName:     "San Francisco Giants",
			Date:         SeedDateUpcoming,
			StartTimeUTC: SeedDateUpcoming.Add(26 * time.Hour),
			Venue:        "Dodger Stadium",
		},
		{
			ID:           745103,
			HomeTeamID:   TeamIDCubs,
			AwayTeamID:   TeamIDMets,
			HomeName:     "Chicago Cubs",
			AwayName:     "New York Mets",
			Date:         SeedDateUpcoming,
			StartTimeUTC: SeedDateUpcoming.Add(18 * time.Hour),
			Venue:        "Wrigley Field",
		},
		{
			ID:           745104,
			HomeTeamID:   TeamIDBraves,
			AwayTeamID:   TeamIDAstros,
			HomeName:     "Atlanta Braves",
			AwayName:     "Houston Astros",
			Date:         SeedDateUpcoming,
			StartTimeUTC: SeedDateUpcoming.Add(23*time.Hour + 20*time.Minute),
			Venue:        "Truist Park",
		},
		{
			ID:           745105,
			HomeTeamID:   TeamIDCubs,
			AwayTeamID:   TeamIDMets,
			HomeName:     "Chicago Cubs",
			AwayName:     "New York Mets",
			Date:         SeedDateUpcoming.AddDate(0, 0, 1),
			StartTimeUTC: SeedDateUpcoming.AddDate(0, 0, 1).Add(20 * time.Hour),
			Venue:        "Wrigley Field",
			IsMarquee:    true,
		},
	}
}
