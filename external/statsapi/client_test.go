package statsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pickemhq/pickem/internal/platform/logging"
)

const scheduleFixture = `{
  "dates": [
    {
      "date": "2025-07-11",
      "games": [
        {
          "gamePk": 745101,
          "gameDate": "2025-07-11T23:10:00Z",
          "officialDate": "2025-07-11",
          "status": {"abstractGameState": "Preview", "detailedState": "Scheduled"},
          "teams": {
            "home": {"team": {"id": 111, "name": "Boston Red Sox"}},
            "away": {"team": {"id": 147, "name": "New York Yankees"}}
          },
          "venue": {"name": "Fenway Park"}
        },
        {
          "gamePk": 745001,
          "gameDate": "2025-07-10T23:10:00Z",
          "officialDate": "2025-07-10",
          "status": {"abstractGameState": "Final", "detailedState": "Final"},
          "teams": {
            "home": {"team": {"id": 111, "name": "Boston Red Sox"}, "score": 3, "isWinner": false},
            "away": {"team": {"id": 147, "name": "New York Yankees"}, "score": 7, "isWinner": true}
          },
          "venue": {"name": "Fenway Park"}
        },
        {
          "gamePk": 0,
          "gameDate": "2025-07-11T20:00:00Z",
          "teams": {
            "home": {"team": {"id": 112}},
            "away": {"team": {"id": 121}}
          }
        }
      ]
    }
  ]
}`

const teamsFixture = `{
  "teams": [
    {"id": 147, "name": "New York Yankees", "teamName": "Yankees", "locationName": "New York", "abbreviation": "nyy", "active": true},
    {"id": 0, "name": "Broken Row"},
    {"id": 111, "name": "Boston Red Sox", "teamName": "Red Sox", "locationName": "Boston", "abbreviation": "BOS", "active": true}
  ]
}`

func newFixtureServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
	})
}

func TestFetchTeams_MapsProviderRows(t *testing.T) {
	t.Parallel()

	client := newFixtureServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("sportId"); got != "1" {
			t.Errorf("expected sportId=1, got %q", got)
		}
		_, _ = w.Write([]byte(teamsFixture))
	})

	teams, err := client.FetchTeams(context.Background())
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}

	if len(teams) != 2 {
		t.Fatalf("expected 2 teams after dropping invalid rows, got=%d", len(teams))
	}
	yankees := teams[0]
	if yankees.ID != 147 || yankees.Nick != "Yankees" || yankees.City != "New York" {
		t.Fatalf("unexpected team mapping: %+v", yankees)
	}
	if yankees.Abbr != "NYY" {
		t.Fatalf("expected uppercased abbr NYY, got %q", yankees.Abbr)
	}
	if yankees.Logo != "https://www.mlbstatic.com/team-logos/147.svg" {
		t.Fatalf("unexpected logo url %q", yankees.Logo)
	}
}

func TestFetchSchedule_MapsGamesAndWinners(t *testing.T) {
	t.Parallel()

	client := newFixtureServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedule" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2025-07-11" {
			t.Errorf("expected date=2025-07-11, got %q", got)
		}
		_, _ = w.Write([]byte(scheduleFixture))
	})

	games, err := client.FetchSchedule(context.Background(), time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}

	if len(games) != 2 {
		t.Fatalf("expected 2 games after dropping the zero-id row, got=%d", len(games))
	}

	upcoming := games[0]
	if upcoming.ID != 745101 || upcoming.Finished {
		t.Fatalf("unexpected upcoming game: %+v", upcoming)
	}
	if upcoming.HomeTeamID != 111 || upcoming.AwayTeamID != 147 {
		t.Fatalf("unexpected participants: home=%d away=%d", upcoming.HomeTeamID, upcoming.AwayTeamID)
	}
	if !upcoming.StartTimeUTC.Equal(time.Date(2025, 7, 11, 23, 10, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time %v", upcoming.StartTimeUTC)
	}
	if !upcoming.Date.Equal(time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected official date 2025-07-11, got %v", upcoming.Date)
	}
	if upcoming.WinnerTeamID != nil {
		t.Fatalf("expected no winner on an unfinished game, got=%v", *upcoming.WinnerTeamID)
	}

	finished := games[1]
	if !finished.Finished {
		t.Fatalf("expected finished game, got %+v", finished)
	}
	if finished.WinnerTeamID == nil || *finished.WinnerTeamID != 147 {
		t.Fatalf("expected winner 147, got %v", finished.WinnerTeamID)
	}
	if finished.HomeScore == nil || *finished.HomeScore != 3 {
		t.Fatalf("expected home score 3, got %v", finished.HomeScore)
	}
}

func TestFetchSchedule_FallsBackToScoresForWinner(t *testing.T) {
	t.Parallel()

	seven := 7
	three := 3
	mapped, ok := mapScheduleGame(scheduleGame{
		GamePk:   99,
		GameDate: "2025-07-10T23:10:00Z",
		Status:   gameStatus{AbstractGameState: "Final"},
		Teams: scheduleTeams{
			Home: scheduleTeamSide{Team: scheduleTeamRef{ID: 119}, Score: &seven},
			Away: scheduleTeamSide{Team: scheduleTeamRef{ID: 137}, Score: &three},
		},
	})
	if !ok {
		t.Fatalf("expected game to map")
	}
	if mapped.WinnerTeamID == nil || *mapped.WinnerTeamID != 119 {
		t.Fatalf("expected winner inferred from scores, got %v", mapped.WinnerTeamID)
	}
}

func TestFetchSchedule_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls int
	client := newFixtureServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})
	client.maxRetries = 3

	_, err := client.FetchSchedule(context.Background(), time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatalf("expected error on provider 404")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt on a non-retryable status, got=%d", calls)
	}
}
