package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/pickemhq/pickem/internal/domain/user"
	"github.com/pickemhq/pickem/internal/infrastructure/repository/memory"
	"github.com/pickemhq/pickem/internal/platform/id"
	"github.com/pickemhq/pickem/internal/platform/logging"
	"github.com/pickemhq/pickem/internal/usecase"
)

type staticVerifier struct {
	userID string
}

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != "valid-token" {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: v.userID, Email: v.userID + "@example.com"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	gameRepo := memory.NewGameRepository(memory.SeedGames())
	pickRepo := memory.NewPickRepository(gameRepo)
	sessionRepo := memory.NewSessionRepository(pickRepo)
	userRepo := memory.NewUserRepository()

	sessionService := usecase.NewSessionService(gameRepo, sessionRepo, userRepo, id.NewRandomGenerator())
	pickService := usecase.NewPickService(gameRepo, pickRepo, sessionRepo)
	statsService := usecase.NewStatsService(gameRepo, pickRepo)
	gameService := usecase.NewGameService(gameRepo, teamRepo)
	userService := usecase.NewUserService(userRepo, teamRepo)
	maintenanceService := usecase.NewMaintenanceService(gameRepo, pickRepo)

	handler := NewHandler(
		sessionService,
		pickService,
		statsService,
		gameService,
		userService,
		maintenanceService,
		nil,
		logging.NewNop(),
	)

	return NewRouter(handler, staticVerifier{userID: "user-1"}, logging.NewNop(), false, nil, "job-token")
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestUpsertPick_CreateThenUpdate(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"gameId":745101,"pickedHome":true,"isSeries":false,"comment":"opener"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/picks", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 on create, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if got, _ := data["pickedHome"].(bool); !got {
		t.Fatalf("expected pickedHome=true, got %v", data["pickedHome"])
	}

	payload = `{"gameId":745101,"pickedHome":false,"isSeries":false}`
	req = httptest.NewRequest(http.MethodPut, "/v1/picks", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer valid-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on update, got %d: %s", rec.Code, rec.Body.String())
	}
	body = decodeEnvelope(t, rec)
	data, _ = body["data"].(map[string]any)
	if got, _ := data["pickedHome"].(bool); got {
		t.Fatalf("expected pickedHome=false after update, got %v", data["pickedHome"])
	}
}

func TestUpsertPick_MissingDiscriminator(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"gameId":745101,"pickedHome":true}`
	req := httptest.NewRequest(http.MethodPut, "/v1/picks", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpsertPick_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/picks", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/v1/picks", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with bad token, got %d", rec.Code)
	}
}

func TestGetOrCreateSession_CreatesThenReuses(t *testing.T) {
	router := newTestRouter(t)

	date := memory.SeedDateUpcoming.Format("2006-01-02")
	payload := fmt.Sprintf(`{"date":%q}`, date)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 on first call, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	firstID, _ := data["id"].(string)
	if firstID == "" {
		t.Fatalf("expected session id in response, got %v", data)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer valid-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on repeat call, got %d: %s", rec.Code, rec.Body.String())
	}
	body = decodeEnvelope(t, rec)
	data, _ = body["data"].(map[string]any)
	if got, _ := data["id"].(string); got != firstID {
		t.Fatalf("expected same session id %q, got %q", firstID, got)
	}
}

func TestInternalJobRoutes_RequireToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/nightly", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without job token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/nightly", nil)
	req.Header.Set("X-Internal-Job-Token", "job-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with job token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListGamesByDate_Public(t *testing.T) {
	router := newTestRouter(t)

	date := memory.SeedDateUpcoming.Format("2006-01-02")
	req := httptest.NewRequest(http.MethodGet, "/v1/games?date="+date, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %v", body["data"])
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 games on %s, got %d", date, len(items))
	}
}
