package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/games", handler.ListGamesByDate)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/games/{gameID}/status", handler.GetGameStatus)
	mux.HandleFunc("GET /v1/games/{gameID}/totals", handler.GetGameTotals)
	mux.HandleFunc("GET /v1/series", handler.ListSeriesNumbers)
	mux.HandleFunc("GET /v1/series/{seriesNumber}/games", handler.ListGamesBySeries)
	mux.HandleFunc("GET /v1/matchups/{teamA}/{teamB}", handler.ListGamesBetweenTeams)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/sessions", RequireAuth(verifier, http.HandlerFunc(handler.GetOrCreateSession)))
	mux.Handle("GET /v1/sessions", RequireAuth(verifier, http.HandlerFunc(handler.GetSession)))
	mux.Handle("PUT /v1/picks", RequireAuth(verifier, http.HandlerFunc(handler.UpsertPick)))
	mux.Handle("POST /v1/picks/batch", RequireAuth(verifier, http.HandlerFunc(handler.UpsertPickBatch)))
	mux.Handle("GET /v1/picks/{gameID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPick)))
	mux.Handle("GET /v1/me/record", RequireAuth(verifier, http.HandlerFunc(handler.GetMyRecord)))
	mux.Handle("GET /v1/me/history", RequireAuth(verifier, http.HandlerFunc(handler.GetMyHistory)))
	mux.Handle("GET /v1/me/preferences", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPreferences)))
	mux.Handle("PUT /v1/me/preferences", RequireAuth(verifier, http.HandlerFunc(handler.SaveMyPreferences)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncScheduleJob)))
	mux.Handle("POST /v1/internal/jobs/nightly", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunNightlyJob)))
}
