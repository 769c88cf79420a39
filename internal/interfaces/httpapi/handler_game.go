package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pickemhq/pickem/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.gameService.ListTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	raw := strings.TrimSpace(r.PathValue("teamID"))
	teamID, err := strconv.Atoi(raw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid team id %q", usecase.ErrInvalidInput, raw))
		return
	}

	t, err := h.gameService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(t))
}

func (h *Handler) ListGamesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesByDate")
	defer span.End()

	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.gameService.ListByDate(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "date", date.Format(time.DateOnly), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTO(games))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID, err := parseGameIDPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.gameService.Get(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(g))
}

func (h *Handler) GetGameStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameStatus")
	defer span.End()

	gameID, err := parseGameIDPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.gameService.Status(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game status failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := gameStatusDTO{
		GameID:    status.GameID,
		Status:    status.Status,
		HomeScore: status.HomeScore,
		AwayScore: status.AwayScore,
	}
	if status.StartTimeUTC != nil {
		start := status.StartTimeUTC.UTC().Format(time.RFC3339)
		dto.StartTimeUTC = &start
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) ListSeriesNumbers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeriesNumbers")
	defer span.End()

	numbers, err := h.gameService.SeriesNumbers(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list series numbers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, numbers)
}

func (h *Handler) ListGamesBySeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesBySeries")
	defer span.End()

	raw := strings.TrimSpace(r.PathValue("seriesNumber"))
	seriesNumber, err := strconv.Atoi(raw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid series number %q", usecase.ErrInvalidInput, raw))
		return
	}

	games, err := h.gameService.ListBySeries(ctx, seriesNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "list games by series failed", "series_number", seriesNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTO(games))
}

// ListGamesBetweenTeams accepts either numeric team ids or abbreviations in
// both path segments.
func (h *Handler) ListGamesBetweenTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesBetweenTeams")
	defer span.End()

	rawA := strings.TrimSpace(r.PathValue("teamA"))
	rawB := strings.TrimSpace(r.PathValue("teamB"))

	idA, errA := strconv.Atoi(rawA)
	idB, errB := strconv.Atoi(rawB)

	var games []gameDTO
	if errA == nil && errB == nil {
		items, err := h.gameService.ListBetweenTeams(ctx, idA, idB)
		if err != nil {
			h.logger.WarnContext(ctx, "list matchup games failed", "team_a", rawA, "team_b", rawB, "error", err)
			writeError(ctx, w, err)
			return
		}
		games = gamesToDTO(items)
	} else {
		items, err := h.gameService.ListBetweenAbbrs(ctx, rawA, rawB)
		if err != nil {
			h.logger.WarnContext(ctx, "list matchup games failed", "team_a", rawA, "team_b", rawB, "error", err)
			writeError(ctx, w, err)
			return
		}
		games = gamesToDTO(items)
	}

	writeSuccess(ctx, w, http.StatusOK, games)
}

type gameStatusDTO struct {
	GameID       int64   `json:"gameId"`
	Status       string  `json:"status"`
	StartTimeUTC *string `json:"startTimeUtc,omitempty"`
	HomeScore    *int    `json:"homeScore,omitempty"`
	AwayScore    *int    `json:"awayScore,omitempty"`
}
