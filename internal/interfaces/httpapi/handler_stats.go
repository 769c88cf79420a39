package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pickemhq/pickem/internal/domain/pick"
	"github.com/pickemhq/pickem/internal/usecase"
)

const (
	defaultHistoryPageSize = 50
	maxHistoryPageSize     = 200
)

func (h *Handler) GetGameTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameTotals")
	defer span.End()

	gameID, err := parseGameIDPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	isSeries, err := parseBoolParam("isSeries", r.URL.Query().Get("isSeries"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	totals, err := h.statsService.TotalsForGame(ctx, gameID, isSeries)
	if err != nil {
		h.logger.WarnContext(ctx, "get game totals failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, totalsDTO{
		GameID:    totals.GameID,
		Total:     totals.Total,
		HomePicks: totals.HomePicks,
		AwayPicks: totals.AwayPicks,
	})
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	isSeries := false
	if raw := strings.TrimSpace(r.URL.Query().Get("isSeries")); raw != "" {
		parsed, err := parseBoolParam("isSeries", raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		isSeries = parsed
	}

	rows, err := h.statsService.Leaderboard(ctx, isSeries)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for i, row := range rows {
		items = append(items, leaderboardRowDTO{
			Rank:         i + 1,
			UserID:       row.UserID,
			CorrectPicks: row.CorrectPicks,
			TotalPicks:   row.TotalPicks,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRecord")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var since *time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid since %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, raw))
			return
		}
		since = &parsed
	}

	record, err := h.statsService.RecordForUser(ctx, principal.UserID, since)
	if err != nil {
		h.logger.WarnContext(ctx, "get record failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recordDTO{
		Correct: record.Correct,
		Total:   record.Total,
	})
}

func (h *Handler) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyHistory")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	limit, err := parsePageParam(r.URL.Query().Get("limit"), defaultHistoryPageSize, maxHistoryPageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	offset, err := parsePageParam(r.URL.Query().Get("offset"), 0, 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.statsService.HistoryForUser(ctx, principal.UserID, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "get history failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, historyEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func parsePageParam(value string, fallback, max int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%w: invalid page parameter %q", usecase.ErrInvalidInput, value)
	}
	if max > 0 && parsed > max {
		parsed = max
	}
	return parsed, nil
}

type totalsDTO struct {
	GameID    int64 `json:"gameId"`
	Total     int   `json:"total"`
	HomePicks int   `json:"homePicks"`
	AwayPicks int   `json:"awayPicks"`
}

type recordDTO struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type leaderboardRowDTO struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"userId"`
	CorrectPicks int    `json:"correctPicks"`
	TotalPicks   int    `json:"totalPicks"`
}

type historyEntryDTO struct {
	Pick      pickDTO `json:"pick"`
	Game      gameDTO `json:"game"`
	InSession bool    `json:"inSession"`
}

func historyEntryToDTO(entry pick.HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		Pick:      pickToDTO(entry.Pick),
		Game:      gameToDTO(entry.Game),
		InSession: entry.InSession,
	}
}
