package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
	"github.com/pickemhq/pickem/internal/domain/session"
	"github.com/pickemhq/pickem/internal/domain/team"
	"github.com/pickemhq/pickem/internal/platform/logging"
	"github.com/pickemhq/pickem/internal/usecase"
)

type Handler struct {
	sessionService     *usecase.SessionService
	pickService        *usecase.PickService
	statsService       *usecase.StatsService
	gameService        *usecase.GameService
	userService        *usecase.UserService
	maintenanceService *usecase.MaintenanceService
	ingestionService   *usecase.IngestionService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	sessionService *usecase.SessionService,
	pickService *usecase.PickService,
	statsService *usecase.StatsService,
	gameService *usecase.GameService,
	userService *usecase.UserService,
	maintenanceService *usecase.MaintenanceService,
	ingestionService *usecase.IngestionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		sessionService:     sessionService,
		pickService:        pickService,
		statsService:       statsService,
		gameService:        gameService,
		userService:        userService,
		maintenanceService: maintenanceService,
		ingestionService:   ingestionService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequest(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// parseDateParam accepts a YYYY-MM-DD query value, defaulting to today (UTC)
// when absent.
func parseDateParam(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return game.NormalizeDate(time.Now()), nil
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, value)
	}
	return parsed, nil
}

func parseBoolParam(name, value string) (bool, error) {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%w: invalid %s value %q", usecase.ErrInvalidInput, name, value)
	}
	return parsed, nil
}

func parseGameIDPath(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("gameID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid game id %q", usecase.ErrInvalidInput, raw)
	}
	return id, nil
}

type teamDTO struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Nick    string `json:"nick"`
	Abbr    string `json:"abbr"`
	LogoURL string `json:"logoUrl"`
}

type gameDTO struct {
	ID           int64  `json:"id"`
	HomeTeamID   int    `json:"homeTeamId"`
	AwayTeamID   int    `json:"awayTeamId"`
	HomeName     string `json:"homeName"`
	AwayName     string `json:"awayName"`
	Date         string `json:"date"`
	StartTimeUTC string `json:"startTimeUtc"`
	Venue        string `json:"venue"`
	IsMarquee    bool   `json:"isMarquee"`
	SeriesNumber *int   `json:"seriesNumber,omitempty"`
	Finished     bool   `json:"finished"`
	WinnerTeamID *int   `json:"winnerTeamId,omitempty"`
	HomeScore    *int   `json:"homeScore,omitempty"`
	AwayScore    *int   `json:"awayScore,omitempty"`
}

type pickDTO struct {
	ID         int64  `json:"id"`
	GameID     int64  `json:"gameId"`
	PickedHome bool   `json:"pickedHome"`
	IsSeries   bool   `json:"isSeries"`
	Comment    string `json:"comment,omitempty"`
	Correct    *bool  `json:"correct,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
}

type sessionDTO struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"`
	IsSeries bool      `json:"isSeries"`
	Games    []gameDTO `json:"games"`
	Picks    []pickDTO `json:"picks"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:      v.ID,
		Name:    v.Name,
		City:    v.City,
		Nick:    v.Nick,
		Abbr:    v.Abbr,
		LogoURL: v.Logo,
	}
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		ID:           v.ID,
		HomeTeamID:   v.HomeTeamID,
		AwayTeamID:   v.AwayTeamID,
		HomeName:     v.HomeName,
		AwayName:     v.AwayName,
		Date:         v.Date.Format(time.DateOnly),
		StartTimeUTC: v.StartTimeUTC.UTC().Format(time.RFC3339),
		Venue:        v.Venue,
		IsMarquee:    v.IsMarquee,
		SeriesNumber: v.SeriesNumber,
		Finished:     v.Finished,
		WinnerTeamID: v.WinnerTeamID,
		HomeScore:    v.HomeScore,
		AwayScore:    v.AwayScore,
	}
}

func gamesToDTO(items []game.Game) []gameDTO {
	out := make([]gameDTO, 0, len(items))
	for _, g := range items {
		out = append(out, gameToDTO(g))
	}
	return out
}

func pickToDTO(v pick.Pick) pickDTO {
	return pickDTO{
		ID:         v.ID,
		GameID:     v.GameID,
		PickedHome: v.PickedHome,
		IsSeries:   v.IsSeries,
		Comment:    v.Comment,
		Correct:    v.Correct,
		SessionID:  v.SessionID,
	}
}

func picksToDTO(items []pick.Pick) []pickDTO {
	out := make([]pickDTO, 0, len(items))
	for _, p := range items {
		out = append(out, pickToDTO(p))
	}
	return out
}

func sessionToDTO(v session.Session) sessionDTO {
	return sessionDTO{
		ID:       v.ID,
		Date:     v.Date.Format(time.DateOnly),
		IsSeries: v.IsSeries,
		Games:    gamesToDTO(v.Games),
		Picks:    picksToDTO(v.Picks),
	}
}
