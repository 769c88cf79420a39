package httpapi

import (
	"fmt"
	"net/http"

	"github.com/pickemhq/pickem/internal/domain/user"
	"github.com/pickemhq/pickem/internal/usecase"
)

type savePreferencesRequest struct {
	FavoriteTeamID  *int   `json:"favoriteTeamId" validate:"omitempty,gt=0"`
	SelectionTiming string `json:"selectionTiming" validate:"required"`
	Description     string `json:"description" validate:"max=500"`
}

type preferencesDTO struct {
	UserID          string `json:"userId"`
	FavoriteTeamID  *int   `json:"favoriteTeamId,omitempty"`
	SelectionTiming string `json:"selectionTiming"`
	Description     string `json:"description,omitempty"`
}

func (h *Handler) GetMyPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPreferences")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	prefs, err := h.userService.Preferences(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get preferences failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, preferencesToDTO(prefs))
}

func (h *Handler) SaveMyPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMyPreferences")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req savePreferencesRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	prefs, err := h.userService.SavePreferences(ctx, usecase.SavePreferencesInput{
		UserID:          principal.UserID,
		FavoriteTeamID:  req.FavoriteTeamID,
		SelectionTiming: req.SelectionTiming,
		Description:     req.Description,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save preferences failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, preferencesToDTO(prefs))
}

func preferencesToDTO(prefs user.Preferences) preferencesDTO {
	return preferencesDTO{
		UserID:          prefs.UserID,
		FavoriteTeamID:  prefs.FavoriteTeamID,
		SelectionTiming: string(prefs.SelectionTiming),
		Description:     prefs.Description,
	}
}
