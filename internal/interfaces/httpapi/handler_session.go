package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/pickemhq/pickem/internal/usecase"
)

type createSessionRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// GetOrCreateSession returns the caller's session for the requested date,
// creating it on first call. 201 signals a freshly built slate, 200 a reused
// one.
func (h *Handler) GetOrCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOrCreateSession")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createSessionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sess, created, err := h.sessionService.GetOrCreate(ctx, principal.UserID, date)
	if err != nil {
		h.logger.WarnContext(ctx, "get or create session failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, sessionToDTO(sess))
}

// GetSession returns the existing session for the date under the caller's
// stored selection timing, without creating one.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sess, exists, err := h.sessionService.GetForPreferences(ctx, principal.UserID, date)
	if err != nil {
		h.logger.WarnContext(ctx, "get session failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(sess))
}
