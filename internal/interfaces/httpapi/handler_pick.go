package httpapi

import (
	"fmt"
	"net/http"

	"github.com/pickemhq/pickem/internal/usecase"
)

type upsertPickRequest struct {
	GameID     int64  `json:"gameId" validate:"required,gt=0"`
	PickedHome *bool  `json:"pickedHome" validate:"required"`
	IsSeries   *bool  `json:"isSeries" validate:"required"`
	Comment    string `json:"comment" validate:"max=500"`
}

type upsertPickBatchRequest struct {
	Picks []upsertPickRequest `json:"picks" validate:"required,min=1,max=50,dive"`
}

func (h *Handler) UpsertPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req upsertPickRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, created, err := h.pickService.Upsert(ctx, principal.UserID, usecase.UpsertPickInput{
		GameID:     req.GameID,
		PickedHome: req.PickedHome != nil && *req.PickedHome,
		IsSeries:   req.IsSeries,
		Comment:    req.Comment,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert pick failed", "user_id", principal.UserID, "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, pickToDTO(saved))
}

func (h *Handler) UpsertPickBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertPickBatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req upsertPickBatchRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.UpsertPickInput, 0, len(req.Picks))
	for _, item := range req.Picks {
		inputs = append(inputs, usecase.UpsertPickInput{
			GameID:     item.GameID,
			PickedHome: item.PickedHome != nil && *item.PickedHome,
			IsSeries:   item.IsSeries,
			Comment:    item.Comment,
		})
	}

	saved, err := h.pickService.UpsertBatch(ctx, principal.UserID, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "upsert pick batch failed", "user_id", principal.UserID, "count", len(inputs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(saved))
}

func (h *Handler) GetPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

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

	p, exists, err := h.pickService.Get(ctx, principal.UserID, gameID, isSeries)
	if err != nil {
		h.logger.WarnContext(ctx, "get pick failed", "user_id", principal.UserID, "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(p))
}
