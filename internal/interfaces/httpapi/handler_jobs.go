package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/usecase"
)

const defaultSyncWindowDays = 7

type syncScheduleJobRequest struct {
	From            string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To              string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	MaxWorkers      int    `json:"maxWorkers" validate:"omitempty,gte=0,lte=8"`
	SkipMaintenance bool   `json:"skipMaintenance"`
}

// RunSyncScheduleJob pulls the schedule window from the upstream feed. An
// empty body syncs today plus the next week.
func (h *Handler) RunSyncScheduleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncScheduleJob")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSyncScheduleJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := buildSyncScheduleInput(req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestionService.SyncSchedule(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync schedule job failed",
			"from", input.From.Format(time.DateOnly),
			"to", input.To.Format(time.DateOnly),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunNightlyJob runs the series renumbering, marquee rotation, and grading
// pass on demand.
func (h *Handler) RunNightlyJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunNightlyJob")
	defer span.End()

	if h.maintenanceService == nil {
		writeError(ctx, w, fmt.Errorf("%w: maintenance service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.maintenanceService.RunNightly(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run nightly job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeSyncScheduleJobRequest(r *http.Request) (syncScheduleJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req syncScheduleJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return syncScheduleJobRequest{}, nil
		}
		return syncScheduleJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func buildSyncScheduleInput(req syncScheduleJobRequest) (usecase.SyncScheduleInput, error) {
	today := game.NormalizeDate(time.Now())

	from := today
	if req.From != "" {
		parsed, err := time.Parse(time.DateOnly, req.From)
		if err != nil {
			return usecase.SyncScheduleInput{}, fmt.Errorf("%w: invalid from %q", usecase.ErrInvalidInput, req.From)
		}
		from = parsed
	}

	to := from.AddDate(0, 0, defaultSyncWindowDays)
	if req.To != "" {
		parsed, err := time.Parse(time.DateOnly, req.To)
		if err != nil {
			return usecase.SyncScheduleInput{}, fmt.Errorf("%w: invalid to %q", usecase.ErrInvalidInput, req.To)
		}
		to = parsed
	}

	return usecase.SyncScheduleInput{
		From:            from,
		To:              to,
		MaxWorkers:      req.MaxWorkers,
		SkipMaintenance: req.SkipMaintenance,
	}, nil
}
