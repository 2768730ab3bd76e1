package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
)

type generateRequest struct {
	Draft     domain.Draft       `json:"draft"`
	Platforms domain.PlatformSet `json:"platforms"`
}

type publishAllRequest struct {
	Confirm bool `json:"confirm"`
}

type scheduleRequest struct {
	At *time.Time `json:"at,omitempty"`
}

type scheduleResponse struct {
	BatchID string    `json:"batchId"`
	At      time.Time `json:"at"`
}

type publishResponse struct {
	Platform domain.Platform     `json:"platform"`
	State    domain.PublishState `json:"publishState"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	batch, err := h.session.Generate(r.Context(), req.Draft, req.Platforms)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, batch)
}

func (h *Handler) getBatch(w http.ResponseWriter, _ *http.Request) {
	batch, ok := h.session.Batch()
	if !ok {
		writeError(w, http.StatusNotFound, apperrors.CodeNotFound, orchestrator.ErrNoBatch.Error())
		return
	}
	writeSuccess(w, http.StatusOK, batch)
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	platform, err := domain.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.CodeValidation, err.Error())
		return
	}

	// the publish outlives a client that stops waiting
	state, err := h.session.Publish(context.WithoutCancel(r.Context()), platform)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, publishResponse{Platform: platform, State: state})
}

func (h *Handler) publishAll(w http.ResponseWriter, r *http.Request) {
	var req publishAllRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	confirmer := orchestrator.ConfirmFunc(func(context.Context, string) bool { return req.Confirm })
	report, err := h.session.PublishAll(context.WithoutCancel(r.Context()), confirmer)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, report)
}

// schedule publishes the current batch at the given time, or at the draft's
// scheduledAt when no time is sent.
func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	batch, ok := h.session.Batch()
	if !ok {
		writeError(w, http.StatusConflict, apperrors.CodeConflict, orchestrator.ErrNoBatch.Error())
		return
	}

	at := req.At
	if at == nil {
		at = batch.Draft.ScheduledAt
	}
	if at == nil {
		writeError(w, http.StatusBadRequest, apperrors.CodeValidation, "no publish time given and the draft has no scheduled time")
		return
	}

	if err := h.scheduler.ScheduleBatch(batch.ID, *at); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusAccepted, scheduleResponse{BatchID: batch.ID.String(), At: *at})
}

func (h *Handler) cancelSchedule(w http.ResponseWriter, _ *http.Request) {
	batch, ok := h.session.Batch()
	if !ok || !h.scheduler.CancelBatch(batch.ID) {
		writeError(w, http.StatusNotFound, apperrors.CodeNotFound, "no scheduled publish for the current batch")
		return
	}
	writeMessage(w, http.StatusOK, "scheduled publish cancelled")
}

func (h *Handler) batchHistory(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.session.Batch()
	if !ok {
		writeError(w, http.StatusNotFound, apperrors.CodeNotFound, orchestrator.ErrNoBatch.Error())
		return
	}

	records, err := h.publications.ListByBatch(r.Context(), batch.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []*domain.PublishRecord{}
	}
	writeSuccess(w, http.StatusOK, records)
}
