package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/orgball2608/omnipost/internal/domain"
)

func (h *Handler) listDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.drafts.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if drafts == nil {
		drafts = []*domain.SavedDraft{}
	}
	writeSuccess(w, http.StatusOK, drafts)
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, d)
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request) {
	var req domain.SavedDraft
	if !decodeJSON(w, r, &req) {
		return
	}

	saved, err := h.drafts.Save(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, saved)
}

func (h *Handler) deleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "draft deleted")
}
