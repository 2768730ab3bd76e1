package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/orgball2608/omnipost/internal/domain"
)

type templateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if templates == nil {
		templates = []*domain.Template{}
	}
	writeSuccess(w, http.StatusOK, templates)
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.templates.Create(r.Context(), req.Name, req.Content)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, t)
}

func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "template deleted")
}
