package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/orgball2608/omnipost/internal/credentials"
	"github.com/orgball2608/omnipost/internal/domain"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
)

type credentialRequest struct {
	Fields    map[string]string `json:"fields"`
	Simulated bool              `json:"simulated"`
}

func (h *Handler) listCredentials(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, h.credentials.Statuses())
}

func (h *Handler) putCredential(w http.ResponseWriter, r *http.Request) {
	platform, ok := platformParam(w, r)
	if !ok {
		return
	}

	var req credentialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cred := domain.NewCredential(platform, req.Fields, req.Simulated)
	if !domain.Connected(&cred) {
		writeError(w, http.StatusBadRequest, apperrors.CodeValidation,
			platform.Label()+" needs a non-empty "+platform.PrimaryField())
		return
	}
	if err := h.credentials.Set(cred); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.logger.Info("Credential saved", "platform", platform, "kind", cred.Kind)
	writeSuccess(w, http.StatusOK, h.status(platform))
}

func (h *Handler) deleteCredential(w http.ResponseWriter, r *http.Request) {
	platform, ok := platformParam(w, r)
	if !ok {
		return
	}
	if !h.credentials.Delete(platform) {
		writeError(w, http.StatusNotFound, apperrors.CodeNotFound, platform.Label()+" has no stored credential")
		return
	}
	writeMessage(w, http.StatusOK, platform.Label()+" disconnected")
}

// connectCredential runs the connect flow and stores what it returns.
func (h *Handler) connectCredential(w http.ResponseWriter, r *http.Request) {
	platform, ok := platformParam(w, r)
	if !ok {
		return
	}

	cred, err := h.connector.Connect(r.Context(), platform)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if err := h.credentials.Set(cred); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.logger.Info("Platform connected", "platform", platform, "kind", cred.Kind)
	writeSuccess(w, http.StatusOK, h.status(platform))
}

func (h *Handler) status(platform domain.Platform) credentials.Status {
	for _, st := range h.credentials.Statuses() {
		if st.Platform == platform {
			return st
		}
	}
	return credentials.Status{Platform: platform, Label: platform.Label()}
}

func platformParam(w http.ResponseWriter, r *http.Request) (domain.Platform, bool) {
	platform, err := domain.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.CodeValidation, err.Error())
		return "", false
	}
	return platform, true
}
