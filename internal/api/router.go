package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })

	r.Route("/api", func(r chi.Router) {
		r.With(h.rateLimitMiddleware).Post("/variants", h.generate)

		r.Route("/batch", func(r chi.Router) {
			r.Get("/", h.getBatch)
			r.Get("/history", h.batchHistory)
			r.Post("/publish/{platform}", h.publish)
			r.Post("/publish-all", h.publishAll)
			r.Post("/schedule", h.schedule)
			r.Delete("/schedule", h.cancelSchedule)
		})

		r.Route("/credentials", func(r chi.Router) {
			r.Get("/", h.listCredentials)
			r.Put("/{platform}", h.putCredential)
			r.Delete("/{platform}", h.deleteCredential)
			r.Post("/{platform}/connect", h.connectCredential)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", h.listDrafts)
			r.Post("/", h.saveDraft)
			r.Get("/{id}", h.getDraft)
			r.Delete("/{id}", h.deleteDraft)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.listTemplates)
			r.Post("/", h.createTemplate)
			r.Delete("/{id}", h.deleteTemplate)
		})
	})
	return r
}
