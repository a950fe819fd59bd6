package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(notes Notes, drafts Drafts, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(notes)
	dh := NewDraftHandler(drafts)
	th := NewTransferHandler(notes)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Stateless composition.
	r.Post("/compose", h.Compose)
	r.Post("/split", h.Split)
	r.Post("/extract/resolution", h.Resolution)
	r.Post("/extract/copilot", h.Copilot)

	// Saved notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Get("/notes/{id}/parts", h.NoteParts)

	r.Get("/search", h.Search)

	r.Get("/export", th.Export)
	r.Post("/import", th.Import)

	// Live workspace.
	r.Route("/workspace", func(r chi.Router) {
		r.Get("/", dh.Current)
		r.Patch("/", dh.Apply)
		r.Delete("/", dh.Reset)
		r.Post("/save", dh.Save)
		r.Post("/load/{id}", dh.Load)
		r.Get("/parts", dh.Parts)
		r.Get("/resolution", dh.Resolution)
		r.Get("/copilot", dh.Copilot)
	})

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
