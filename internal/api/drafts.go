package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DraftHandler serves the live workspace form.
type DraftHandler struct {
	drafts Drafts
}

// NewDraftHandler creates a handler for the workspace routes.
func NewDraftHandler(drafts Drafts) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// Current handles GET /api/workspace.
func (h *DraftHandler) Current(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.drafts.Current())
}

// Apply handles PATCH /api/workspace. The body maps field ids to values;
// nothing is applied when any id is unknown.
//
//	@Summary		Set workspace fields and regenerate the note
//	@Tags			workspace
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	workspace.View
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/workspace [patch]
func (h *DraftHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if !decodeJSON(w, r, &fields) {
		return
	}
	v, err := h.drafts.Apply(fields)
	if err != nil {
		writeError(w, "apply fields", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Reset handles DELETE /api/workspace.
func (h *DraftHandler) Reset(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.drafts.Reset())
}

// Load handles POST /api/workspace/load/{id}.
func (h *DraftHandler) Load(w http.ResponseWriter, r *http.Request) {
	v, err := h.drafts.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "load draft", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Save handles POST /api/workspace/save. The first save answers 201.
//
//	@Summary		Save the workspace form as a record
//	@Tags			workspace
//	@Produce		json
//	@Success		200	{object}	RecordDetail
//	@Success		201	{object}	RecordDetail
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/workspace/save [post]
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	rec, created, err := h.drafts.Save(r.Context())
	if err != nil {
		writeError(w, "save draft", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeRecord(w, status, rec)
}

// Parts handles GET /api/workspace/parts.
func (h *DraftHandler) Parts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.drafts.Parts())
}

// Resolution handles GET /api/workspace/resolution.
func (h *DraftHandler) Resolution(w http.ResponseWriter, _ *http.Request) {
	res, err := h.drafts.Resolution()
	if err != nil {
		writeError(w, "draft resolution", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Copilot handles GET /api/workspace/copilot.
func (h *DraftHandler) Copilot(w http.ResponseWriter, _ *http.Request) {
	text, err := h.drafts.Copilot()
	if err != nil {
		writeError(w, "draft copilot", err)
		return
	}
	writeJSON(w, http.StatusOK, CopilotResponse{Text: text})
}
