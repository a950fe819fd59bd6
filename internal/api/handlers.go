package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/index"
	"github.com/starford/callnote/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	notes Notes
}

// NewHandler creates a new Handler.
func NewHandler(notes Notes) *Handler {
	return &Handler{notes: notes}
}

// Compose handles POST /api/compose.
//
//	@Summary		Compose a note from form data
//	@Tags			compose
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ComposeRequest	true	"Form snapshot"
//	@Success		200		{object}	compose.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/compose [post]
func (h *Handler) Compose(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.notes.Compose(r.Context(), orEmpty(req.FormData)))
}

// Split handles POST /api/split.
//
//	@Summary		Split a note into parts that fit the ticketing field
//	@Tags			compose
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SplitRequest	true	"Note text and form snapshot"
//	@Success		200		{object}	split.Result
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/split [post]
func (h *Handler) Split(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.notes.Split(r.Context(), req.NoteText, orEmpty(req.FormData))
	if err != nil {
		writeError(w, "split", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Resolution handles POST /api/extract/resolution.
//
//	@Summary		Build the issue and troubleshooting copy text
//	@Tags			extract
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ComposeRequest	true	"Form snapshot"
//	@Success		200		{object}	extract.ResolutionCopy
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/extract/resolution [post]
func (h *Handler) Resolution(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.notes.Resolution(r.Context(), orEmpty(req.FormData))
	if err != nil {
		writeError(w, "extract resolution", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Copilot handles POST /api/extract/copilot.
//
//	@Summary		Strip identifying lines from a note
//	@Tags			extract
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CopilotRequest	true	"Note text"
//	@Success		200		{object}	CopilotResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/extract/copilot [post]
func (h *Handler) Copilot(w http.ResponseWriter, r *http.Request) {
	var req CopilotRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text, err := h.notes.Copilot(r.Context(), req.NoteText)
	if err != nil {
		writeError(w, "extract copilot", err)
		return
	}
	writeJSON(w, http.StatusOK, CopilotResponse{Text: text})
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List saved notes, newest first
//	@Tags			notes
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			ban		query		string	false	"Filter by billing account number"
//	@Param			outcome	query		string	false	"Filter by resolution outcome"
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.notes.List(r.Context(), index.ListQuery{
		Limit:   limit,
		Offset:  offset,
		BAN:     q.Get("ban"),
		Outcome: q.Get("outcome"),
	})
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: total})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a saved note by id
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Record id"
//	@Success		200	{object}	RecordDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	rec, err := h.notes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeRecord(w, http.StatusOK, rec)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Save a new note from form data
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SaveRequest	true	"Form snapshot"
//	@Success		201		{object}	RecordDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, _, err := h.notes.Save(r.Context(), noteservice.SaveInput{FormData: orEmpty(req.FormData)})
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeRecord(w, http.StatusCreated, rec)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Update a note with optimistic concurrency
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string		true	"Record id"
//	@Param			If-Match	header		string		false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body		SaveRequest	true	"Form snapshot"
//	@Success		200			{object}	RecordDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := r.Header.Get("If-Match")

	rec, _, err := h.notes.Save(r.Context(), noteservice.SaveInput{
		ID:       chi.URLParam(r, "id"),
		FormData: orEmpty(req.FormData),
		IfMatch:  ifMatch,
	})
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	writeRecord(w, http.StatusOK, rec)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a saved note
//	@Tags			notes
//	@Param			id	path	string	true	"Record id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteParts handles GET /api/notes/{id}/parts.
//
//	@Summary		Split a saved note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Record id"
//	@Success		200	{object}	split.Result
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/parts [get]
func (h *Handler) NoteParts(w http.ResponseWriter, r *http.Request) {
	res, err := h.notes.SplitRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "split note", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across saved notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.notes.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// writeRecord writes rec with its checksum as the ETag.
func writeRecord(w http.ResponseWriter, status int, rec *RecordDetail) {
	w.Header().Set("ETag", `"`+rec.Checksum+`"`)
	writeJSON(w, status, rec)
}

func orEmpty(s form.Snapshot) form.Snapshot {
	if s == nil {
		return form.Snapshot{}
	}
	return s
}
