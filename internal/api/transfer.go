package api

import (
	"io"
	"net/http"
	"strings"
	"time"
)

const maxImportBytes = 50 << 20 // 50 MB

// TransferHandler exports and imports the saved history.
type TransferHandler struct {
	notes Notes
	now   func() time.Time
}

// NewTransferHandler creates a handler for export and import.
func NewTransferHandler(notes Notes) *TransferHandler {
	return &TransferHandler{notes: notes, now: time.Now}
}

// Export handles GET /api/export as a JSON file download.
//
//	@Summary		Export every saved note
//	@Tags			transfer
//	@Produce		json
//	@Success		200	{array}	models.NoteRecord
//	@Security		BearerAuth
//	@Router			/export [get]
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	recs, err := h.notes.Export(r.Context())
	if err != nil {
		writeError(w, "export", err)
		return
	}
	name := "callnote-export-" + h.now().UTC().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	writeJSON(w, http.StatusOK, recs)
}

// Import handles POST /api/import. The document is either the raw JSON body
// or a multipart/form-data upload in the "file" field.
//
//	@Summary		Import an exported history
//	@Tags			transfer
//	@Accept			json
//	@Accept			mpfd
//	@Produce		json
//	@Success		200	{object}	noteservice.ImportResult
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
			return
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	res, err := h.notes.Import(r.Context(), data)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
