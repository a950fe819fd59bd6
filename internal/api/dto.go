package api

import (
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/index"
	"github.com/starford/callnote/internal/models"
	"github.com/starford/callnote/internal/noteservice"
)

// ComposeRequest carries a form snapshot keyed by field id.
type ComposeRequest struct {
	FormData form.Snapshot `json:"formData" validate:"required"`
}

// SplitRequest asks for a note to be split. An empty NoteText is composed
// from FormData first.
type SplitRequest struct {
	NoteText string        `json:"noteText" example:"PFTS | Jordan\nBAN: 123456789"`
	FormData form.Snapshot `json:"formData" validate:"required"`
}

// CopilotRequest carries note text to be stripped of identifying lines.
type CopilotRequest struct {
	NoteText string `json:"noteText" validate:"required"`
}

// CopilotResponse is the stripped note text.
type CopilotResponse struct {
	Text string `json:"text" validate:"required"`
}

// SaveRequest is the request body for creating or updating a record.
type SaveRequest struct {
	FormData form.Snapshot `json:"formData" validate:"required"`
}

// RecordDetail is the full record response type (aliased from the domain layer).
type RecordDetail = noteservice.RecordDetail

// NoteListResponse wraps paginated history listings.
type NoteListResponse struct {
	Notes []models.RecordMeta `json:"notes" validate:"required"`
	Total int                 `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}
