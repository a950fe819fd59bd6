package api

import (
	"context"

	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/extract"
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/index"
	"github.com/starford/callnote/internal/models"
	"github.com/starford/callnote/internal/noteservice"
	"github.com/starford/callnote/internal/split"
	"github.com/starford/callnote/internal/workspace"
)

// Notes is the record and composition surface the handlers depend on.
type Notes interface {
	Compose(ctx context.Context, snap form.Snapshot) compose.Note
	Split(ctx context.Context, noteText string, snap form.Snapshot) (split.Result, error)
	SplitRecord(ctx context.Context, id string) (split.Result, error)
	Resolution(ctx context.Context, snap form.Snapshot) (extract.ResolutionCopy, error)
	Copilot(ctx context.Context, noteText string) (string, error)

	Save(ctx context.Context, in noteservice.SaveInput) (*noteservice.RecordDetail, bool, error)
	Get(ctx context.Context, id string) (*noteservice.RecordDetail, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q index.ListQuery) ([]models.RecordMeta, int, error)
	Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error)

	Export(ctx context.Context) ([]models.NoteRecord, error)
	Import(ctx context.Context, data []byte) (*noteservice.ImportResult, error)
}

// Drafts is the live form being filled in.
type Drafts interface {
	Current() workspace.View
	Apply(fields map[string]any) (workspace.View, error)
	Reset() workspace.View
	Load(ctx context.Context, id string) (workspace.View, error)
	Save(ctx context.Context) (*noteservice.RecordDetail, bool, error)
	Parts() split.Result
	Resolution() (extract.ResolutionCopy, error)
	Copilot() (string, error)
}

var (
	_ Notes  = (*noteservice.Service)(nil)
	_ Drafts = (*workspace.Workspace)(nil)
)
