// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes callnote tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/callnote/internal/apperr"
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/index"
	"github.com/starford/callnote/internal/noteservice"
)

// FormatURI is the resource URI of the note format description.
const FormatURI = "callnote://note-format"

// Server wraps the MCP server with callnote tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all callnote tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"callnote",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	formData := mcp.WithObject("formData", mcp.Required(),
		mcp.Description("Form fields keyed by field id; see "+FormatURI))

	s.mcp.AddTool(mcp.NewTool("compose_note",
		mcp.WithDescription("Compose the call note for the given form data. Returns the note text, "+
			"its character count, whether it exceeds the ticketing limit, and the QA checklist."),
		formData,
	), s.composeNote)

	s.mcp.AddTool(mcp.NewTool("split_note",
		mcp.WithDescription("Split a call note into parts that each fit the ticketing field."),
		formData,
		mcp.WithString("noteText", mcp.Description("Note text to split; composed from formData when empty")),
	), s.splitNote)

	s.mcp.AddTool(mcp.NewTool("extract_resolution",
		mcp.WithDescription("Build the customer issue and troubleshooting steps copy text."),
		formData,
	), s.extractResolution)

	s.mcp.AddTool(mcp.NewTool("extract_copilot",
		mcp.WithDescription("Remove the lines that identify the customer or agent from a note."),
		mcp.WithString("noteText", mcp.Required(), mcp.Description("Note text")),
	), s.extractCopilot)

	s.mcp.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Save form data as a note record. Pass id to update an existing record."),
		formData,
		mcp.WithString("id", mcp.Description("Record id to update")),
	), s.saveNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through saved notes."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the text of a saved note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List saved notes, newest first."),
		mcp.WithNumber("limit", mcp.Description("Page size")),
		mcp.WithNumber("offset", mcp.Description("Page offset")),
		mcp.WithString("ban", mcp.Description("Only notes for this billing account number")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_note_format",
		mcp.WithDescription("Returns the call note format and the form field ids. "+
			"Call this before composing notes to learn the field ids."),
	), s.getNoteFormat)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Call Note Format",
			mcp.WithResourceDescription("Layout of a call note and the form fields that feed it."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) composeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := snapshotArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Compose(ctx, snap))
}

func (s *Server) splitNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := snapshotArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Split(ctx, req.GetString("noteText", ""), snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) extractResolution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := snapshotArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Resolution(ctx, snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.IssueOmitted {
		return mcp.NewToolResultText(res.Text + "\n\n(customer issue omitted to fit the copy limit)"), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

func (s *Server) extractCopilot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("noteText")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.svc.Copilot(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) saveNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := snapshotArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, _, err := s.svc.Save(ctx, noteservice.SaveInput{
		ID:       req.GetString("id", ""),
		FormData: snap,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rec.FinalNoteText), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, total, err := s.svc.List(ctx, index.ListQuery{
		Limit:  req.GetInt("limit", 0),
		Offset: req.GetInt("offset", 0),
		BAN:    req.GetString("ban", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"notes": items, "total": total})
}

func (s *Server) getNoteFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatContract()), nil
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     FormatContract(),
		},
	}, nil
}

// snapshotArg reads the formData object argument.
func snapshotArg(req mcp.CallToolRequest) (form.Snapshot, error) {
	raw, ok := req.GetArguments()["formData"]
	if !ok {
		return nil, errors.New(`required argument "formData" not found`)
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New(`argument "formData" must be an object`)
	}
	return form.Snapshot(fields), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
