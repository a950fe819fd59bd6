package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/index"
	"github.com/starford/callnote/internal/mcpserver"
	"github.com/starford/callnote/internal/split"
)

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
// Logs go to stderr since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, db, err := openRecords(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := mcpserver.New(newService(cfg, store, db), app.version)

	ctx, cancel := context.WithCancel(ctx)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := index.Watch(gCtx, db, store, logger, nil); err != nil {
			logger.Warn("record watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		logger.Info("Serving MCP on stdio", slog.String("version", app.version))
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("mcp: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// RunCompose prints the note for the snapshot file at path. With withSplit
// it prints the note's parts instead.
func RunCompose(_ context.Context, path string, withSplit bool, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	snap, err := form.ReadSnapshotFile(path)
	if err != nil {
		return err
	}
	if unknown := snap.Unknown(); len(unknown) > 0 {
		logger.Warn("ignoring unknown fields", slog.Any("fields", unknown))
	}

	note := compose.NewAssembler(compose.WithThreshold(cfg.Notes.WarnThreshold)).Evaluate(snap)
	if note.OverLimit {
		logger.Warn("note exceeds the ticketing limit",
			slog.Int("chars", note.CharCount),
			slog.Int("limit", cfg.Notes.WarnThreshold))
	}

	if !withSplit {
		_, err = fmt.Fprintln(app.out, note.Text)
		return err
	}

	res := split.New(split.WithBudget(cfg.Notes.SplitBudget)).Plan(note.Text, snap)
	logger.Info("note split",
		slog.String("strategy", string(res.Strategy)),
		slog.Int("parts", len(res.Parts)))
	for i, p := range res.Parts {
		if i > 0 {
			if _, err := fmt.Fprintln(app.out); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(app.out, "== %s (%d chars)\n%s\n", p.Label, compose.Count(p.Content), p.Content); err != nil {
			return err
		}
	}
	return nil
}
