package index

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/callnote/internal/apperr"
	"github.com/starford/callnote/internal/checksum"
	"github.com/starford/callnote/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, id string)

const reconcileDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the record directory and processes
// file change events until ctx is cancelled. It calls cb (if non-nil) after
// each index mutation. Files whose checksum already matches the index, such
// as records this process just saved, are skipped.
//
// Rename events trigger a reconciliation pass that removes stale index
// entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := store.Root()
	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			id, isRecord := storage.IDFromFile(ev.Name)
			if !isRecord {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				kind, changed := reindex(db, store, id, logger)
				if !changed {
					continue
				}
				logger.Debug("watcher: indexed", slog.String("id", id), slog.String("op", kind))
				if cb != nil {
					cb(kind, id)
				}

			case ev.Op&fsnotify.Remove != 0:
				removeStale(db, id, logger, cb)

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD name only. A record
				// renamed within the directory arrives as a separate
				// Create, so schedule a short reconciliation pass.
				removeStale(db, id, logger, cb)
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reindex indexes the record file for id when its content differs from the
// index. It reports the kind of change and whether anything changed.
func reindex(db *DB, store storage.Provider, id string, logger *slog.Logger) (string, bool) {
	data, err := store.Read(id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Warn("watcher: read failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		return "", false
	}
	prev, err := db.GetChecksum(id)
	if err != nil {
		logger.Warn("watcher: checksum lookup failed", slog.String("id", id), slog.String("error", err.Error()))
		return "", false
	}
	if prev == checksum.Sum(data) {
		return "", false
	}
	if err := IndexRecord(db, id, data); err != nil {
		logger.Warn("watcher: index failed", slog.String("id", id), slog.String("error", err.Error()))
		return "", false
	}
	if prev == "" {
		return "created", true
	}
	return "updated", true
}

func removeStale(db *DB, id string, logger *slog.Logger, cb EventCallback) {
	prev, _ := db.GetChecksum(id)
	if prev == "" {
		return
	}
	if err := db.DeleteRecord(id); err != nil {
		logger.Warn("watcher: delete failed", slog.String("id", id), slog.String("error", err.Error()))
		return
	}
	logger.Debug("watcher: deleted", slog.String("id", id))
	if cb != nil {
		cb("deleted", id)
	}
}

// reconcile does a lightweight sync using batch lookups: finds index
// entries without a corresponding file on disk and removes them, and finds
// on-disk records that are not indexed or changed and indexes them.
func reconcile(db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := store.List()
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.ID] = m.Checksum
	}

	for id := range checksums {
		if _, ok := disk[id]; !ok {
			removeStale(db, id, logger, cb)
		}
	}

	for id := range disk {
		kind, changed := reindex(db, store, id, logger)
		if changed {
			logger.Debug("reconcile: indexed", slog.String("id", id))
			if cb != nil {
				cb(kind, id)
			}
		}
	}
}
