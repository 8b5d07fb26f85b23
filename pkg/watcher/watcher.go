package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/notegraph/pkg/finder"
	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/logging"
)

// batchWindow is how long raw events are collected before a ChangeEvent is sent
const batchWindow = 100 * time.Millisecond

// ChangeType represents the type of file change detected
type ChangeType int

const (
	ChangeTypeStructure  ChangeType = iota // A file or folder was created, removed or renamed
	ChangeTypeNote                         // A markdown note was written
	ChangeTypeAttachment                   // Some other file was written
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTypeStructure:
		return "structure"
	case ChangeTypeNote:
		return "note"
	case ChangeTypeAttachment:
		return "attachment"
	}
	return fmt.Sprintf("ChangeType(%d)", int(t))
}

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string // Vault-relative, slash-separated
	Timestamp time.Time
}

// FileWatcher watches every folder of a vault for file changes
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	excluded []string // Vault-relative prefixes whose changes are ignored
	events   chan ChangeEvent
	done     chan struct{}

	mu      sync.Mutex
	watched map[string]bool // Absolute directories added to the watcher
	stopped bool
}

// NewFileWatcher creates a new file system watcher for a vault
func NewFileWatcher(root string, excluded []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("resolving vault path: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		root:     abs,
		excluded: excluded,
		events:   make(chan ChangeEvent, 100),
		done:     make(chan struct{}),
		watched:  make(map[string]bool),
	}, nil
}

// Start adds the vault folders to the watcher and begins processing events.
// Processing stops when ctx is cancelled or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) error {
	count, err := fw.watchTree(fw.root)
	if err != nil {
		fw.watcher.Close()
		return fmt.Errorf("watching vault: %w", err)
	}

	logging.Info("started watching vault", "path", fw.root, "directories", count)

	go fw.processEvents(ctx)
	return nil
}

// watchTree adds dir and every non-hidden folder below it
func (fw *FileWatcher) watchTree(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil // Skip folders we can't access
		}
		if !d.IsDir() {
			return nil
		}
		if path != fw.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		fw.mu.Lock()
		already := fw.watched[path]
		fw.watched[path] = true
		fw.mu.Unlock()
		if already {
			return nil
		}

		if err := fw.watcher.Add(path); err != nil {
			logging.Warn("failed to watch directory", "path", path, "error", err)
			return nil
		}
		count++
		return nil
	})
	return count, err
}

// classify maps a raw fsnotify event to a change type. ok is false for
// events that cannot affect the graph.
func classify(op fsnotify.Op, rel string, excluded []string) (ChangeType, bool) {
	if rel == "." || finder.IsHiddenPath(rel) || graph.IsExcluded(rel, excluded) {
		return 0, false
	}

	switch {
	case op.Has(fsnotify.Create), op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ChangeTypeStructure, true
	case op.Has(fsnotify.Write):
		if finder.IsNote(rel) {
			return ChangeTypeNote, true
		}
		return ChangeTypeAttachment, true
	}
	return 0, false
}

// processEvents batches fsnotify events by change type
func (fw *FileWatcher) processEvents(ctx context.Context) {
	pending := make(map[ChangeType][]string)

	flushTimer := time.NewTimer(batchWindow)
	flushTimer.Stop()

	flush := func() {
		for _, t := range []ChangeType{ChangeTypeStructure, ChangeTypeNote, ChangeTypeAttachment} {
			if paths := pending[t]; len(paths) > 0 {
				select {
				case fw.events <- ChangeEvent{Type: t, Paths: paths, Timestamp: time.Now()}:
				case <-ctx.Done():
				}
			}
		}
		pending = make(map[ChangeType][]string)
	}

	defer func() {
		fw.watcher.Close()
		close(fw.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			rel, err := filepath.Rel(fw.root, event.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			changeType, relevant := classify(event.Op, rel, fw.excluded)
			if !relevant {
				continue
			}

			// New folders need their own watch, including any created inside them already
			if event.Op.Has(fsnotify.Create) {
				if isDir(event.Name) {
					if _, err := fw.watchTree(event.Name); err != nil {
						logging.Warn("failed to watch new directory", "path", rel, "error", err)
					}
				}
			}

			logging.Trace("file change", "path", rel, "op", event.Op.String(), "type", changeType)
			pending[changeType] = append(pending[changeType], rel)
			flushTimer.Reset(batchWindow)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events. It is closed when the
// watcher stops.
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the file watcher
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return
	}
	fw.stopped = true
	close(fw.done)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
