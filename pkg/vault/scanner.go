package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ritzau/notegraph/pkg/finder"
	"github.com/ritzau/notegraph/pkg/logging"
)

// Options configures a Scanner
type Options struct {
	Root     string   // Vault directory
	Excluded []string // Vault-relative path prefixes to leave out
	Workers  int      // Notes parsed in parallel; <= 0 means one per CPU
}

// cachedNote is a parsed note and the file stats it was parsed from
type cachedNote struct {
	modTime time.Time
	size    int64
	note    *Note
}

// Scanner produces vault snapshots. Notes whose modification time and size
// are unchanged since the previous scan are not parsed again.
type Scanner struct {
	opts Options

	mu    sync.Mutex // Serializes scans and guards cache
	cache map[string]cachedNote
}

// NewScanner creates a scanner for the vault described by opts
func NewScanner(opts Options) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Scanner{
		opts:  opts,
		cache: make(map[string]cachedNote),
	}
}

// Root returns the vault directory
func (s *Scanner) Root() string {
	return s.opts.Root
}

// Excluded returns the excluded path prefixes
func (s *Scanner) Excluded() []string {
	return s.opts.Excluded
}

// Scan lists the vault, parses its notes and resolves their links
func (s *Scanner) Scan(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	files, err := finder.FindVaultFiles(s.opts.Root, s.opts.Excluded)
	if err != nil {
		return nil, fmt.Errorf("listing vault files: %w", err)
	}

	var notePaths []string
	for _, f := range files {
		if finder.IsNote(f.Path) {
			notePaths = append(notePaths, f.Path)
		}
	}

	results := make([]cachedNote, len(notePaths))
	var parsed, reused int64
	var countMu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, p := range notePaths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			entry, fresh, err := s.load(p)
			if errors.Is(err, fs.ErrNotExist) {
				// Removed after the listing; the next scan will not see it
				logging.Debug("note vanished during scan", "path", p)
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = entry

			countMu.Lock()
			if fresh {
				parsed++
			} else {
				reused++
			}
			countMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning vault: %w", err)
	}

	snapshot := EmptySnapshot()
	snapshot.ScannedAt = time.Now()

	cache := make(map[string]cachedNote, len(results))
	for _, entry := range results {
		if entry.note == nil {
			continue
		}
		cache[entry.note.Path] = entry
		snapshot.Notes[entry.note.Path] = entry.note
	}
	s.cache = cache

	for _, f := range files {
		if finder.IsNote(f.Path) && snapshot.Notes[f.Path] == nil {
			continue
		}
		snapshot.Files = append(snapshot.Files, f)
	}

	resolveLinks(snapshot)

	logging.Debug("vault scanned",
		"files", len(snapshot.Files),
		"notes", len(snapshot.Notes),
		"parsed", parsed,
		"cached", reused,
		"duration", time.Since(start))

	return snapshot, nil
}

// load returns the cached note for p if the file is unchanged, otherwise
// reads and parses it. fresh reports whether the file was parsed.
func (s *Scanner) load(p string) (entry cachedNote, fresh bool, err error) {
	full := filepath.Join(s.opts.Root, filepath.FromSlash(p))

	info, err := os.Stat(full)
	if err != nil {
		return cachedNote{}, false, err
	}

	// Scans are serialized, so reading the cache here does not race a writer
	if cached, ok := s.cache[p]; ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached, false, nil
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return cachedNote{}, false, err
	}

	note, fmErr := ParseNote(p, string(content))
	if fmErr != nil {
		logging.Warn("ignoring frontmatter", "path", p, "error", fmErr)
	}
	note.ModTime = info.ModTime()
	note.Size = info.Size()

	return cachedNote{modTime: info.ModTime(), size: info.Size(), note: note}, true, nil
}

// resolveLinks fills Resolved and Unresolved from the notes of snapshot
func resolveLinks(snapshot *Snapshot) {
	resolver := NewResolver(snapshot.Files)

	for p, note := range snapshot.Notes {
		targets := make(map[string]int)
		for _, link := range note.Links {
			target, ok := resolver.Resolve(p, link)
			if !ok {
				if name := cleanTarget(link); name != "" {
					snapshot.Unresolved[p] = append(snapshot.Unresolved[p], name)
				}
				continue
			}
			targets[target]++
		}
		snapshot.Resolved[p] = targets
	}
}
