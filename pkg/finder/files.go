package finder

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/ritzau/notegraph/pkg/graph"
)

// FindVaultFiles walks the vault and returns every file as a vault-relative,
// slash-separated path. Hidden directories (.git, .obsidian, .trash and the
// like) and files under an excluded prefix are skipped. Results are in
// lexical order.
func FindVaultFiles(vaultRoot string, excluded []string) ([]graph.File, error) {
	var files []graph.File

	err := filepath.WalkDir(vaultRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(vaultRoot, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") || graph.IsExcluded(rel, excluded) {
			return nil
		}

		files = append(files, graph.File{Name: path.Base(rel), Path: rel})
		return nil
	})

	return files, err
}

// IsNote reports whether a vault path is a markdown note
func IsNote(p string) bool {
	return strings.HasSuffix(p, ".md")
}

// IsHiddenPath reports whether any segment of a vault-relative path starts with a dot
func IsHiddenPath(rel string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if segment != "." && segment != ".." && strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
