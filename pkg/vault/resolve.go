package vault

import (
	"path"
	"sort"
	"strings"

	"github.com/ritzau/notegraph/pkg/graph"
)

// Resolver maps link text to vault paths
type Resolver struct {
	exact  map[string]string   // path -> path
	folded map[string]string   // lowercase path -> path
	byBase map[string][]string // lowercase base name, with and without .md -> paths
}

// NewResolver indexes the vault files links may point at
func NewResolver(files []graph.File) *Resolver {
	r := &Resolver{
		exact:  make(map[string]string, len(files)),
		folded: make(map[string]string, len(files)),
		byBase: make(map[string][]string),
	}

	for _, f := range files {
		r.exact[f.Path] = f.Path
		lower := strings.ToLower(f.Path)
		if _, ok := r.folded[lower]; !ok {
			r.folded[lower] = f.Path
		}

		base := strings.ToLower(path.Base(f.Path))
		r.byBase[base] = append(r.byBase[base], f.Path)
		if stem, ok := strings.CutSuffix(base, ".md"); ok {
			r.byBase[stem] = append(r.byBase[stem], f.Path)
		}
	}

	// Prefer the shortest path, then lexical order
	for _, paths := range r.byBase {
		sort.Slice(paths, func(i, j int) bool {
			if len(paths[i]) != len(paths[j]) {
				return len(paths[i]) < len(paths[j])
			}
			return paths[i] < paths[j]
		})
	}

	return r
}

// Resolve returns the vault path link points at when written in the note at
// source. Lookup order: relative to the note's folder, from the vault root,
// each with and without an added ".md", then a unique-enough match on the
// file name. Matching falls back to case-insensitive comparison.
func (r *Resolver) Resolve(source string, link RawLink) (string, bool) {
	target := cleanTarget(link)
	if target == "" {
		return "", false
	}

	var candidates []string
	if rooted, ok := strings.CutPrefix(target, "/"); ok {
		candidates = append(candidates, path.Clean(rooted))
	} else {
		if dir := path.Dir(source); dir != "." {
			candidates = append(candidates, path.Join(dir, target))
		}
		candidates = append(candidates, path.Clean(target))
	}

	for _, c := range candidates {
		if p, ok := r.lookup(c); ok {
			return p, true
		}
		if p, ok := r.lookup(c + ".md"); ok {
			return p, true
		}
	}

	return r.bySuffix(target)
}

func (r *Resolver) lookup(p string) (string, bool) {
	if found, ok := r.exact[p]; ok {
		return found, true
	}
	found, ok := r.folded[strings.ToLower(p)]
	return found, ok
}

// bySuffix matches target against the tail of every path sharing its base name
func (r *Resolver) bySuffix(target string) (string, bool) {
	lower := strings.ToLower(strings.TrimPrefix(path.Clean(target), "./"))
	for _, p := range r.byBase[path.Base(lower)] {
		lp := strings.ToLower(p)
		stem := strings.TrimSuffix(lp, ".md")
		for _, candidate := range []string{lp, stem} {
			if candidate == lower || strings.HasSuffix(candidate, "/"+lower) {
				return p, true
			}
		}
	}
	return "", false
}
