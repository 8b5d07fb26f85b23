// Package vault reads a folder of markdown notes and produces the file
// listing and resolved-link snapshot the note graph is built from.
package vault

import (
	"path"
	"slices"
	"time"
)

// Note is a parsed markdown file
type Note struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Title   string    `json:"title,omitempty"` // First level one heading
	Tags    []string  `json:"tags,omitempty"`  // Frontmatter and inline tags, without '#'
	Aliases []string  `json:"aliases,omitempty"`
	Links   []RawLink `json:"-"`
	Body    string    `json:"-"` // Markdown without frontmatter
	ModTime time.Time `json:"modTime"`
	Size    int64     `json:"size"`
}

// ParseNote builds a Note from file content. A malformed frontmatter block
// is returned as an error alongside a usable note that treats the whole
// content as body.
func ParseNote(p, content string) (*Note, error) {
	fm, body, fmErr := splitFrontmatter(content)

	extracted := extract(body)

	tags := fm.tags()
	for _, tag := range extracted.tags {
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}

	note := &Note{
		Path:    p,
		Name:    path.Base(p),
		Title:   extracted.title,
		Tags:    tags,
		Aliases: fm.aliases(),
		Links:   extracted.links,
		Body:    body,
	}
	return note, fmErr
}
