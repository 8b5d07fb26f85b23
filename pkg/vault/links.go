package vault

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/hashtag"
	"go.abhg.dev/goldmark/wikilink"
)

// LinkKind tells how a link was written in the note
type LinkKind int

const (
	LinkKindMarkdown LinkKind = iota // [text](target.md) or ![alt](pic.png)
	LinkKindWiki                     // [[target]] or ![[target]]
)

// RawLink is a link target as written in a note, before resolution
type RawLink struct {
	Target string
	Kind   LinkKind
}

// markdown parses note bodies with [[wikilinks]], ![[embeds]] and #tags as
// inline nodes, so code blocks and code spans never yield links or tags
var markdown = goldmark.New(goldmark.WithExtensions(
	&wikilink.Extender{},
	&hashtag.Extender{Variant: hashtag.ObsidianVariant},
))

// bodyContent is what a single pass over a note body finds
type bodyContent struct {
	title string
	links []RawLink
	tags  []string
}

func extract(body string) bodyContent {
	src := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var content bodyContent
	titled := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var link RawLink
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && !titled {
				content.title = string(node.Text(src))
				titled = true
			}
			return ast.WalkContinue, nil
		case *hashtag.Node:
			content.tags = append(content.tags, string(node.Tag))
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			link = RawLink{Target: string(node.Destination), Kind: LinkKindMarkdown}
		case *ast.Image:
			link = RawLink{Target: string(node.Destination), Kind: LinkKindMarkdown}
		case *wikilink.Node:
			link = RawLink{Target: string(node.Target), Kind: LinkKindWiki}
			if len(node.Fragment) > 0 {
				link.Target += "#" + string(node.Fragment)
			}
		default:
			return ast.WalkContinue, nil
		}

		if isInternal(link.Target) {
			content.links = append(content.links, link)
		}
		return ast.WalkContinue, nil
	})

	return content
}

// ExtractLinks returns the link targets of a markdown body in document order:
// markdown links, images, wikilinks and embeds. External URLs and pure
// fragment links are left out.
func ExtractLinks(body string) []RawLink {
	return extract(body).links
}

// ExtractInlineTags returns the #tags written in a markdown body, without '#'
func ExtractInlineTags(body string) []string {
	return extract(body).tags
}

// ExtractTitle returns the text of the first level one heading, or ""
func ExtractTitle(body string) string {
	return extract(body).title
}

func isInternal(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return false
	}
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return false
	}
	return true
}

// cleanTarget strips the parts of a link that do not name a file: the
// display alias, heading and block references. Markdown targets are also
// URL-unescaped.
func cleanTarget(link RawLink) string {
	target := link.Target

	if link.Kind == LinkKindWiki {
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
	}
	if i := strings.IndexAny(target, "#^"); i >= 0 {
		target = target[:i]
	}
	if link.Kind == LinkKindMarkdown {
		if unescaped, err := url.PathUnescape(target); err == nil {
			target = unescaped
		}
	}

	return strings.TrimSpace(target)
}
