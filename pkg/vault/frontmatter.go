package vault

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatter holds the note properties the graph cares about.
// Singular keys are accepted as well since both spellings occur in vaults.
type frontmatter struct {
	Tags    stringList `yaml:"tags"`
	Tag     stringList `yaml:"tag"`
	Aliases stringList `yaml:"aliases"`
	Alias   stringList `yaml:"alias"`
}

// stringList accepts either a YAML sequence or a single comma or space
// separated scalar
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' '
		})
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
	default:
		return fmt.Errorf("expected string or list, got yaml kind %d", value.Kind)
	}
	return nil
}

// splitFrontmatter separates a leading "---" delimited YAML block from the
// markdown body. Content without frontmatter is returned as the body.
func splitFrontmatter(content string) (fm frontmatter, body string, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(content, "---\n") {
		return fm, content, nil
	}

	rest := content[4:]
	if strings.HasPrefix(rest, "---\n") {
		return fm, rest[4:], nil
	}

	var raw string
	if end := strings.Index(rest, "\n---\n"); end >= 0 {
		raw, body = rest[:end], rest[end+5:]
	} else if strings.HasSuffix(rest, "\n---") {
		raw = rest[:len(rest)-4]
	} else {
		return fm, content, fmt.Errorf("malformed frontmatter: missing closing ---")
	}

	if strings.TrimSpace(raw) == "" {
		return fm, body, nil
	}
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return frontmatter{}, body, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return fm, body, nil
}

// tags returns the normalized frontmatter tags: no leading '#', no blanks
func (fm frontmatter) tags() []string {
	var tags []string
	for _, t := range slices.Concat(fm.Tags, fm.Tag) {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (fm frontmatter) aliases() []string {
	var aliases []string
	for _, a := range slices.Concat(fm.Aliases, fm.Alias) {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}
	return aliases
}
