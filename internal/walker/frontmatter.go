package walker

import (
	"fmt"

	"github.com/mdtree/mdtree/internal/mdast"
	"gopkg.in/yaml.v3"
)

// Frontmatter returns the document's YAML frontmatter as a map. The second
// result reports whether a frontmatter block was present at all; a parse
// error is only possible when one was.
func Frontmatter(root mdast.Node) (map[string]any, bool, error) {
	doc, ok := root.(*mdast.Generic)
	if !ok || len(doc.Children) == 0 {
		return nil, false, nil
	}
	fc, ok := doc.Children[0].(*mdast.FencedCode)
	if !ok || fc.Type != mdast.TypeYAMLFrontmatter {
		return nil, false, nil
	}
	var meta map[string]any
	if err := yaml.Unmarshal([]byte(fc.Source), &meta); err != nil {
		return nil, true, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, true, nil
}
