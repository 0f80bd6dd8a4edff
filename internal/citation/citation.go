// Package citation parses Pandoc-style citation codes such as
// "[see @doe99, pp. 33-35; @smith04, chap. 1]" or a bare "@doe99" into
// structured items. It performs string parsing only; resolving keys against
// a citation database is a concern of the caller.
package citation

import (
	"regexp"
	"strings"
)

// Item is a single cited work within a citation.
type Item struct {
	Key            string `json:"key"`
	Prefix         string `json:"prefix,omitempty"`
	Suffix         string `json:"suffix,omitempty"`
	Locator        string `json:"locator,omitempty"`
	SuppressAuthor bool   `json:"suppressAuthor,omitempty"`
}

// Citation is one citation occurrence within a code string: its byte range
// inside the code and the works it cites.
type Citation struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Items []Item `json:"items"`
}

// ExtractFunc is the extractor contract the AST converter consumes.
type ExtractFunc func(code string) []Citation

var (
	keyPattern     = regexp.MustCompile(`^-?@\{?([\p{L}\d_][^\s;\]\},]*)\}?`)
	locatorPattern = regexp.MustCompile(`^(?i)(p|pp|page|pages|chap|chapter|sec|section|para|paragraph)\.?\s+\S.*`)
)

// Extract parses every citation in code. A code wrapped in square brackets
// is a full citation possibly holding several semicolon-separated items; a
// bare @key (optionally followed by a bracketed suffix) is an in-text
// citation with a single item.
func Extract(code string) []Citation {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		start := strings.Index(code, "[")
		if c, ok := parseFull(trimmed[1:len(trimmed)-1], start, start+len(trimmed)); ok {
			return []Citation{c}
		}
		return nil
	}
	return parseInText(code)
}

// parseFull handles the inside of a bracketed citation.
func parseFull(inner string, from, to int) (Citation, bool) {
	var items []Item
	for _, part := range strings.Split(inner, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item, ok := parseItem(part)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return Citation{}, false
	}
	return Citation{From: from, To: to, Items: items}, true
}

// parseItem splits "prefix @key, locator suffix" into its parts.
func parseItem(part string) (Item, bool) {
	at := strings.Index(part, "@")
	if at < 0 {
		return Item{}, false
	}
	prefix := strings.TrimSpace(part[:at])
	suppress := strings.HasSuffix(prefix, "-")
	if suppress {
		prefix = strings.TrimSpace(strings.TrimSuffix(prefix, "-"))
	}
	rest := part[at:]
	if suppress {
		rest = "-" + rest
	}
	m := keyPattern.FindStringSubmatch(rest)
	if m == nil {
		return Item{}, false
	}
	item := Item{
		Key:            strings.TrimRight(m[1], ".,:;"),
		Prefix:         prefix,
		SuppressAuthor: suppress || strings.HasPrefix(rest, "-"),
	}
	tail := strings.TrimSpace(rest[len(m[0]):])
	tail = strings.TrimSpace(strings.TrimPrefix(tail, ","))
	if tail != "" {
		if locatorPattern.MatchString(tail) {
			item.Locator = tail
		} else {
			item.Suffix = tail
		}
	}
	return item, true
}

// parseInText finds bare @key occurrences outside brackets.
func parseInText(code string) []Citation {
	var out []Citation
	for i := 0; i < len(code); i++ {
		if code[i] != '@' {
			continue
		}
		// An author-suppressing "-@key" is only valid in full citations.
		if i > 0 && !isBoundary(code[i-1]) {
			continue
		}
		m := keyPattern.FindStringSubmatch(code[i:])
		if m == nil {
			continue
		}
		key := strings.TrimRight(m[1], ".,:;")
		end := i + len(m[0]) - (len(m[1]) - len(key))
		item := Item{Key: key}
		// A bracketed run right after the key is its locator/suffix.
		j := end
		for j < len(code) && code[j] == ' ' {
			j++
		}
		if j < len(code) && code[j] == '[' {
			if k := strings.IndexByte(code[j:], ']'); k > 0 {
				tail := strings.TrimSpace(code[j+1 : j+k])
				if locatorPattern.MatchString(tail) {
					item.Locator = tail
				} else {
					item.Suffix = tail
				}
				end = j + k + 1
			}
		}
		out = append(out, Citation{From: i, To: end, Items: []Item{item}})
		i = end - 1
	}
	return out
}

func isBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '(', '[', ';', ':':
		return true
	}
	return false
}
