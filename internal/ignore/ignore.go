// Package ignore handles gitignore-style pattern matching for renorm.
//
// The semantics are a deliberately narrowed subset of gitignore: a leading
// "!" negates, a leading "/" anchors to the root, a trailing "/" restricts
// to directories, and any of "**/", "/**" or "**" collapses to a single
// segment-crossing wildcard before ordinary glob matching. There is no brace
// expansion and no recursive-descent double-star matching.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Pattern is a single parsed ignore rule. It is derived once from a raw
// line and never mutated afterwards.
type Pattern struct {
	Raw          string // original line as read from the ignore file
	Negated      bool   // leading "!": a match un-ignores the path
	RootRelative bool   // leading "/": match only from the root
	DirOnly      bool   // trailing "/": match directories only
	Body         string // pattern text with the markers stripped
}

// ParseLine normalizes one raw pattern line. The second return value is
// false when the line carries no pattern after stripping the markers.
func ParseLine(line string) (Pattern, bool) {
	p := Pattern{Raw: line}

	body := line
	if strings.HasPrefix(body, "!") {
		p.Negated = true
		body = strings.TrimSpace(body[1:])
	}
	if strings.HasPrefix(body, "/") {
		p.RootRelative = true
		body = body[1:]
	}
	if strings.HasSuffix(body, "/") {
		p.DirOnly = true
		body = body[:len(body)-1]
	}

	if body == "" {
		return Pattern{}, false
	}
	p.Body = body
	return p, true
}

// Parse converts raw lines into patterns, preserving file order. Blank
// lines, comment lines and patterns that are empty after normalization are
// discarded.
func Parse(lines []string) []Pattern {
	var patterns []Pattern
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if p, ok := ParseLine(line); ok {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// LoadFile reads an ignore file (UTF-8, one pattern per line) and parses it.
func LoadFile(path string) ([]Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	return Parse(lines), nil
}

// Matcher decides whether paths under a fixed root are ignored.
// It is not safe for concurrent use; each planning run owns its own Matcher.
type Matcher struct {
	root     string
	patterns []Pattern
	globs    map[string]*glob // compiled glob cache, keyed by pattern text
}

// NewMatcher creates a Matcher for paths under root.
func NewMatcher(root string, patterns []Pattern) *Matcher {
	return &Matcher{
		root:     root,
		patterns: patterns,
		globs:    make(map[string]*glob),
	}
}

// Matches reports whether path is ignored. Patterns are evaluated in file
// order and the last matching pattern wins, so a later negation overrides an
// earlier exclusion. Paths outside the root never match.
func (m *Matcher) Matches(path string, isDir bool) bool {
	if len(m.patterns) == 0 {
		return false
	}

	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	if rel == "." {
		rel = ""
	}

	pathStr := filepath.ToSlash(rel)
	var parts []string
	if pathStr != "" {
		parts = strings.Split(pathStr, "/")
	}

	matched := false
	for _, p := range m.patterns {
		// Directory-only patterns are skipped entirely for files.
		if p.DirOnly && !isDir {
			continue
		}
		if m.patternMatches(p, pathStr, parts) {
			matched = !p.Negated
		}
	}
	return matched
}

// patternMatches tests one pattern against one path.
func (m *Matcher) patternMatches(p Pattern, pathStr string, parts []string) bool {
	// ".*" is a special case meaning "any path segment beginning with a
	// dot", independent of glob translation.
	if p.Body == ".*" {
		for _, part := range parts {
			if strings.HasPrefix(part, ".") {
				return true
			}
		}
		if len(parts) == 0 {
			return strings.HasPrefix(pathStr, ".") || strings.Contains(pathStr, "/.")
		}
		return false
	}

	// Collapse double-star forms to a single segment-crossing wildcard.
	body := strings.ReplaceAll(p.Body, "**/", "*")
	body = strings.ReplaceAll(body, "/**", "*")
	body = strings.ReplaceAll(body, "**", "*")

	if p.RootRelative {
		// Anchored patterns only test the full relative path and its
		// path-plus-anything form.
		return m.match(pathStr, body) || m.match(pathStr, body+"/*")
	}

	// Non-anchored patterns are segment-relative: test the relative path as
	// a suffix, then every segment suffix and every individual segment.
	if m.match(pathStr, "*"+body) || m.match(pathStr, "*"+body+"/*") {
		return true
	}
	for i := range parts {
		subpath := strings.Join(parts[i:], "/")
		if m.match(parts[i], body) ||
			m.match(subpath, body) ||
			m.match(subpath, "*"+body) ||
			m.match(subpath, body+"/*") {
			return true
		}
	}
	return false
}

// match applies a glob pattern, compiling and caching it on first use.
func (m *Matcher) match(name, pattern string) bool {
	g, ok := m.globs[pattern]
	if !ok {
		var err error
		g, err = compileGlob(pattern)
		if err != nil {
			// An uncompilable pattern matches nothing.
			g = nil
		}
		m.globs[pattern] = g
	}
	if g == nil {
		return false
	}
	return g.Match(name)
}
