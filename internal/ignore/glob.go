package ignore

import (
	"regexp"
	"strings"
)

// glob is a compiled fnmatch-style pattern. Unlike path.Match, "*" and "?"
// cross path separators here; segment boundaries are handled by the caller,
// not by the glob itself.
type glob struct {
	re *regexp.Regexp
}

// compileGlob translates a glob pattern ("*", "?", "[...]") into a regular
// expression and compiles it.
func compileGlob(pattern string) (*glob, error) {
	re, err := regexp.Compile(translate(pattern))
	if err != nil {
		return nil, err
	}
	return &glob{re: re}, nil
}

// Match reports whether name matches the whole pattern.
func (g *glob) Match(name string) bool {
	return g.re.MatchString(name)
}

// translate converts a glob pattern into an anchored regular expression.
// "*" becomes ".*", "?" becomes ".", and "[...]" character classes pass
// through with "!" mapped to "^". An unterminated "[" is taken literally.
func translate(pattern string) string {
	var b strings.Builder
	b.WriteString(`(?s)^`)

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			j := i + 1
			if j < len(runes) && runes[j] == '!' {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				b.WriteString(`\[`)
				continue
			}
			class := strings.ReplaceAll(string(runes[i+1:j]), `\`, `\\`)
			i = j
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			} else if strings.HasPrefix(class, "^") {
				class = `\` + class
			}
			b.WriteByte('[')
			b.WriteString(class)
			b.WriteByte(']')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteString(`$`)
	return b.String()
}
