// Package normalizer computes canonical file and directory names for renorm.
package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"renorm/internal/script"
)

// FallbackName is substituted when a name is empty after normalization.
const FallbackName = "unnamed"

// asciiFold applies compatibility decomposition and then drops every code
// point outside the 7-bit ASCII range. Accented Latin letters reduce to
// their bare form; anything non-ASCII that survives decomposition is
// silently discarded.
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Normalize produces the canonical lowercase/underscore form of a name.
// When keepExtension is true and the name contains a dot, everything after
// the last dot is treated as the extension and carried through lowercased
// but otherwise untouched.
//
// Names whose base contains a protected script (CJK, Cyrillic, Arabic, ...)
// are returned verbatim; ASCII-folding would corrupt them.
//
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(name string, keepExtension bool) string {
	base, ext := splitExtension(name, keepExtension)

	if script.HasProtected(base) {
		return name
	}

	folded, _, err := transform.String(asciiFold, base)
	if err != nil {
		// The fold transform cannot fail on valid UTF-8; on malformed
		// input fall back to the raw base so the character filter below
		// still produces a usable name.
		folded = base
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == '-':
			b.WriteRune('_')
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	normalized := strings.Trim(b.String(), "_")
	normalized = strings.ToLower(normalized)
	if normalized == "" {
		normalized = FallbackName
	}

	return normalized + strings.ToLower(ext)
}

// splitExtension splits a name on its last dot. The extension keeps its
// leading dot; a name without a dot, or a directory name, has no extension.
func splitExtension(name string, keepExtension bool) (base, ext string) {
	if !keepExtension {
		return name, ""
	}
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}
