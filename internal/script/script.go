// Package script detects writing systems that must be preserved verbatim for renorm.
package script

import "unicode"

// protected lists the script blocks whose presence marks a name as
// non-normalizable. ASCII-folding these scripts would destroy the name
// rather than transliterate it, so such names are left untouched.
var protected = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Cyrillic,
	unicode.Hebrew,
	unicode.Arabic,
	unicode.Thai,
	unicode.Devanagari,
	unicode.Greek,
	unicode.Armenian,
	unicode.Georgian,
}

// HasProtected reports whether text contains at least one code point from a
// protected script block. Combining marks are skipped: a diacritic always
// decomposes cleanly and never makes a name non-normalizable on its own.
func HasProtected(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsOneOf(protected, r) {
			return true
		}
	}
	return false
}
