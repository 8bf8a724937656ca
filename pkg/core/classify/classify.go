// Package classify holds the content heuristics shared by every scanner: a control byte test
// for binary data and a Unicode range test for non-target script.
package classify

import (
	"unicode"
	"unicode/utf8"
)

// SampleSize is the number of leading bytes of a file inspected by IsBinary.
const SampleSize = 8000

// IsBinary reports whether b contains a control byte that does not occur in text. TAB, LF,
// VT, FF and CR are allowed.
func IsBinary(b []byte) bool {
	for _, c := range b {
		if c <= 8 || (c >= 14 && c <= 31) {
			return true
		}
	}
	return false
}

// NonTargetScript is CJK Unified Ideographs and Hangul Syllables.
var NonTargetScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1},
		{Lo: 0xAC00, Hi: 0xD7AF, Stride: 1},
	},
}

func IsNonTargetRune(r rune) bool {
	return unicode.Is(NonTargetScript, r)
}

// ContainsNonTargetScript reports whether any code point of s is non-target script.
func ContainsNonTargetScript(s string) bool {
	for _, r := range s {
		if IsNonTargetRune(r) {
			return true
		}
	}
	return false
}

// ContainsNonTargetScriptBytes is ContainsNonTargetScript for UTF-8 encoded bytes. Invalid
// sequences decode to utf8.RuneError and never match.
func ContainsNonTargetScriptBytes(b []byte) bool {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if IsNonTargetRune(r) {
			return true
		}
		b = b[size:]
	}
	return false
}
