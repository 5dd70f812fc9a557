package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lowerKeepOffsets lower-cases s without changing any byte offset.
// Runes whose lower-case form has a different encoded length are left as they are.
func lowerKeepOffsets(s string) string {
	return strings.Map(func(r rune) rune {
		l := unicode.ToLower(r)
		if utf8.RuneLen(l) != utf8.RuneLen(r) {
			return r
		}
		return l
	}, s)
}

// wordIndexes returns the offsets where kw starts at a word boundary.
// With whole set, the occurrence must also end at one.
func wordIndexes(lower, kw string, whole bool) []int {
	var out []int
	for from := 0; from < len(lower); {
		i := strings.Index(lower[from:], kw)
		if i < 0 {
			break
		}
		at := from + i
		from = at + len(kw)
		if at > 0 {
			if r, _ := utf8.DecodeLastRuneInString(lower[:at]); isWordRune(r) {
				continue
			}
		}
		if whole && at+len(kw) < len(lower) {
			if r, _ := utf8.DecodeRuneInString(lower[at+len(kw):]); isWordRune(r) {
				continue
			}
		}
		out = append(out, at)
	}
	return out
}

func hasWord(lower, kw string, whole bool) bool {
	return len(wordIndexes(lower, kw, whole)) > 0
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
