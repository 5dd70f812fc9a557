package ocr

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`[\t\f\v]+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reDigitDots  = regexp.MustCompile(`(\d) ?\.{2,} ?(\d)`) // "01..05.2025"
	reNumToken   = regexp.MustCompile(`[0-9OoIlSB|][0-9OoIlSB|.,/\-]*`)
	reDateGroup  = regexp.MustCompile(`\b(\d{1,2})(?: ?[./\-] ?|,)(\d{1,2})(?: ?[./\-] ?|,)((?:19|20)?\d{2})\b`)
)

// OCR confusions that are only corrected inside numeric tokens.
var digitLookalikes = map[rune]rune{
	'O': '0',
	'o': '0',
	'I': '1',
	'l': '1',
	'|': '1',
	'S': '5',
	'B': '8',
}

// Normalize collapses noisy whitespace and repairs OCR typos around numbers and dates.
// It never fails: if anything goes wrong the input is returned unchanged.
func Normalize(s string) (out string) {
	if s == "" {
		return s
	}
	defer func() {
		if r := recover(); r != nil {
			out = s
		}
	}()
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, " ")
	}

	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")

	s = fixDigitLookalikes(s)
	s = reDigitDots.ReplaceAllString(s, "$1.$2")
	s = reDateGroup.ReplaceAllString(s, "$1.$2.$3")
	return strings.TrimSpace(s)
}

// fixDigitLookalikes rewrites letters to digits in tokens that are otherwise numeric.
// Interior letters need a digit neighbour; edge letters additionally need a date separator in the token.
func fixDigitLookalikes(s string) string {
	locs := reNumToken.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if letterBefore(s, start) || letterAfter(s, end) {
			continue
		}
		fixed, ok := fixToken(s[start:end])
		if !ok {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(fixed)
		last = end
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func fixToken(tok string) (string, bool) {
	runes := []rune(tok)
	digits, lookalikes, separators := 0, 0, 0
	for _, r := range runes {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case digitLookalikes[r] != 0:
			lookalikes++
		default:
			separators++
		}
	}
	if lookalikes == 0 || digits < 2 || lookalikes > digits {
		return tok, false
	}

	changed := false
	out := make([]rune, len(runes))
	copy(out, runes)
	for i, r := range runes {
		d, ok := digitLookalikes[r]
		if !ok {
			continue
		}
		prevDigit := i > 0 && isDigit(runes[i-1])
		nextDigit := i+1 < len(runes) && isDigit(runes[i+1])
		edge := i == 0 || i == len(runes)-1 || !isDigitOrLookalike(runes[i-1]) || !isDigitOrLookalike(runes[i+1])
		switch {
		case !edge && (prevDigit || nextDigit):
		case edge && separators > 0 && (prevDigit || nextDigit):
		default:
			continue
		}
		out[i] = d
		changed = true
	}
	return string(out), changed
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isDigitOrLookalike(r rune) bool {
	if isDigit(r) {
		return true
	}
	_, ok := digitLookalikes[r]
	return ok
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

func letterAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}
