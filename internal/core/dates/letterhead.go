package dates

import (
	"regexp"
	"strings"
)

// A city name directly before the date, business-letter style: "Berlin, den 10.05.2025".
var reLetterheadPrefix = regexp.MustCompile(`([A-ZÄÖÜ][a-zäöüß]+(?:[ -](?:am |an der |a\. ?)?[A-ZÄÖÜ][a-zäöüß]+)?)(?:,\s*den|,|\s+den)\s*$`)

// Capitalized nouns that precede dates in contract clauses and are not places.
var notCities = map[string]struct{}{
	"Datum": {}, "Stand": {}, "Beginn": {}, "Ende": {}, "Ablauf": {}, "Laufzeit": {},
	"Vertragsbeginn": {}, "Vertragsende": {}, "Kündigung": {}, "Frist": {}, "Rechnung": {},
	"Rechnungsdatum": {}, "Termin": {}, "Lieferung": {}, "Zahlung": {}, "Versicherungsbeginn": {},
	"Mietbeginn": {}, "Abschluss": {}, "Stichtag": {}, "Fälligkeit": {}, "Hauptfälligkeit": {},
	"Unterschrift": {}, "Ort": {}, "Gültig": {}, "Montag": {}, "Dienstag": {}, "Mittwoch": {},
	"Donnerstag": {}, "Freitag": {}, "Samstag": {}, "Sonntag": {},
}

// Phrases that turn a letterhead-looking date into a contractual deadline.
var cancellationMarkers = []string{
	"gekündigt zum",
	"kündigung zum",
	"kündigen zum",
	"wirksam zum",
	"beendet zum",
	"kündigungstermin",
}

const letterheadReach = 60

// IsLetterhead reports whether m looks like the issue date of a letter.
func IsLetterhead(text string, m Match) bool {
	_, ok := letterheadStart(text, m)
	return ok
}

// letterheadStart returns the offset of the place name introducing m.
func letterheadStart(text string, m Match) (int, bool) {
	lo := m.Start - letterheadReach
	if lo < 0 {
		lo = 0
	}
	loc := reLetterheadPrefix.FindStringSubmatchIndex(text[lo:m.Start])
	if loc == nil {
		return 0, false
	}
	first := text[lo+loc[2] : lo+loc[3]]
	if i := strings.IndexAny(first, " -"); i > 0 {
		first = first[:i]
	}
	if _, stop := notCities[first]; stop {
		return 0, false
	}
	return lo + loc[0], true
}

// ExcludeLetterhead reports whether m must be ignored as a deadline candidate:
// it is a letterhead date and no cancellation marker introduces its place line.
func ExcludeLetterhead(text string, m Match) bool {
	at, ok := letterheadStart(text, m)
	if !ok {
		return false
	}
	return !introducedBy(text, at, cancellationMarkers)
}

// introducedBy reports whether one of markers ends right before pos,
// allowing only blanks and a colon in between.
func introducedBy(text string, pos int, markers []string) bool {
	tail := strings.ToLower(Window(text, pos, pos, 30, 0))
	tail = strings.TrimRight(tail, " \t\n:")
	for _, marker := range markers {
		if strings.HasSuffix(tail, marker) {
			return true
		}
	}
	return false
}
