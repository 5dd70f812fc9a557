// Package dates finds calendar dates in German contract text.
//
// All values are normalized to midnight UTC so that comparisons and
// month arithmetic do not depend on the host time zone.
package dates

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Layout is the ISO-8601 day layout handed to downstream consumers.
const Layout = "2006-01-02"

// GermanLayout is the display layout used in quick facts.
const GermanLayout = "02.01.2006"

// Match is one date occurrence; Start and End are byte offsets into the searched text.
type Match struct {
	Value   time.Time
	Start   int
	End     int
	Text    string
	Partial bool
}

var (
	reNumeric = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4}|\d{2})\b`)
	reISO     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	reNamed   = regexp.MustCompile(`(?i)\b(\d{1,2})\.?\s*(januar|jänner|februar|märz|maerz|april|mai|juni|juli|august|september|oktober|november|dezember|jan|feb|mär|mrz|apr|jun|jul|aug|sept|sep|okt|nov|dez)\.?\s+(\d{4})\b`)
	rePartial = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(?:[\s,;)]|$)`)
)

var monthNames = map[string]time.Month{
	"januar": time.January, "jänner": time.January, "jan": time.January,
	"februar": time.February, "feb": time.February,
	"märz": time.March, "maerz": time.March, "mär": time.March, "mrz": time.March,
	"april": time.April, "apr": time.April,
	"mai": time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"dezember": time.December, "dez": time.December,
}

// FindAll returns every complete date in text ordered by position.
func FindAll(text string) []Match {
	var out []Match
	for _, loc := range reNumeric.FindAllStringSubmatchIndex(text, -1) {
		d, _ := strconv.Atoi(text[loc[2]:loc[3]])
		m, _ := strconv.Atoi(text[loc[4]:loc[5]])
		y, _ := strconv.Atoi(text[loc[6]:loc[7]])
		if loc[7]-loc[6] == 2 {
			y = expandYear(y)
		}
		if v, ok := Make(y, time.Month(m), d); ok {
			out = append(out, Match{Value: v, Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]})
		}
	}
	for _, loc := range reISO.FindAllStringSubmatchIndex(text, -1) {
		y, _ := strconv.Atoi(text[loc[2]:loc[3]])
		m, _ := strconv.Atoi(text[loc[4]:loc[5]])
		d, _ := strconv.Atoi(text[loc[6]:loc[7]])
		if v, ok := Make(y, time.Month(m), d); ok {
			out = append(out, Match{Value: v, Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]})
		}
	}
	for _, loc := range reNamed.FindAllStringSubmatchIndex(text, -1) {
		d, _ := strconv.Atoi(text[loc[2]:loc[3]])
		month, ok := monthNames[strings.ToLower(text[loc[4]:loc[5]])]
		if !ok {
			continue
		}
		y, _ := strconv.Atoi(text[loc[6]:loc[7]])
		if v, ok := Make(y, month, d); ok {
			out = append(out, Match{Value: v, Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// FindPartial returns year-less dates ("01.01.") resolved to their next occurrence on or after now.
func FindPartial(text string, now time.Time) []Match {
	today := Day(now)
	var out []Match
	for _, loc := range rePartial.FindAllStringSubmatchIndex(text, -1) {
		d, _ := strconv.Atoi(text[loc[2]:loc[3]])
		m, _ := strconv.Atoi(text[loc[4]:loc[5]])
		v, ok := Make(today.Year(), time.Month(m), d)
		if !ok {
			continue
		}
		if v.Before(today) {
			if v, ok = Make(today.Year()+1, time.Month(m), d); !ok {
				continue
			}
		}
		end := loc[5] + 1 // include the trailing dot only
		out = append(out, Match{Value: v, Start: loc[0], End: end, Text: text[loc[0]:end], Partial: true})
	}
	return out
}

// Make builds a date and rejects impossible calendar days such as 31.02.
func Make(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	v := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if v.Day() != day || v.Month() != month {
		return time.Time{}, false
	}
	return v, true
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Day strips the clock part and moves t to UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months, clamping to the last day of the target month.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween is the signed number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Window returns text[start-before : end+after], clamped to the text bounds.
func Window(text string, start, end, before, after int) string {
	lo := start - before
	if lo < 0 {
		lo = 0
	}
	hi := end + after
	if hi > len(text) {
		hi = len(text)
	}
	if lo > hi {
		return ""
	}
	return text[lo:hi]
}

func expandYear(y int) int {
	if y < 70 {
		return 2000 + y
	}
	return 1900 + y
}
