package extract

import (
	"strings"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/confidence"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/estimate"
)

const (
	markerRadius     = 150
	weakMarkerRadius = 40
	domainLookahead  = 40
	sniffRadius      = 200
	domainFloor      = 70
	bareFloor        = 50

	statedDurationConfidence = 60
)

// roleMarker is a phrase that tells which role the nearby date plays.
// Weak markers are short words and must match as whole words.
type roleMarker struct {
	phrase string
	role   constants.DateRole
	strong bool
}

var explicitMarkers = []roleMarker{
	{"vertragsende", constants.RoleEnd, true},
	{"laufzeitende", constants.RoleEnd, true},
	{"ende der laufzeit", constants.RoleEnd, true},
	{"ende des vertrages", constants.RoleEnd, true},
	{"vertragsablauf", constants.RoleEnd, true},
	{"ablaufdatum", constants.RoleEnd, true},
	{"ablauf", constants.RoleEnd, true},
	{"enddatum", constants.RoleEnd, true},
	{"endet am", constants.RoleEnd, true},
	{"endet zum", constants.RoleEnd, true},
	{"endet mit ablauf", constants.RoleEnd, true},
	{"wirksam zum", constants.RoleEnd, true},
	{"gültig bis", constants.RoleEnd, true},
	{"befristet bis", constants.RoleEnd, true},
	{"läuft bis", constants.RoleEnd, true},
	{"gekündigt zum", constants.RoleEnd, true},
	{"kündigung zum", constants.RoleEnd, true},
	{"beendet zum", constants.RoleEnd, true},
	{"mietende", constants.RoleEnd, true},
	{"bis zum", constants.RoleEnd, false},
	{"bis", constants.RoleEnd, false},
	{"zum", constants.RoleEnd, false},
	{"ende", constants.RoleEnd, false},

	{"vertragsbeginn", constants.RoleStart, true},
	{"vertragsstart", constants.RoleStart, true},
	{"laufzeitbeginn", constants.RoleStart, true},
	{"beginn der laufzeit", constants.RoleStart, true},
	{"versicherungsbeginn", constants.RoleStart, true},
	{"mietbeginn", constants.RoleStart, true},
	{"arbeitsbeginn", constants.RoleStart, true},
	{"leistungsbeginn", constants.RoleStart, true},
	{"beginn", constants.RoleStart, true},
	{"beginnt am", constants.RoleStart, true},
	{"beginnt zum", constants.RoleStart, true},
	{"startdatum", constants.RoleStart, true},
	{"eintrittsdatum", constants.RoleStart, true},
	{"gültig ab", constants.RoleStart, true},
	{"in kraft", constants.RoleStart, true},
	{"ab dem", constants.RoleStart, false},
	{"ab", constants.RoleStart, false},
	{"seit", constants.RoleStart, false},
	{"vom", constants.RoleStart, false},
}

// domainMarkers introduce end dates in the wording of one contract type.
var domainMarkers = map[constants.ContractType][]string{
	constants.Insurance:  {"hauptfälligkeit", "versicherungsablauf", "ablauf der versicherung", "versicherungsende", "versicherungsjahr endet"},
	constants.Rental:     {"mietverhältnis endet", "ende des mietverhältnisses", "befristet bis zum", "mietzeit endet"},
	constants.Telecom:    {"mindestvertragslaufzeit bis", "vertragslaufzeit bis", "mindestlaufzeit bis", "tarifende"},
	constants.Employment: {"arbeitsverhältnis endet", "befristung endet", "befristet bis zum", "ende des arbeitsverhältnisses"},
	constants.Loan:       {"letzte rate", "zinsbindung bis", "zinsbindungsende", "sollzinsbindung bis"},
	constants.Service:    {"abonnement endet", "mitgliedschaft endet", "abo endet", "nächste verlängerung"},
}

// Context words sniffed around bare dates.
var (
	startSniff = []roleMarker{
		{"beginn", constants.RoleStart, true},
		{"start", constants.RoleStart, true},
		{"abschluss", constants.RoleStart, true},
		{"unterzeichnet", constants.RoleStart, true},
		{"eintritt", constants.RoleStart, true},
		{"ab", constants.RoleStart, false},
		{"seit", constants.RoleStart, false},
		{"vom", constants.RoleStart, false},
	}
	endSniff = []roleMarker{
		{"ende", constants.RoleEnd, true},
		{"endet", constants.RoleEnd, true},
		{"ablauf", constants.RoleEnd, true},
		{"befristet", constants.RoleEnd, true},
		{"kündig", constants.RoleEnd, true},
		{"laufzeit", constants.RoleEnd, true},
		{"frist", constants.RoleEnd, true},
		{"bis", constants.RoleEnd, false},
	}
)

type markerHit struct {
	roleMarker
	at, end int
}

func findMarkers(lower string, markers []roleMarker) []markerHit {
	var hits []markerHit
	for _, mk := range markers {
		for _, at := range wordIndexes(lower, mk.phrase, !mk.strong) {
			hits = append(hits, markerHit{roleMarker: mk, at: at, end: at + len(mk.phrase)})
		}
	}
	return hits
}

// dateBetween reports whether another date lies fully inside [from, to).
func dateBetween(all []dates.Match, from, to int) bool {
	for _, d := range all {
		if d.Start >= from && d.End <= to {
			return true
		}
	}
	return false
}

// nearestMarker picks the marker closest to m. Markers after the date count
// with a penalty and only inside the same clause, and never when they
// introduce a date of their own. Markers separated from m by another date do
// not count.
func nearestMarker(lower string, hits []markerHit, m dates.Match, all []dates.Match) (markerHit, bool) {
	var best markerHit
	bestDist := -1
	for _, h := range hits {
		limit := markerRadius
		if !h.strong {
			limit = weakMarkerRadius
		}
		var dist, gap int
		switch {
		case h.end <= m.Start:
			gap = m.Start - h.end
			if dateBetween(all, h.end, m.Start) {
				continue
			}
			dist = gap
		case h.at >= m.End:
			gap = h.at - m.End
			if dateBetween(all, m.End, h.at) || strings.ContainsAny(lower[m.End:h.at], clauseBreaks) || dateFollows(all, h.end, limit) {
				continue
			}
			dist = 20 + 2*gap
		default:
			continue
		}
		if gap > limit {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && outranks(h.roleMarker, best.roleMarker)) {
			best, bestDist = h, dist
		}
	}
	return best, bestDist >= 0
}

const clauseBreaks = ".;!?"

// dateFollows reports whether a date starts within limit bytes after from.
func dateFollows(all []dates.Match, from, limit int) bool {
	for _, d := range all {
		if d.Start >= from && d.Start-from <= limit {
			return true
		}
	}
	return false
}

func outranks(a, b roleMarker) bool {
	if a.strong != b.strong {
		return a.strong
	}
	return len(a.phrase) > len(b.phrase)
}

// explicitMarkerPass scores every date next to a role marker.
type explicitMarkerPass struct{ sc scorer }

func (explicitMarkerPass) Name() string { return "explicit_marker" }
func (explicitMarkerPass) Applies(Resolution) bool { return true }

func (p explicitMarkerPass) Attempt(in *DateInput, _ Resolution) []Candidate {
	hits := findMarkers(in.Lower, explicitMarkers)
	var out []Candidate
	for _, m := range in.Dates {
		h, ok := nearestMarker(in.Lower, hits, m, in.Dates)
		if !ok {
			continue
		}
		s := confidence.New("base", 20)
		if h.strong {
			s = s.Add("strong_marker", 40)
		} else {
			s = s.Add("weak_marker", 10)
		}
		s, ok = p.sc.score(s, in, h.role, m)
		if !ok {
			continue
		}
		out = append(out, extracted(h.role, m, s, p.Name()))
	}
	return out
}

// domainMarkerPass looks for end dates phrased the way one contract type phrases them.
type domainMarkerPass struct{ sc scorer }

func (domainMarkerPass) Name() string { return "domain_marker" }

func (domainMarkerPass) Applies(r Resolution) bool {
	return r.End == nil || r.End.Score.Value() < domainFloor
}

func (p domainMarkerPass) Attempt(in *DateInput, _ Resolution) []Candidate {
	var out []Candidate
	for _, phrase := range domainPhrases(in.Type) {
		for _, at := range wordIndexes(in.Lower, phrase, false) {
			m, ok := firstDateAfter(in, at+len(phrase))
			if !ok {
				continue
			}
			s := confidence.New("base", 20).Add("domain_marker", 40)
			s = s.AddIf(m.Partial, "partial_date", -5)
			s, ok = p.sc.score(s, in, constants.RoleEnd, m)
			if !ok {
				continue
			}
			out = append(out, extracted(constants.RoleEnd, m, s, p.Name()))
		}
	}
	return out
}

// domainPhrases returns the phrases of ct; OTHER uses every table.
func domainPhrases(ct constants.ContractType) []string {
	if ct != constants.Other {
		return domainMarkers[ct]
	}
	var all []string
	for _, t := range constants.ContractTypes() {
		all = append(all, domainMarkers[t]...)
	}
	return all
}

func firstDateAfter(in *DateInput, from int) (dates.Match, bool) {
	var pick dates.Match
	found := false
	for _, group := range [][]dates.Match{in.Dates, in.Partials} {
		for _, m := range group {
			if m.Start < from || m.Start-from > domainLookahead {
				continue
			}
			if !found || m.Start < pick.Start {
				pick, found = m, true
			}
		}
	}
	return pick, found
}

// bareDatePass assigns roles from surrounding words, then falls back to
// earliest as start and latest as end.
type bareDatePass struct{ sc scorer }

func (bareDatePass) Name() string { return "bare_date" }

func (bareDatePass) Applies(r Resolution) bool {
	if r.Start == nil && r.End == nil {
		return true
	}
	for _, c := range []*Candidate{r.Start, r.End} {
		if c != nil && c.Score.Value() >= bareFloor {
			return false
		}
	}
	return true
}

func (p bareDatePass) Attempt(in *DateInput, _ Resolution) []Candidate {
	var out []Candidate
	for _, m := range in.Dates {
		window := dates.Window(in.Lower, m.Start, m.End, sniffRadius, sniffRadius)
		starts, ends := countHits(window, startSniff), countHits(window, endSniff)
		if starts == ends {
			continue
		}
		role := constants.RoleStart
		if ends > starts {
			role = constants.RoleEnd
		}
		s := confidence.New("base", 20).Add("keyword_context", 10).Add("bare_date", -10)
		s, ok := p.sc.score(s, in, role, m)
		if !ok {
			continue
		}
		out = append(out, extracted(role, m, s, p.Name()))
	}
	if len(out) > 0 {
		return out
	}
	return p.fallback(in)
}

func (p bareDatePass) fallback(in *DateInput) []Candidate {
	if len(in.Dates) == 0 {
		return nil
	}
	first, last := in.Dates[0], in.Dates[0]
	for _, m := range in.Dates[1:] {
		if m.Value.Before(first.Value) {
			first = m
		}
		if m.Value.After(last.Value) {
			last = m
		}
	}
	if first.Value.Equal(last.Value) {
		return nil
	}
	var out []Candidate
	for _, pick := range []struct {
		role constants.DateRole
		m    dates.Match
	}{{constants.RoleStart, first}, {constants.RoleEnd, last}} {
		if !p.sc.bounds.Plausible(pick.role, pick.m.Value, in.Now) {
			continue
		}
		s := confidence.New("base", 20).Add("bare_date", -10)
		s, ok := p.sc.score(s, in, pick.role, pick.m)
		if !ok {
			continue
		}
		out = append(out, extracted(pick.role, pick.m, s, "bare_fallback"))
	}
	return out
}

func countHits(window string, words []roleMarker) int {
	n := 0
	for _, w := range words {
		if hasWord(window, w.phrase, !w.strong) {
			n++
		}
	}
	return n
}

// estimationPass derives a missing end date from the stated duration, else
// from the type default. Indefinite contracts get no end date.
type estimationPass struct{}

func (estimationPass) Name() string { return "estimate" }

func (estimationPass) Applies(r Resolution) bool { return r.Start != nil && r.End == nil }

func (p estimationPass) Attempt(in *DateInput, r Resolution) []Candidate {
	var (
		v    time.Time
		conf confidence.Score
	)
	switch d := in.Duration; {
	case d != nil && d.Indefinite:
		return nil
	case d != nil && d.Months > 0:
		v = dates.AddMonths(r.Start.Value, d.Months)
		conf = confidence.New("stated_duration", statedDurationConfidence)
	default:
		end, c := estimate.EndDate(in.Type, r.Start.Value)
		v, conf = end, confidence.New("type_default", c)
	}
	return []Candidate{{
		Role:   constants.RoleEnd,
		Value:  v,
		Score:  conf,
		Pass:   p.Name(),
		Source: constants.SourceEstimated,
	}}
}
