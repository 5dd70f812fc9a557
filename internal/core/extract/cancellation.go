package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

const dailyContextRadius = 100

var (
	reQuarterlyDeadline = regexp.MustCompile(`\b` + numberPattern + `\s*` + unitPattern + `\b[^.\n]{0,20}?\b(?:zum|zu)\s+(?:quartalsende|(?:ende|schluss)\s+(?:eines|des|jedes|jeden)\s+(?:kalender)?(?:quartals|vierteljahres|vierteljahrs))`)
	reMonthlyDeadline   = regexp.MustCompile(`\b` + numberPattern + `\s*` + unitPattern + `\b[^.\n]{0,20}?\b(?:zum|zu)\s+(?:monatsende|(?:ende|schluss)\s+(?:eines|des|jedes|jeden)\s+(?:kalender)?monats)`)
	reDaily             = regexp.MustCompile(`\b(?:täglich|jederzeit)\s+(?:\S+\s+){0,2}?(?:kündbar|kündigen|gekündigt)`)
	reEndOfPeriod       = regexp.MustCompile(`\b` + numberPattern + `\s*` + unitPattern + `\b[^.\n]{0,15}?\b(?:vor|zum)\s+(?:dem\s+)?(?:ende|ablauf)\s+(?:der|des)\s+(?:jeweiligen\s+)?(?:vertrags|mindest|verlängerungs)?(?:laufzeit|vertragsjahres|versicherungsjahres|abrechnungszeitraums|vertragszeit)`)
	reBeforeExpiry      = regexp.MustCompile(`\b` + numberPattern + `\s*` + unitPattern + `\s+vor\s+(?:dem\s+)?(?:ablauf|ende|vertragsende|laufzeitende|vertragsablauf)\b`)
	reStandard          = []*regexp.Regexp{
		regexp.MustCompile(`kündigungsfrist[^.\n\d]{0,30}?\b` + numberPattern + `\s*` + unitPattern + `\b`),
		regexp.MustCompile(`\bfrist\s+von\s+` + numberPattern + `\s*` + unitPattern + `\b`),
		regexp.MustCompile(`\bkündig\w*[^.\n\d]{0,40}?\b` + numberPattern + `\s*` + unitPattern + `\b`),
	}
	reNamedTerm = regexp.MustCompile(`(?:kündigungsfrist|kündbar|kündigen|kündigung)[^.\n]{0,40}?\b(?:(?:ein|einem|eines)\s+)?(quartal|vierteljahr|halbjahr|halben\s+jahr)|\b(vierteljährlich|halbjährlich)\s+kündbar`)
)

// Words that make a "jederzeit kündbar" phrase about the contract itself.
var dailyContextWords = []string{"vertrag", "kündigung", "tarif", "abonnement", "abo", "mitgliedschaft", "laufzeit"}

type CancellationExtractor struct {
	logger *slog.Logger
}

func NewCancellationExtractor(logger *slog.Logger) *CancellationExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CancellationExtractor{logger: logger}
}

// Extract walks the rules in priority order; the first hit wins.
// Without any hit it returns nil rather than a default period.
func (e *CancellationExtractor) Extract(text string) *entity.CancellationTerms {
	lower := lowerKeepOffsets(text)
	rules := []func(string) *entity.CancellationTerms{
		recurringDeadline,
		dailyTerms,
		endOfPeriod,
		standardTerms,
		namedTerms,
	}
	for _, rule := range rules {
		if t := rule(lower); t != nil {
			e.logger.Debug("extract.cancellation", "kind", t.Kind, "days", t.Days, "match", t.Match)
			return t
		}
	}
	return nil
}

func recurringDeadline(lower string) *entity.CancellationTerms {
	for _, c := range []struct {
		re   *regexp.Regexp
		kind constants.CancellationKind
	}{
		{reQuarterlyDeadline, constants.KindQuarterlyDeadline},
		{reMonthlyDeadline, constants.KindMonthlyDeadline},
	} {
		if t := numericTerms(lower, c.re, c.kind, 85); t != nil {
			return t
		}
	}
	return nil
}

func dailyTerms(lower string) *entity.CancellationTerms {
	for _, loc := range reDaily.FindAllStringIndex(lower, -1) {
		around := dates.Window(lower, loc[0], loc[1], dailyContextRadius, dailyContextRadius)
		for _, w := range dailyContextWords {
			if hasWord(around, w, false) {
				return &entity.CancellationTerms{Days: 0, Kind: constants.KindDaily, Confidence: 90, Match: lower[loc[0]:loc[1]]}
			}
		}
	}
	return nil
}

// endOfPeriod never applies to texts that mention daily cancellation at all.
func endOfPeriod(lower string) *entity.CancellationTerms {
	if reDaily.MatchString(lower) {
		return nil
	}
	if t := numericTerms(lower, reEndOfPeriod, constants.KindEndOfPeriod, 75); t != nil {
		return t
	}
	return beforeExpiry(lower)
}

// beforeExpiry reads "3 Monate vor Ablauf" when the same sentence is about
// cancelling, whether the verb comes before or after the period.
func beforeExpiry(lower string) *entity.CancellationTerms {
	for _, loc := range reBeforeExpiry.FindAllStringSubmatchIndex(lower, -1) {
		if !strings.Contains(sentenceAround(lower, loc[0], loc[1]), "kündig") {
			continue
		}
		sub := []string{lower[loc[0]:loc[1]], lower[loc[2]:loc[3]], lower[loc[4]:loc[5]]}
		if t := termsOf(sub, constants.KindEndOfPeriod, 70); t != nil {
			return t
		}
	}
	return nil
}

// sentenceAround widens [from, to) to the enclosing sentence or line.
func sentenceAround(lower string, from, to int) string {
	lo := strings.LastIndexAny(lower[:from], ".\n") + 1
	hi := len(lower)
	if i := strings.IndexAny(lower[to:], ".\n"); i >= 0 {
		hi = to + i
	}
	return lower[lo:hi]
}

func standardTerms(lower string) *entity.CancellationTerms {
	for _, re := range reStandard {
		if t := numericTerms(lower, re, constants.KindStandard, 80); t != nil {
			return t
		}
	}
	return nil
}

func namedTerms(lower string) *entity.CancellationTerms {
	sub := reNamedTerm.FindStringSubmatch(lower)
	if sub == nil {
		return nil
	}
	name := sub[1] + sub[2]
	days := 90
	if strings.HasPrefix(name, "halb") {
		days = 180
	}
	return &entity.CancellationTerms{Days: days, Kind: constants.KindStandard, Confidence: 70, Match: sub[0]}
}

// numericTerms turns the first "<number> <unit>" match of re into terms.
func numericTerms(lower string, re *regexp.Regexp, kind constants.CancellationKind, conf int) *entity.CancellationTerms {
	for _, sub := range re.FindAllStringSubmatch(lower, -1) {
		if t := termsOf(sub, kind, conf); t != nil {
			return t
		}
	}
	return nil
}

// termsOf reads sub[1] as the number and sub[2] as the unit; nil when out of range.
func termsOf(sub []string, kind constants.CancellationKind, conf int) *entity.CancellationTerms {
	n, ok := parseNumber(sub[1])
	if !ok || n <= 0 {
		return nil
	}
	days := unitDays(n, sub[2])
	if days <= 0 || days > 730 {
		return nil
	}
	return &entity.CancellationTerms{Days: days, Kind: kind, Confidence: conf, Match: sub[0]}
}
