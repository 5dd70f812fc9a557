package extract

import (
	"log/slog"
	"regexp"

	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// MaxDurationMonths bounds believable contract terms.
const MaxDurationMonths = 360

const monthUnitPattern = `(monaten|monate|monat|jahren|jahre|jahr)`

type durationRule struct {
	re         *regexp.Regexp
	confidence int
}

var (
	durationRules = []durationRule{
		{regexp.MustCompile(`\b(?:vertrags|gesamt)?laufzeit\b[^.\n]{0,40}?\b` + numberPattern + `\s*` + monthUnitPattern + `\b`), 80},
		{regexp.MustCompile(`\b` + numberPattern + `\s*-?\s*(monatig|jährig)e[nmrs]?\s+(?:vertrags)?laufzeit`), 75},
		{regexp.MustCompile(`\b(?:wird|ist)\s+(?:für|auf)\s+(?:die\s+dauer\s+von\s+)?` + numberPattern + `\s*` + monthUnitPattern + `\s+(?:fest\s+)?(?:abgeschlossen|geschlossen)`), 75},
	}
	reIndefinite = regexp.MustCompile(`\bunbefristet\b|\bauf\s+unbestimmte\s+zeit\b`)
)

type DurationExtractor struct {
	logger *slog.Logger
}

func NewDurationExtractor(logger *slog.Logger) *DurationExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DurationExtractor{logger: logger}
}

// Extract returns the agreed term, an indefinite marker, or nil.
func (e *DurationExtractor) Extract(text string) *entity.Duration {
	lower := lowerKeepOffsets(text)
	for _, rule := range durationRules {
		for _, sub := range rule.re.FindAllStringSubmatch(lower, -1) {
			n, ok := parseNumber(sub[1])
			if !ok {
				continue
			}
			months, ok := durationMonths(n, sub[2])
			if !ok || months <= 0 || months > MaxDurationMonths {
				e.logger.Debug("extract.duration.implausible", "match", sub[0])
				continue
			}
			return &entity.Duration{Months: months, Confidence: rule.confidence}
		}
	}
	if reIndefinite.MatchString(lower) {
		return &entity.Duration{Indefinite: true, Confidence: 80}
	}
	return nil
}

// durationMonths also accepts the adjective forms "monatig" and "jährig".
func durationMonths(n int, unit string) (int, bool) {
	switch unit {
	case "monatig":
		return n, true
	case "jährig":
		return n * 12, true
	}
	return unitMonths(n, unit)
}
