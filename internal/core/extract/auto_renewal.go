package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

var (
	reRenewalNegation = []*regexp.Regexp{
		regexp.MustCompile(`\bkeine\s+(?:automatische|stillschweigende)\s+(?:vertrags)?verlängerung`),
		regexp.MustCompile(`\bverlängert\s+sich\s+(?:\S+\s+){0,2}?nicht\s+(?:automatisch|stillschweigend)`),
		regexp.MustCompile(`\bnicht\s+(?:automatisch|stillschweigend)\s+verlängert`),
		regexp.MustCompile(`\b(?:automatische|stillschweigende)\s+verlängerung\s+(?:ist\s+)?ausgeschlossen`),
		regexp.MustCompile(`\bendet\s+automatisch\b`),
		regexp.MustCompile(`\bohne\s+dass\s+es\s+einer\s+kündigung\s+bedarf`),
	}
	reRenewalPositive = []*regexp.Regexp{
		regexp.MustCompile(`\bverlängert\s+sich\b`),
		regexp.MustCompile(`\b(?:automatische|stillschweigende)\s+(?:vertrags)?verlängerung`),
		regexp.MustCompile(`\b(?:automatisch|stillschweigend)\s+(?:\S+\s+){0,5}?verlängert`),
	}
	// Conditions on the cancellation ("wenn er nicht gekündigt wird") qualify a renewal; they do not negate it.
	reRenewalCondition = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:wenn|sofern|falls|soweit)\b[^.]{0,120}?\bnicht\b[^.]{0,120}?\b(?:gekündigt|kündigt)`),
		regexp.MustCompile(`\b(?:wenn|sofern|falls|soweit)\b[^.]{0,80}?\bkeine?\s+kündigung`),
		regexp.MustCompile(`\bnicht\s+(?:\S+\s+){0,4}?gekündigt`),
	}
	reRenewalIncrement = regexp.MustCompile(`\bum\s+(?:jeweils\s+)?(?:weitere[ns]?\s+)?` + numberPattern + `\s+(?:weitere[ns]?\s+)?` + monthUnitPattern + `\b`)
)

// Words that negate a nearby renewal clause.
var renewalNegationWords = []string{"nicht", "kein", "keine", "keinen", "ausgeschlossen"}

const (
	negationBefore = 100
	negationAfter  = 200
)

type AutoRenewalDetector struct {
	logger *slog.Logger
}

func NewAutoRenewalDetector(logger *slog.Logger) *AutoRenewalDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoRenewalDetector{logger: logger}
}

// Detect checks explicit negations first; they override any positive clause.
func (d *AutoRenewalDetector) Detect(text string) entity.AutoRenewal {
	lower := lowerKeepOffsets(text)
	for _, re := range reRenewalNegation {
		if m := re.FindString(lower); m != "" {
			d.logger.Debug("extract.auto_renewal.negated", "match", m)
			return entity.AutoRenewal{Active: false, Confidence: 90, Negated: true}
		}
	}

	masked := maskConditions(lower)
	discarded := false
	for _, re := range reRenewalPositive {
		for _, loc := range re.FindAllStringIndex(lower, -1) {
			around := dates.Window(masked, loc[0], loc[1], negationBefore, negationAfter)
			if w := negationWord(around); w != "" {
				d.logger.Debug("extract.auto_renewal.discarded", "match", lower[loc[0]:loc[1]], "negation", w)
				discarded = true
				continue
			}
			return entity.AutoRenewal{
				Active:        true,
				Confidence:    85,
				RenewalMonths: renewalMonths(dates.Window(lower, loc[0], loc[1], 0, negationAfter)),
			}
		}
	}
	if discarded {
		return entity.AutoRenewal{Active: false, Confidence: 70, Negated: true}
	}
	return entity.AutoRenewal{Active: false, Confidence: 50}
}

// maskConditions blanks conditional cancellation clauses so their "nicht" does not count.
// Offsets are preserved.
func maskConditions(lower string) string {
	out := []byte(lower)
	for _, re := range reRenewalCondition {
		for _, loc := range re.FindAllStringIndex(lower, -1) {
			for i := loc[0]; i < loc[1]; i++ {
				out[i] = ' '
			}
		}
	}
	return string(out)
}

func negationWord(window string) string {
	for _, w := range renewalNegationWords {
		if hasWord(window, w, true) {
			return w
		}
	}
	return ""
}

func renewalMonths(after string) int {
	sub := reRenewalIncrement.FindStringSubmatch(strings.TrimSpace(after))
	if sub == nil {
		return 0
	}
	n, ok := parseNumber(sub[1])
	if !ok {
		return 0
	}
	m, _ := unitMonths(n, sub[2])
	return m
}
