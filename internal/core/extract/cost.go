package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/confidence"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// amountPattern takes the whole digit run with its separators; parseAmount
// decides whether it is a valid amount.
const amountPattern = `(\d[\d.,]*\d|\d)`

var (
	reAmountAfter  = regexp.MustCompile(`\b` + amountPattern + `[ \t]*(?:€|eur\b|euro\b)`)
	reAmountBefore = regexp.MustCompile(`(?:€|\beur\b|\beuro\b)[ \t]*` + amountPattern + `\b`)
)

// Words right before an amount that mark it as the recurring price.
var costKeywords = []string{
	"monatlicher beitrag", "monatsbeitrag", "beitrag", "grundgebühr", "kaltmiete", "warmmiete", "miete",
	"monatliche rate", "rate", "preis", "kaufpreis", "gesamtbetrag", "rechnungsbetrag", "zu zahlender betrag",
	"bruttomonatsgehalt", "bruttogehalt", "gehalt", "prämie", "jahresbeitrag", "entgelt", "gebühr",
}

var intervalWords = []struct {
	interval constants.CostInterval
	words    []string
}{
	{constants.IntervalMonthly, []string{"monatlich", "monatliche", "monatlicher", "pro monat", "mtl", "monatsbeitrag", "monatsmiete", "monat"}},
	{constants.IntervalYearly, []string{"jährlich", "jährliche", "jährlicher", "pro jahr", "jahresbeitrag", "p.a", "jahr"}},
	{constants.IntervalOnce, []string{"einmalig", "einmalige", "einmaliger"}},
}

const (
	costBefore = 60
	costAfter  = 40
)

type CostExtractor struct {
	logger *slog.Logger
}

func NewCostExtractor(logger *slog.Logger) *CostExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CostExtractor{logger: logger}
}

type costCandidate struct {
	cost  entity.Cost
	at    int
	score confidence.Score
}

// Extract picks the euro amount with the strongest price context.
func (e *CostExtractor) Extract(text string) *entity.Cost {
	lower := lowerKeepOffsets(text)
	var best *costCandidate
	for _, re := range []*regexp.Regexp{reAmountAfter, reAmountBefore} {
		for _, loc := range re.FindAllStringSubmatchIndex(lower, -1) {
			if midNumber(lower, loc[2]) {
				continue
			}
			amount, err := parseAmount(lower[loc[2]:loc[3]])
			if err != nil || !amount.IsPositive() {
				e.logger.Debug("extract.cost.skipped", "amount", lower[loc[2]:loc[3]])
				continue
			}
			before := dates.Window(lower, loc[0], loc[0], costBefore, 0)
			around := dates.Window(lower, loc[0], loc[1], costBefore, costAfter)

			interval := sniffInterval(around)
			s := confidence.New("amount", 40)
			s = s.AddIf(hasKeyword(before), "price_keyword", 20)
			s = s.AddIf(interval != constants.IntervalUnknown, "interval", 15)

			c := &costCandidate{
				cost:  entity.Cost{Amount: amount, Currency: "EUR", Interval: interval},
				at:    loc[0],
				score: s,
			}
			if best == nil || c.score.Value() > best.score.Value() ||
				(c.score.Value() == best.score.Value() && c.at < best.at) {
				best = c
			}
		}
	}
	if best == nil {
		return nil
	}
	best.cost.Confidence = best.score.Value()
	e.logger.Debug("extract.cost", "amount", best.cost.Amount.StringFixed(2), "interval", best.cost.Interval, "score", best.score.String())
	return &best.cost
}

// parseAmount reads an amount in German ("1.234,56") or English ("1,234.56")
// notation. The last separator is the decimal one when one or two digits follow it.
func parseAmount(s string) (decimal.Decimal, error) {
	intPart, frac, decSep := s, "", byte(0)
	if i := strings.LastIndexAny(s, ".,"); i >= 0 && len(s)-i-1 <= 2 {
		intPart, frac, decSep = s[:i], s[i+1:], s[i]
	}
	if strings.Contains(intPart, ".") && strings.Contains(intPart, ",") {
		return decimal.Zero, fmt.Errorf("mixed grouping in %q", s)
	}
	if decSep != 0 && strings.IndexByte(intPart, decSep) >= 0 {
		return decimal.Zero, fmt.Errorf("ambiguous separators in %q", s)
	}
	groups := strings.FieldsFunc(intPart, func(r rune) bool { return r == '.' || r == ',' })
	if len(groups) > 1 {
		for i, g := range groups {
			if (i == 0 && len(g) > 3) || (i > 0 && len(g) != 3) {
				return decimal.Zero, fmt.Errorf("bad digit grouping in %q", s)
			}
		}
	}
	num := strings.Join(groups, "")
	if frac != "" {
		num += "." + frac
	}
	return decimal.NewFromString(num)
}

// midNumber reports whether offset i sits inside a longer number, such as the
// "95" of "39.95".
func midNumber(s string, i int) bool {
	if i == 0 {
		return false
	}
	if isDigit(s[i-1]) {
		return true
	}
	return (s[i-1] == '.' || s[i-1] == ',') && i >= 2 && isDigit(s[i-2])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func hasKeyword(before string) bool {
	for _, kw := range costKeywords {
		if hasWord(before, kw, false) {
			return true
		}
	}
	return false
}

func sniffInterval(window string) constants.CostInterval {
	for _, iw := range intervalWords {
		for _, w := range iw.words {
			if hasWord(window, w, false) {
				return iw.interval
			}
		}
	}
	return constants.IntervalUnknown
}
