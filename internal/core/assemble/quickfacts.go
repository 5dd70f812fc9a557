package assemble

import (
	"strconv"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

const unknown = "Unbekannt"

// QuickFacts picks the three facts shown for the category and contract type of res.
func QuickFacts(res *entity.AnalysisResult, today time.Time) [3]entity.QuickFact {
	switch {
	case res.Category.Category == constants.CancellationConfirmation:
		return [3]entity.QuickFact{
			dateFact("Gekündigt zum", datePtr(res.EndDate), today),
			providerFact(res.Provider),
			remainingFact(res.EndDate, today),
		}
	case res.Category.Category == constants.Invoice:
		return [3]entity.QuickFact{
			dateFact("Fällig am", res.Category.EffectiveDate, today),
			costFact(res.Cost),
			providerFact(res.Provider),
		}
	case res.ContractType.Type == constants.Employment:
		return [3]entity.QuickFact{
			{Label: "Arbeitsbeginn", Value: formatDate(datePtr(res.StartDate)), Rating: constants.RatingNeutral},
			noticeFact(res.CancellationPeriod),
			fixedTermFact(res, today),
		}
	}
	return [3]entity.QuickFact{
		noticeFact(res.CancellationPeriod),
		dateFact("Ablaufdatum", datePtr(res.EndDate), today),
		durationFact(res.Duration),
	}
}

// RateDeadline grades the days left until a date.
func RateDeadline(days int) constants.Rating {
	switch {
	case days < 0:
		return constants.RatingNeutral
	case days <= 30:
		return constants.RatingCritical
	case days <= 90:
		return constants.RatingWarning
	}
	return constants.RatingGood
}

// RateNotice grades a notice period; long periods bind the customer.
func RateNotice(days int) constants.Rating {
	switch {
	case days <= 30:
		return constants.RatingGood
	case days <= 90:
		return constants.RatingWarning
	}
	return constants.RatingCritical
}

// RateDuration grades a contract term in months.
func RateDuration(months int, indefinite bool) constants.Rating {
	switch {
	case indefinite || months <= 12:
		return constants.RatingGood
	case months <= 24:
		return constants.RatingWarning
	}
	return constants.RatingCritical
}

func dateFact(label string, d *time.Time, today time.Time) entity.QuickFact {
	if d == nil {
		return entity.QuickFact{Label: label, Value: unknown, Rating: constants.RatingNeutral}
	}
	return entity.QuickFact{Label: label, Value: formatDate(d), Rating: RateDeadline(dates.DaysBetween(today, *d))}
}

func remainingFact(end *entity.ExtractedDate, today time.Time) entity.QuickFact {
	f := entity.QuickFact{Label: "Restlaufzeit", Value: unknown, Rating: constants.RatingNeutral}
	if end == nil {
		return f
	}
	days := dates.DaysBetween(today, end.Value)
	if days < 0 {
		f.Value = "Beendet"
		return f
	}
	f.Value = plural(days, "Tag", "Tage")
	f.Rating = RateDeadline(days)
	return f
}

func providerFact(p *entity.Provider) entity.QuickFact {
	f := entity.QuickFact{Label: "Anbieter", Value: unknown, Rating: constants.RatingNeutral}
	if p != nil {
		f.Value = p.DisplayName
	}
	return f
}

func costFact(c *entity.Cost) entity.QuickFact {
	f := entity.QuickFact{Label: "Betrag", Value: unknown, Rating: constants.RatingNeutral}
	if c == nil {
		return f
	}
	f.Value = FormatAmount(c)
	return f
}

func noticeFact(t *entity.CancellationTerms) entity.QuickFact {
	f := entity.QuickFact{Label: "Kündigungsfrist", Value: unknown, Rating: constants.RatingNeutral}
	if t == nil {
		return f
	}
	f.Value = FormatNotice(t)
	f.Rating = RateNotice(t.Days)
	return f
}

func durationFact(d *entity.Duration) entity.QuickFact {
	f := entity.QuickFact{Label: "Laufzeit", Value: unknown, Rating: constants.RatingNeutral}
	switch {
	case d == nil:
	case d.Indefinite:
		f.Value, f.Rating = "Unbefristet", RateDuration(0, true)
	default:
		f.Value, f.Rating = plural(d.Months, "Monat", "Monate"), RateDuration(d.Months, false)
	}
	return f
}

// fixedTermFact only trusts end dates that were read from the text.
func fixedTermFact(res *entity.AnalysisResult, today time.Time) entity.QuickFact {
	f := entity.QuickFact{Label: "Befristung", Value: unknown, Rating: constants.RatingNeutral}
	switch {
	case res.EndDate != nil && res.EndDate.Source != constants.SourceEstimated:
		f.Value = "Befristet bis " + formatDate(&res.EndDate.Value)
		f.Rating = RateDeadline(dates.DaysBetween(today, res.EndDate.Value))
	case res.Duration != nil && res.Duration.Indefinite:
		f.Value, f.Rating = "Unbefristet", constants.RatingGood
	}
	return f
}

// FormatNotice renders a notice period the way German contracts phrase it.
func FormatNotice(t *entity.CancellationTerms) string {
	if t.Kind == constants.KindDaily || t.Days == 0 {
		return "Täglich kündbar"
	}
	var s string
	switch {
	case t.Days%365 == 0:
		s = plural(t.Days/365, "Jahr", "Jahre")
	case t.Days%30 == 0:
		s = plural(t.Days/30, "Monat", "Monate")
	case t.Days%7 == 0:
		s = plural(t.Days/7, "Woche", "Wochen")
	default:
		s = plural(t.Days, "Tag", "Tage")
	}
	switch t.Kind {
	case constants.KindQuarterlyDeadline:
		s += " zum Quartalsende"
	case constants.KindMonthlyDeadline:
		s += " zum Monatsende"
	case constants.KindEndOfPeriod:
		s += " zum Laufzeitende"
	}
	return s
}

// FormatAmount renders "1.234,56 €" plus the billing interval.
func FormatAmount(c *entity.Cost) string {
	s := germanDecimal(c.Amount.StringFixed(2)) + " €"
	switch c.Interval {
	case constants.IntervalMonthly:
		s += " / Monat"
	case constants.IntervalYearly:
		s += " / Jahr"
	case constants.IntervalOnce:
		s += " einmalig"
	}
	return s
}

// germanDecimal swaps the separators of a fixed-point string: "1234.56" becomes "1.234,56".
func germanDecimal(s string) string {
	neg := len(s) > 0 && s[0] == '-'
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	for i := range s {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i+1:]
			break
		}
	}
	var out []byte
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, intPart[i])
	}
	res := string(out)
	if frac != "" {
		res += "," + frac
	}
	if neg {
		res = "-" + res
	}
	return res
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

func datePtr(d *entity.ExtractedDate) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Value
}

func formatDate(d *time.Time) string {
	if d == nil {
		return unknown
	}
	return d.Format(dates.GermanLayout)
}
