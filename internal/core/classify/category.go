package classify

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// CategoryConfig holds the thresholds of the document category classifier.
type CategoryConfig struct {
	CancellationThreshold int  // default 10
	InvoiceThreshold      int  // default 15
	PreferLatestFuture    bool // pick the most distant future effective date instead of the nearest one
}

// DefaultCategoryConfig returns the production thresholds.
func DefaultCategoryConfig() CategoryConfig {
	return CategoryConfig{
		CancellationThreshold: 10,
		InvoiceThreshold:      15,
	}
}

// Markers that introduce the effective date of a cancellation.
var effectiveDateMarkers = []string{
	"wirksam zum",
	"endet am",
	"endet zum",
	"gekündigt zum",
	"kündigung zum",
	"beendet zum",
	"beendet am",
	"vertragsende",
	"zum ablauf",
}

// Markers that introduce the due date of an invoice.
var dueDateMarkers = []string{
	"fällig am",
	"fällig zum",
	"zahlbar bis",
	"fälligkeit",
	"fälligkeitsdatum",
	"zahlungsziel",
}

// CategoryClassifier decides between active contract, cancellation confirmation and invoice.
type CategoryClassifier struct {
	logger *slog.Logger
	cfg    CategoryConfig
}

func NewCategoryClassifier(cfg CategoryConfig, logger *slog.Logger) *CategoryClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultCategoryConfig()
	if cfg.CancellationThreshold <= 0 {
		cfg.CancellationThreshold = def.CancellationThreshold
	}
	if cfg.InvoiceThreshold <= 0 {
		cfg.InvoiceThreshold = def.InvoiceThreshold
	}
	return &CategoryClassifier{logger: logger, cfg: cfg}
}

// Classify applies the fixed order cancellation > invoice > active contract.
// Cancellation letters often carry invoice boilerplate, so the order matters.
func (c *CategoryClassifier) Classify(text string, now time.Time) entity.CategoryResult {
	lower := strings.ToLower(text)
	res := entity.CategoryResult{
		Category:          constants.ActiveContract,
		CancellationScore: scorePhrases(lower, CancellationMarkers),
		InvoiceScore:      scorePhrases(lower, InvoiceMarkers),
	}

	switch {
	case res.CancellationScore >= c.cfg.CancellationThreshold:
		res.Category = constants.CancellationConfirmation
		if d, src := c.effectiveDate(text, now); d != nil {
			res.EffectiveDate, res.DateSource = d, src
		}
	case res.InvoiceScore >= c.cfg.InvoiceThreshold && !strings.Contains(lower, "vertrag"):
		res.Category = constants.Invoice
		if d := markedDate(text, dueDateMarkers); d != nil {
			res.EffectiveDate, res.DateSource = d, entity.DateSourceMarker
		}
	}

	c.logger.Debug("classify.category",
		"category", res.Category,
		"cancellation_score", res.CancellationScore,
		"invoice_score", res.InvoiceScore,
		"date_source", res.DateSource,
	)
	return res
}

// effectiveDate prefers marker-introduced dates over bare ones. Within a group
// the earliest future date wins (the latest one with PreferLatestFuture); with
// no future date the most recent past date is used.
func (c *CategoryClassifier) effectiveDate(text string, now time.Time) (*time.Time, string) {
	var marked, bare []time.Time
	for _, m := range dates.FindAll(text) {
		if hasMarkerBefore(text, m, effectiveDateMarkers) {
			marked = append(marked, m.Value)
			continue
		}
		if dates.ExcludeLetterhead(text, m) {
			continue
		}
		bare = append(bare, m.Value)
	}

	today := dates.Day(now)
	if d := pickFuture(marked, today, !c.cfg.PreferLatestFuture); d != nil {
		return d, entity.DateSourceMarker
	}
	if d := pickFuture(bare, today, !c.cfg.PreferLatestFuture); d != nil {
		return d, entity.DateSourceText
	}
	if d := latestPast(marked, today); d != nil {
		return d, entity.DateSourceMarker
	}
	if d := latestPast(bare, today); d != nil {
		return d, entity.DateSourceText
	}
	return nil, ""
}

func pickFuture(candidates []time.Time, today time.Time, earliest bool) *time.Time {
	var pick *time.Time
	for i := range candidates {
		d := candidates[i]
		if d.Before(today) {
			continue
		}
		if pick == nil || (earliest && d.Before(*pick)) || (!earliest && d.After(*pick)) {
			pick = &d
		}
	}
	return pick
}

func latestPast(candidates []time.Time, today time.Time) *time.Time {
	var pick *time.Time
	for i := range candidates {
		d := candidates[i]
		if !d.Before(today) {
			continue
		}
		if pick == nil || d.After(*pick) {
			pick = &d
		}
	}
	return pick
}

// markedDate returns the first date introduced by one of markers.
func markedDate(text string, markers []string) *time.Time {
	for _, m := range dates.FindAll(text) {
		if hasMarkerBefore(text, m, markers) {
			v := m.Value
			return &v
		}
	}
	return nil
}

// hasMarkerBefore looks for a marker in the 30 bytes before the date, or a bare "zum" right in front of it.
func hasMarkerBefore(text string, m dates.Match, markers []string) bool {
	prefix := strings.ToLower(dates.Window(text, m.Start, m.Start, 30, 0))
	for _, marker := range markers {
		if strings.Contains(prefix, marker) {
			return true
		}
	}
	tail := strings.TrimRight(prefix, " :")
	tail = strings.TrimSuffix(tail, " den")
	tail = strings.TrimSuffix(tail, " dem")
	return strings.HasSuffix(tail, " zum") || tail == "zum"
}
