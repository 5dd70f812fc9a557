package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// MaxMinimumTermMonths bounds believable lock-in periods.
const MaxMinimumTermMonths = 120

var (
	// "Kündigung ab dem 13. Monat möglich": twelve months are locked in.
	reLockInMonth = regexp.MustCompile(`(?:kündigung|kündbar|kündigen)[^.\n]{0,30}?\bab\s+dem\s+(\d{1,3})\.\s*(?:vertrags|laufzeit)?monat`)
	reLockInAfter = regexp.MustCompile(`\b(?:frühestens|erstmals|erst)\s+(?:nach|zum\s+ablauf\s+von)\s+` + numberPattern + `\s*` + monthUnitPattern + `\b`)
	reMinimumTerm = []*regexp.Regexp{
		regexp.MustCompile(`mindest(?:vertrags)?laufzeit[^.\n\d]{0,25}?\b` + numberPattern + `\s*` + monthUnitPattern + `\b`),
		regexp.MustCompile(`\b` + numberPattern + `\s*-?\s*(monatig|jährig)e[nmrs]?\s+mindest(?:vertrags)?laufzeit`),
	}
)

type MinimumTermExtractor struct {
	logger *slog.Logger
}

func NewMinimumTermExtractor(logger *slog.Logger) *MinimumTermExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MinimumTermExtractor{logger: logger}
}

// Extract finds a lock-in period. The earliest cancel date is only set when start is known.
func (e *MinimumTermExtractor) Extract(text string, start *time.Time) *entity.MinimumTerm {
	lower := lowerKeepOffsets(text)
	months, conf := e.find(lower)
	if months == 0 {
		return nil
	}
	mt := &entity.MinimumTerm{Months: months, Confidence: conf}
	if start != nil {
		d := dates.AddMonths(*start, months)
		mt.EarliestCancelDate = &d
	}
	return mt
}

func (e *MinimumTermExtractor) find(lower string) (int, int) {
	for _, sub := range reLockInMonth.FindAllStringSubmatch(lower, -1) {
		n, err := strconv.Atoi(sub[1])
		if err != nil {
			continue
		}
		if m := n - 1; e.accept(m, sub[0]) {
			return m, 85
		}
	}
	for _, sub := range reLockInAfter.FindAllStringSubmatch(lower, -1) {
		if m, ok := e.months(sub); ok {
			return m, 85
		}
	}
	for _, re := range reMinimumTerm {
		for _, sub := range re.FindAllStringSubmatch(lower, -1) {
			if m, ok := e.months(sub); ok {
				return m, 70
			}
		}
	}
	return 0, 0
}

func (e *MinimumTermExtractor) months(sub []string) (int, bool) {
	n, ok := parseNumber(sub[1])
	if !ok {
		return 0, false
	}
	m, ok := durationMonths(n, sub[2])
	if !ok || !e.accept(m, sub[0]) {
		return 0, false
	}
	return m, true
}

func (e *MinimumTermExtractor) accept(months int, match string) bool {
	if months <= 0 || months > MaxMinimumTermMonths {
		e.logger.Debug("extract.minimum_term.implausible", "months", months, "match", match)
		return false
	}
	return true
}
