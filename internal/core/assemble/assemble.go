// Package assemble turns extractor outputs into the final analysis result.
package assemble

import (
	"log/slog"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/confidence"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/extract"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// Config holds the assembler thresholds.
type Config struct {
	MaxRollovers       int // iteration ceiling of the auto-renewal roll-forward
	DefaultRenewMonths int
	EndSoonDays        int
	CancelSoonDays     int
}

func DefaultConfig() Config {
	return Config{
		MaxRollovers:       1000,
		DefaultRenewMonths: 12,
		EndSoonDays:        90,
		CancelSoonDays:     30,
	}
}

// Input is everything the extractors found for one document.
type Input struct {
	Category     entity.CategoryResult
	ContractType entity.ContractTypeResult
	Dates        extract.DateResult
	Duration     *entity.Duration
	Cancellation *entity.CancellationTerms
	MinimumTerm  *entity.MinimumTerm
	AutoRenewal  entity.AutoRenewal
	Provider     *entity.Provider
	Cost         *entity.Cost
}

// Risk factor names.
const (
	FactorEndSoon     = "end_within_90_days"
	FactorCancelSoon  = "cancellation_within_30_days"
	FactorAutoRenewal = "auto_renewal_active"
)

type Assembler struct {
	logger *slog.Logger
	cfg    Config
}

func New(cfg Config, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.MaxRollovers <= 0 {
		cfg.MaxRollovers = def.MaxRollovers
	}
	if cfg.DefaultRenewMonths <= 0 {
		cfg.DefaultRenewMonths = def.DefaultRenewMonths
	}
	if cfg.EndSoonDays <= 0 {
		cfg.EndSoonDays = def.EndSoonDays
	}
	if cfg.CancelSoonDays <= 0 {
		cfg.CancelSoonDays = def.CancelSoonDays
	}
	return &Assembler{logger: logger, cfg: cfg}
}

// Assemble builds the result. DocumentID, Filename and AnalyzedAt are left to the caller.
func (a *Assembler) Assemble(in Input, now time.Time) entity.AnalysisResult {
	today := dates.Day(now)
	res := entity.AnalysisResult{
		Category:           in.Category,
		ContractType:       in.ContractType,
		Provider:           in.Provider,
		StartDate:          in.Dates.Start,
		EndDate:            in.Dates.End,
		Duration:           in.Duration,
		CancellationPeriod: in.Cancellation,
		MinimumTerm:        in.MinimumTerm,
		AutoRenewal:        in.AutoRenewal,
		Cost:               in.Cost,
	}

	cancelled := in.Category.Category == constants.CancellationConfirmation
	if cancelled && in.Category.EffectiveDate != nil {
		res.EndDate = confirmedEnd(in.Category)
		if res.StartDate != nil && !res.EndDate.Value.After(res.StartDate.Value) {
			res.StartDate = nil
		}
	}

	if !cancelled && res.AutoRenewal.Active {
		if rolled := a.rollover(res.EndDate, a.renewMonths(in), today); rolled != nil {
			res.OriginalEndDate = res.EndDate
			res.EndDate = rolled
		}
		if res.EndDate != nil {
			v := res.EndDate.Value
			res.AutoRenewalRolloverDate = &v
		}
	}

	if !cancelled && res.EndDate != nil && res.CancellationPeriod != nil && res.CancellationPeriod.Days > 0 {
		v := res.EndDate.Value.AddDate(0, 0, -res.CancellationPeriod.Days)
		res.NextCancellationDate = &v
	}

	res.RiskLevel, res.RiskFactors = a.risk(&res, today)
	res.QuickFacts = QuickFacts(&res, today)
	return res
}

// confirmedEnd turns the effective date of a cancellation confirmation into the end date.
func confirmedEnd(c entity.CategoryResult) *entity.ExtractedDate {
	pts := 90
	if c.DateSource == entity.DateSourceMarker {
		pts = 95
	}
	s := confidence.New("cancellation_"+c.DateSource, pts)
	return &entity.ExtractedDate{
		Value:      *c.EffectiveDate,
		Confidence: s.Value(),
		Role:       constants.RoleEnd,
		Source:     constants.SourceExtracted,
		Pass:       "cancellation_confirmation",
		Rules:      s.Contributions(),
	}
}

func (a *Assembler) renewMonths(in Input) int {
	if in.AutoRenewal.RenewalMonths > 0 {
		return in.AutoRenewal.RenewalMonths
	}
	if in.Duration != nil && !in.Duration.Indefinite && in.Duration.Months > 0 {
		return in.Duration.Months
	}
	return a.cfg.DefaultRenewMonths
}

// rollover moves an extracted past end date forward in steps of months until
// it is on or after today. Only extracted dates roll; nil means nothing changed.
func (a *Assembler) rollover(end *entity.ExtractedDate, months int, today time.Time) *entity.ExtractedDate {
	if end == nil || end.Source != constants.SourceExtracted || !end.Value.Before(today) || months <= 0 {
		return nil
	}
	for k := 1; k <= a.cfg.MaxRollovers; k++ {
		v := dates.AddMonths(end.Value, k*months)
		if v.Before(today) {
			continue
		}
		rules := append(append([]confidence.Contribution{}, end.Rules...), confidence.Contribution{Rule: "rollover"})
		a.logger.Debug("assemble.rollover", "from", end.Value.Format(dates.Layout), "to", v.Format(dates.Layout), "steps", k)
		return &entity.ExtractedDate{
			Value:      v,
			Confidence: end.Confidence,
			Role:       constants.RoleEnd,
			Source:     constants.SourceCalculated,
			Pass:       "rollover",
			Rules:      rules,
		}
	}
	a.logger.Warn("assemble.rollover.ceiling", "from", end.Value.Format(dates.Layout), "months", months)
	return nil
}

func (a *Assembler) risk(res *entity.AnalysisResult, today time.Time) (constants.RiskLevel, []string) {
	factors := []string{}
	if res.EndDate != nil && within(today, res.EndDate.Value, a.cfg.EndSoonDays) {
		factors = append(factors, FactorEndSoon)
	}
	if res.NextCancellationDate != nil && within(today, *res.NextCancellationDate, a.cfg.CancelSoonDays) {
		factors = append(factors, FactorCancelSoon)
	}
	if res.AutoRenewal.Active {
		factors = append(factors, FactorAutoRenewal)
	}
	switch {
	case len(factors) >= 2:
		return constants.RiskHigh, factors
	case len(factors) == 1:
		return constants.RiskMedium, factors
	}
	return constants.RiskLow, factors
}

func within(today, d time.Time, days int) bool {
	n := dates.DaysBetween(today, d)
	return n >= 0 && n <= days
}
