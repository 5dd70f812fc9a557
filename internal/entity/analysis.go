package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/confidence"
)

// ExtractedDate is a contract start or end date together with how it was obtained.
type ExtractedDate struct {
	Value      time.Time                 `json:"value"`
	Confidence int                       `json:"confidence"`
	Role       constants.DateRole        `json:"role"`
	Source     constants.DataSource      `json:"source"`
	Pass       string                    `json:"pass,omitempty"`
	Rules      []confidence.Contribution `json:"rules,omitempty"`
}

// CancellationTerms is the notice period of a contract.
type CancellationTerms struct {
	Days       int                        `json:"days"`
	Kind       constants.CancellationKind `json:"kind"`
	Confidence int                        `json:"confidence"`
	Match      string                     `json:"match,omitempty"`
}

// MinimumTerm is a lock-in period; EarliestCancelDate is only set when a start date is known.
type MinimumTerm struct {
	Months             int        `json:"months"`
	EarliestCancelDate *time.Time `json:"earliest_cancel_date,omitempty"`
	Confidence         int        `json:"confidence"`
}

// Duration is the agreed contract term.
type Duration struct {
	Months     int  `json:"months"`
	Indefinite bool `json:"indefinite"`
	Confidence int  `json:"confidence"`
}

// AutoRenewal reports whether the term extends itself absent a cancellation.
type AutoRenewal struct {
	Active        bool `json:"active"`
	Confidence    int  `json:"confidence"`
	RenewalMonths int  `json:"renewal_months,omitempty"`
	Negated       bool `json:"negated,omitempty"`
}

// Provider is the counterparty of a contract.
type Provider struct {
	CanonicalName string `json:"canonical_name"`
	DisplayName   string `json:"display_name"`
	Confidence    int    `json:"confidence"`
}

// Cost is a monetary amount found in the text.
type Cost struct {
	Amount     decimal.Decimal        `json:"amount"`
	Currency   string                 `json:"currency"`
	Interval   constants.CostInterval `json:"interval"`
	Confidence int                    `json:"confidence"`
}

// QuickFact is one entry of the three-item summary shown on dashboards.
type QuickFact struct {
	Label  string           `json:"label"`
	Value  string           `json:"value"`
	Rating constants.Rating `json:"rating"`
}

// AnalysisResult is built once per call and never mutated afterwards.
type AnalysisResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename,omitempty"`

	Category     CategoryResult     `json:"category"`
	ContractType ContractTypeResult `json:"contract_type"`

	Provider           *Provider          `json:"provider,omitempty"`
	StartDate          *ExtractedDate     `json:"start_date,omitempty"`
	EndDate            *ExtractedDate     `json:"end_date,omitempty"`
	OriginalEndDate    *ExtractedDate     `json:"original_end_date,omitempty"`
	Duration           *Duration          `json:"duration,omitempty"`
	CancellationPeriod *CancellationTerms `json:"cancellation_period,omitempty"`
	MinimumTerm        *MinimumTerm       `json:"minimum_term,omitempty"`
	AutoRenewal        AutoRenewal        `json:"auto_renewal"`
	Cost               *Cost              `json:"cost,omitempty"`

	NextCancellationDate    *time.Time          `json:"next_cancellation_date,omitempty"`
	AutoRenewalRolloverDate *time.Time          `json:"auto_renewal_rollover_date,omitempty"`
	RiskLevel               constants.RiskLevel `json:"risk_level"`
	RiskFactors             []string            `json:"risk_factors"`
	QuickFacts              [3]QuickFact        `json:"quick_facts"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// DataSource is the source tag of the end date, or "" when there is none.
func (r *AnalysisResult) DataSource() constants.DataSource {
	if r == nil || r.EndDate == nil {
		return ""
	}
	return r.EndDate.Source
}

// Response is the envelope handed to collaborators: either a result or an error.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
	Result  *AnalysisResult `json:"result,omitempty"`
}
