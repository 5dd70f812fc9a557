package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// DateLayout is the ISO-8601 calendar date handed to downstream consumers.
const DateLayout = dates.Layout

// ToView flattens a result into the map consumed by calendar and reminder
// collaborators: ISO dates or nil, integer confidences, and a data_source tag.
// Every value is JSON and structpb compatible.
func ToView(res *entity.AnalysisResult) map[string]any {
	if res == nil {
		return nil
	}
	conf := map[string]any{
		"start_date":          dateConfidence(res.StartDate),
		"end_date":            dateConfidence(res.EndDate),
		"cancellation_period": nil,
		"minimum_term":        nil,
		"duration":            nil,
		"auto_renewal":        res.AutoRenewal.Confidence,
		"provider":            nil,
		"cost":                nil,
	}

	v := map[string]any{
		"document_id":                res.DocumentID.String(),
		"filename":                   strOrNil(res.Filename),
		"category":                   string(res.Category.Category),
		"contract_type":              string(res.ContractType.Type),
		"provider":                   nil,
		"start_date":                 extractedDate(res.StartDate),
		"end_date":                   extractedDate(res.EndDate),
		"original_end_date":          extractedDate(res.OriginalEndDate),
		"data_source":                sourceOrNil(res.DataSource()),
		"next_cancellation_date":     dateOrNil(res.NextCancellationDate),
		"auto_renewal_rollover_date": dateOrNil(res.AutoRenewalRolloverDate),
		"cancellation_days":          nil,
		"cancellation_kind":          nil,
		"minimum_term_months":        nil,
		"earliest_cancel_date":       nil,
		"duration_months":            nil,
		"indefinite":                 false,
		"auto_renewal":               res.AutoRenewal.Active,
		"renewal_months":             nil,
		"cost_amount":                nil,
		"cost_currency":              nil,
		"cost_interval":              nil,
		"risk_level":                 string(res.RiskLevel),
		"risk_factors":               stringsToAny(res.RiskFactors),
		"quick_facts":                quickFacts(res.QuickFacts),
		"confidence":                 conf,
		"analyzed_at":                res.AnalyzedAt.UTC().Format(time.RFC3339),
	}

	if p := res.Provider; p != nil {
		v["provider"] = p.DisplayName
		conf["provider"] = p.Confidence
	}
	if c := res.CancellationPeriod; c != nil {
		v["cancellation_days"] = c.Days
		v["cancellation_kind"] = string(c.Kind)
		conf["cancellation_period"] = c.Confidence
	}
	if m := res.MinimumTerm; m != nil {
		v["minimum_term_months"] = m.Months
		v["earliest_cancel_date"] = dateOrNil(m.EarliestCancelDate)
		conf["minimum_term"] = m.Confidence
	}
	if d := res.Duration; d != nil {
		v["indefinite"] = d.Indefinite
		if !d.Indefinite {
			v["duration_months"] = d.Months
		}
		conf["duration"] = d.Confidence
	}
	if res.AutoRenewal.RenewalMonths > 0 {
		v["renewal_months"] = res.AutoRenewal.RenewalMonths
	}
	if c := res.Cost; c != nil {
		v["cost_amount"] = c.Amount.StringFixed(2)
		v["cost_currency"] = c.Currency
		v["cost_interval"] = string(c.Interval)
		conf["cost"] = c.Confidence
	}
	return v
}

// ToJSON serializes the view form of res.
func ToJSON(res *entity.AnalysisResult) ([]byte, error) {
	b, err := json.Marshal(ToView(res))
	if err != nil {
		return nil, fmt.Errorf("marshal view: %w", err)
	}
	return b, nil
}

// ToStruct converts the view form of res into a protobuf Struct for gRPC consumers.
func ToStruct(res *entity.AnalysisResult) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(ToView(res))
	if err != nil {
		return nil, fmt.Errorf("convert view to struct: %w", err)
	}
	return s, nil
}

// ParseYMD parses a YYYY-MM-DD flag or field value to midnight UTC.
func ParseYMD(s string) (time.Time, error) {
	return dates.Parse(s)
}

func strOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}

func extractedDate(d *entity.ExtractedDate) any {
	if d == nil {
		return nil
	}
	return d.Value.Format(DateLayout)
}

func dateConfidence(d *entity.ExtractedDate) any {
	if d == nil {
		return nil
	}
	return d.Confidence
}

func sourceOrNil(s constants.DataSource) any {
	if s == "" {
		return nil
	}
	return string(s)
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func quickFacts(facts [3]entity.QuickFact) []any {
	out := make([]any, 0, len(facts))
	for _, f := range facts {
		out = append(out, map[string]any{
			"label":  f.Label,
			"value":  f.Value,
			"rating": string(f.Rating),
		})
	}
	return out
}
