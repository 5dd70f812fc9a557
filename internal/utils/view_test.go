package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

func sampleResult() *entity.AnalysisResult {
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	next := end.AddDate(0, 0, -90)
	return &entity.AnalysisResult{
		DocumentID:   uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Filename:     "vertrag.txt",
		Category:     entity.CategoryResult{Category: constants.ActiveContract},
		ContractType: entity.ContractTypeResult{Type: constants.Telecom, Score: 23},
		Provider:     &entity.Provider{CanonicalName: "telekom", DisplayName: "Deutsche Telekom", Confidence: 100},
		EndDate: &entity.ExtractedDate{
			Value: end, Confidence: 85, Role: constants.RoleEnd, Source: constants.SourceExtracted,
		},
		CancellationPeriod:   &entity.CancellationTerms{Days: 90, Kind: constants.KindStandard, Confidence: 80},
		Duration:             &entity.Duration{Months: 24, Confidence: 80},
		AutoRenewal:          entity.AutoRenewal{Active: false, Confidence: 50},
		Cost:                 &entity.Cost{Amount: decimal.RequireFromString("39.9"), Currency: "EUR", Interval: constants.IntervalMonthly, Confidence: 75},
		NextCancellationDate: &next,
		RiskLevel:            constants.RiskLow,
		RiskFactors:          []string{},
		QuickFacts: [3]entity.QuickFact{
			{Label: "Kündigungsfrist", Value: "3 Monate", Rating: constants.RatingWarning},
			{Label: "Ablaufdatum", Value: "31.03.2026", Rating: constants.RatingGood},
			{Label: "Laufzeit", Value: "24 Monate", Rating: constants.RatingGood},
		},
		AnalyzedAt: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestToView(t *testing.T) {
	v := ToView(sampleResult())

	checks := map[string]any{
		"document_id":            "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"filename":               "vertrag.txt",
		"contract_type":          "TELECOM",
		"provider":               "Deutsche Telekom",
		"end_date":               "2026-03-31",
		"data_source":            "extracted",
		"next_cancellation_date": "2025-12-31",
		"cancellation_days":      90,
		"duration_months":        24,
		"cost_amount":            "39.90",
		"cost_interval":          "MONTHLY",
		"analyzed_at":            "2025-03-10T09:30:00Z",
	}
	for key, want := range checks {
		if got := v[key]; got != want {
			t.Errorf("%s = %v (%T), want %v", key, got, got, want)
		}
	}
	for _, key := range []string{"start_date", "original_end_date", "auto_renewal_rollover_date", "minimum_term_months", "renewal_months"} {
		if v[key] != nil {
			t.Errorf("%s = %v, want nil", key, v[key])
		}
	}
	conf := v["confidence"].(map[string]any)
	if conf["end_date"] != 85 || conf["start_date"] != nil || conf["provider"] != 100 {
		t.Errorf("confidence = %v", conf)
	}
}

func TestToViewNil(t *testing.T) {
	if ToView(nil) != nil {
		t.Error("nil result should give nil view")
	}
	if v := ToView(&entity.AnalysisResult{}); v["data_source"] != nil {
		t.Errorf("data_source without end date = %v", v["data_source"])
	}
}

func TestToStruct(t *testing.T) {
	s, err := ToStruct(sampleResult())
	if err != nil {
		t.Fatalf("ToStruct: %v", err)
	}
	f := s.GetFields()
	if got := f["end_date"].GetStringValue(); got != "2026-03-31" {
		t.Errorf("end_date = %q", got)
	}
	if got := f["cancellation_days"].GetNumberValue(); got != 90 {
		t.Errorf("cancellation_days = %v", got)
	}
	if got := len(f["quick_facts"].GetListValue().GetValues()); got != 3 {
		t.Errorf("quick_facts len = %d", got)
	}
}

func TestParseYMD(t *testing.T) {
	got, err := ParseYMD("2025-02-28")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseYMD = %v", got)
	}
	if _, err := ParseYMD("28.02.2025"); err == nil {
		t.Error("German layout should be rejected")
	}
}
