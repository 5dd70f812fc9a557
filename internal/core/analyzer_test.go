package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
	"github.com/joseph-ayodele/contracts-tracker/internal/utils"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestAnalyzer(now time.Time) *Analyzer {
	return NewAnalyzer(
		WithClock(func() time.Time { return now }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func analyze(t *testing.T, a *Analyzer, text string) *entity.AnalysisResult {
	t.Helper()
	res, err := a.Analyze(context.Background(), entity.RawDocument{Text: text})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return res
}

func TestAnalyzeInsuranceEstimate(t *testing.T) {
	res := analyze(t, newTestAnalyzer(testNow), "Versicherungsschein\nVersicherungsbeginn: 01.01.2024\nVersicherungsnehmer: Max Mustermann")

	if res.ContractType.Type != constants.Insurance {
		t.Fatalf("type = %s", res.ContractType.Type)
	}
	if res.EndDate == nil {
		t.Fatal("end date missing")
	}
	if !res.EndDate.Value.Equal(day(2025, 1, 1)) || res.EndDate.Confidence != 40 {
		t.Errorf("end = %s/%d, want 2025-01-01/40", res.EndDate.Value.Format(utils.DateLayout), res.EndDate.Confidence)
	}
	if res.DataSource() != constants.SourceEstimated {
		t.Errorf("data source = %s", res.DataSource())
	}
	if res.OriginalEndDate != nil {
		t.Error("estimated end dates are never rolled over")
	}
}

func TestAnalyzeLetterheadIsNotEndDate(t *testing.T) {
	res := analyze(t, newTestAnalyzer(testNow), "Berlin, den 10.05.2025\nSehr geehrte Damen und Herren,\nanbei erhalten Sie Ihre Unterlagen.")
	if res.EndDate != nil {
		t.Errorf("end = %s from %s, want none", res.EndDate.Value.Format(utils.DateLayout), res.EndDate.Pass)
	}
	if res.Category.Category != constants.ActiveContract {
		t.Errorf("category = %s", res.Category.Category)
	}
}

func TestAnalyzeNextCancellationDate(t *testing.T) {
	a := newTestAnalyzer(testNow)
	tests := []struct {
		name string
		text string
	}{
		{"notice period label", "Mobilfunkvertrag\nKündigungsfrist: 3 Monate\nVertragsende: 31.03.2026"},
		{"notice before expiry", "Mobilfunkvertrag\nVertragsende: 31.03.2026\nDer Vertrag verlängert sich um 12 Monate, wenn er nicht 3 Monate vor Ablauf gekündigt wird."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyze(t, a, tt.text)
			if res.CancellationPeriod == nil || res.CancellationPeriod.Days != 90 {
				t.Fatalf("cancellation = %+v", res.CancellationPeriod)
			}
			if res.NextCancellationDate == nil || !res.NextCancellationDate.Equal(day(2025, 12, 31)) {
				t.Fatalf("next cancellation = %v, want 2025-12-31", res.NextCancellationDate)
			}
		})
	}
}

func TestAnalyzeDailyCancellation(t *testing.T) {
	res := analyze(t, newTestAnalyzer(testNow), "Der Vertrag ist täglich kündbar.")
	want := entity.CancellationTerms{Days: 0, Kind: constants.KindDaily, Confidence: 90}
	got := res.CancellationPeriod
	if got == nil || got.Days != want.Days || got.Kind != want.Kind || got.Confidence != want.Confidence {
		t.Fatalf("cancellation = %+v, want %+v", got, want)
	}
	if res.NextCancellationDate != nil {
		t.Error("daily terms have no next cancellation date")
	}
}

func TestAnalyzeCancellationConfirmation(t *testing.T) {
	text := "Kündigungsbestätigung\nSehr geehrter Herr Muster,\nhiermit bestätigen wir Ihre Kündigung. Ihr Vertrag endet am 30.06.2025."
	res := analyze(t, newTestAnalyzer(testNow), text)

	if res.Category.Category != constants.CancellationConfirmation {
		t.Fatalf("category = %s", res.Category.Category)
	}
	if res.EndDate == nil || !res.EndDate.Value.Equal(day(2025, 6, 30)) {
		t.Fatalf("end = %+v", res.EndDate)
	}
	if res.DataSource() != constants.SourceExtracted || res.EndDate.Confidence < 90 {
		t.Errorf("end source/confidence = %s/%d", res.DataSource(), res.EndDate.Confidence)
	}
	if res.AutoRenewalRolloverDate != nil || res.NextCancellationDate != nil {
		t.Error("cancelled contracts get no renewal or cancellation reminders")
	}
}

func TestAnalyzeRollover(t *testing.T) {
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	res := analyze(t, newTestAnalyzer(now), "Vertragsende: 01.06.2020\nDer Vertrag verlängert sich automatisch um 12 Monate.")

	if !res.AutoRenewal.Active {
		t.Fatalf("auto renewal = %+v", res.AutoRenewal)
	}
	if res.EndDate == nil || !res.EndDate.Value.Equal(day(2025, 6, 1)) {
		t.Fatalf("end = %+v, want 2025-06-01", res.EndDate)
	}
	if res.DataSource() != constants.SourceCalculated {
		t.Errorf("data source = %s", res.DataSource())
	}
	if res.OriginalEndDate == nil || !res.OriginalEndDate.Value.Equal(day(2020, 6, 1)) {
		t.Errorf("original end = %+v", res.OriginalEndDate)
	}
	if res.AutoRenewalRolloverDate == nil || !res.AutoRenewalRolloverDate.Equal(day(2025, 6, 1)) {
		t.Errorf("rollover date = %v", res.AutoRenewalRolloverDate)
	}
}

func TestAnalyzeNegationPrecedence(t *testing.T) {
	text := "Es erfolgt keine automatische Verlängerung. Hinweis: In anderen Tarifen verlängert sich der Vertrag automatisch um 12 Monate."
	res := analyze(t, newTestAnalyzer(testNow), text)
	if res.AutoRenewal.Active || !res.AutoRenewal.Negated {
		t.Errorf("auto renewal = %+v, want negated", res.AutoRenewal)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := newTestAnalyzer(testNow)
	doc := entity.RawDocument{
		Text:     "Mietvertrag\nVermieter: Wohnbau Berlin GmbH\nMietbeginn: 01.04.2024\nKaltmiete: 850,00 EUR monatlich\nKündigungsfrist: 3 Monate",
		Filename: "mietvertrag.txt",
	}
	first, err := a.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
	if first.DocumentID != DocumentID(doc) {
		t.Error("document id not derived from input")
	}
	if DocumentID(entity.RawDocument{Text: doc.Text}) == first.DocumentID {
		t.Error("filename should change the document id")
	}
	if !first.AnalyzedAt.Equal(testNow) {
		t.Errorf("analyzed at = %v", first.AnalyzedAt)
	}
}

func TestAnalyzeConfidenceBounds(t *testing.T) {
	a := newTestAnalyzer(testNow)
	texts := []string{
		"",
		"\x00\xff\xfe kaputt",
		"Vertragsende: 31.12.2015 Vertragsbeginn 01.01.2030",
		strings.Repeat("Kündigungsbestätigung Rechnung wirksam zum 01.01.2025 ", 30),
		"Telekom Deutschland GmbH\nAnbieter: Telekom Deutschland GmbH\nMonatlicher Grundpreis 39,95 €\nDie Telekom verlängert sich automatisch.",
		"Rechnung\nRechnungsnummer 4711\nRechnungsdatum: 01.03.2025\nFällig am 15.03.2025\nGesamtbetrag 120,00 €",
	}
	for _, text := range texts {
		res := analyze(t, a, text)
		for key, c := range utils.ToView(res)["confidence"].(map[string]any) {
			if c == nil {
				continue
			}
			if n := c.(int); n < 0 || n > 100 {
				t.Errorf("%s confidence %d out of range for %q", key, n, text)
			}
		}
		if res.Provider != nil && res.Provider.Confidence < 90 {
			t.Errorf("provider below gate: %+v", res.Provider)
		}
	}
}

func TestRespond(t *testing.T) {
	a := newTestAnalyzer(testNow)

	ok := a.Respond(context.Background(), entity.RawDocument{Text: "Der Vertrag ist täglich kündbar."})
	if !ok.Success || ok.Result == nil || ok.Error != "" {
		t.Fatalf("response = %+v", ok)
	}

	bad := a.Respond(context.Background(), entity.RawDocument{Text: "x", Filename: strings.Repeat("a", 256)})
	if bad.Success || bad.Result != nil {
		t.Fatalf("long filename should fail: %+v", bad)
	}
	if bad.Code != "InvalidArgument" || !strings.Contains(bad.Error, common.CodeInvalidInput) {
		t.Errorf("code/error = %s/%s", bad.Code, bad.Error)
	}
}

func TestAnalyzeTextLimit(t *testing.T) {
	cfg := common.DefaultAnalysisConfig()
	cfg.MaxTextBytes = 10
	a := NewAnalyzer(WithConfig(cfg), WithClock(func() time.Time { return testNow }), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, err := a.Analyze(context.Background(), entity.RawDocument{Text: "Kündigungsfrist: 3 Monate"})
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAnalyzeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestAnalyzer(testNow).Analyze(ctx, entity.RawDocument{Text: "Mietvertrag"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
