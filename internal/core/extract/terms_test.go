package extract

import (
	"strings"
	"testing"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
)

func TestCancellationExtractor(t *testing.T) {
	e := NewCancellationExtractor(nil)
	filler := strings.Repeat(" x", 120)
	tests := []struct {
		name string
		text string
		kind constants.CancellationKind
		days int
		conf int
		none bool
	}{
		{name: "standard", text: "Kündigungsfrist: 3 Monate", kind: constants.KindStandard, days: 90, conf: 80},
		{name: "daily with contract", text: "Der Vertrag ist täglich kündbar.", kind: constants.KindDaily, days: 0, conf: 90},
		{name: "daily without context", text: "Täglich kündbar.", none: true},
		{name: "quarterly deadline", text: "Kündigung mit einer Frist von 3 Monaten zum Quartalsende.", kind: constants.KindQuarterlyDeadline, days: 90, conf: 85},
		{name: "deadline beats standard", text: "Kündigungsfrist: 3 Monate zum Quartalsende", kind: constants.KindQuarterlyDeadline, days: 90, conf: 85},
		{name: "monthly deadline", text: "Die Kündigungsfrist beträgt einen Monat zum Monatsende.", kind: constants.KindMonthlyDeadline, days: 30, conf: 85},
		{name: "end of period", text: "Kann mit einer Frist von 6 Wochen zum Ende der Laufzeit gekündigt werden.", kind: constants.KindEndOfPeriod, days: 42, conf: 75},
		{name: "end of period short", text: "Frist: 1 Monat zum Ende der Laufzeit.", kind: constants.KindEndOfPeriod, days: 30, conf: 75},
		{name: "before expiry with trailing verb", text: "Der Vertrag verlängert sich um ein Jahr, wenn er nicht 3 Monate vor Ablauf gekündigt wird.", kind: constants.KindEndOfPeriod, days: 90, conf: 70},
		{name: "before expiry with leading verb", text: "Sie können mit einer Frist von einem Monat vor Vertragsende kündigen.", kind: constants.KindEndOfPeriod, days: 30, conf: 70},
		{name: "before expiry without cancelling", text: "Wir erinnern Sie 3 Monate vor Ablauf an die Verlängerung.", none: true},
		{name: "daily keyword suppresses end of period", text: "Jederzeit kündbar." + filler + " Frist: 1 Monat zum Ende der Laufzeit.", none: true},
		{name: "named quarter", text: "Der Vertrag ist mit einer Kündigungsfrist von einem Quartal kündbar.", kind: constants.KindStandard, days: 90, conf: 70},
		{name: "named half year", text: "Halbjährlich kündbar.", kind: constants.KindStandard, days: 180, conf: 70},
		{name: "no terms", text: "Dies ist ein Kaufvertrag.", none: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			if tt.none {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("got nil")
			}
			if got.Kind != tt.kind || got.Days != tt.days || got.Confidence != tt.conf {
				t.Errorf("got {%s %d %d}, want {%s %d %d}", got.Kind, got.Days, got.Confidence, tt.kind, tt.days, tt.conf)
			}
		})
	}
}

func TestDurationExtractor(t *testing.T) {
	e := NewDurationExtractor(nil)
	tests := []struct {
		text       string
		months     int
		indefinite bool
		conf       int
		none       bool
	}{
		{text: "Die Vertragslaufzeit beträgt 24 Monate.", months: 24, conf: 80},
		{text: "Laufzeit: 2 Jahre", months: 24, conf: 80},
		{text: "Vereinbart ist eine zweijährige Laufzeit.", months: 24, conf: 75},
		{text: "Der Vertrag wird für die Dauer von 36 Monaten fest abgeschlossen.", months: 36, conf: 75},
		{text: "Das Arbeitsverhältnis ist unbefristet.", indefinite: true, conf: 80},
		{text: "Laufzeit 500 Monate", none: true},
		{text: "Mindestlaufzeit 12 Monate", none: true},
	}
	for _, tt := range tests {
		got := e.Extract(tt.text)
		if tt.none {
			if got != nil {
				t.Errorf("%q: got %+v, want nil", tt.text, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("%q: got nil", tt.text)
			continue
		}
		if got.Months != tt.months || got.Indefinite != tt.indefinite || got.Confidence != tt.conf {
			t.Errorf("%q: got %+v", tt.text, got)
		}
	}
}

func TestMinimumTermExtractor(t *testing.T) {
	e := NewMinimumTermExtractor(nil)
	start := day(2025, 1, 1)
	tests := []struct {
		text     string
		months   int
		conf     int
		earliest string
	}{
		{"Eine Kündigung ist ab dem 13. Monat möglich.", 12, 85, "2026-01-01"},
		{"Der Vertrag ist frühestens nach 6 Monaten kündbar.", 6, 85, "2025-07-01"},
		{"Mindestlaufzeit: 24 Monate", 24, 70, "2027-01-01"},
		{"Es gilt eine 12-monatige Mindestlaufzeit.", 12, 70, "2026-01-01"},
		{"Mindestlaufzeit 200 Monate", 0, 0, ""},
		{"Kündigung ab dem 1. Monat möglich.", 0, 0, ""},
	}
	for _, tt := range tests {
		got := e.Extract(tt.text, &start)
		if tt.months == 0 {
			if got != nil {
				t.Errorf("%q: got %+v, want nil", tt.text, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("%q: got nil", tt.text)
			continue
		}
		if got.Months != tt.months || got.Confidence != tt.conf {
			t.Errorf("%q: got months %d conf %d", tt.text, got.Months, got.Confidence)
		}
		if got.EarliestCancelDate == nil || got.EarliestCancelDate.Format(dates.Layout) != tt.earliest {
			t.Errorf("%q: earliest = %v, want %s", tt.text, got.EarliestCancelDate, tt.earliest)
		}
	}

	if got := e.Extract("Mindestlaufzeit: 24 Monate", nil); got == nil || got.EarliestCancelDate != nil {
		t.Errorf("without start: got %+v", got)
	}
}

func TestAutoRenewalDetector(t *testing.T) {
	d := NewAutoRenewalDetector(nil)
	tests := []struct {
		name    string
		text    string
		active  bool
		conf    int
		months  int
		negated bool
	}{
		{
			name:   "conditional clause is not a negation",
			text:   "Der Vertrag verlängert sich automatisch um weitere 12 Monate, wenn er nicht spätestens drei Monate vor Ablauf gekündigt wird.",
			active: true, conf: 85, months: 12,
		},
		{
			name:   "explicit negation wins",
			text:   "Es erfolgt keine automatische Verlängerung. Hinweis: In anderen Tarifen verlängert sich der Vertrag automatisch um 12 Monate.",
			active: false, conf: 90, negated: true,
		},
		{
			name:   "local negation discards the match",
			text:   "Der Vertrag verlängert sich nicht.",
			active: false, conf: 70, negated: true,
		},
		{
			name:   "no clause",
			text:   "Kaufvertrag über ein Fahrrad.",
			active: false, conf: 50,
		},
		{
			name:   "tacit renewal by one year",
			text:   "Stillschweigende Verlängerung um jeweils ein Jahr.",
			active: true, conf: 85, months: 12,
		},
		{
			name:   "unless cancelled",
			text:   "Das Abonnement verlängert sich um einen Monat, sofern keine Kündigung erfolgt.",
			active: true, conf: 85, months: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text)
			if got.Active != tt.active || got.Confidence != tt.conf || got.RenewalMonths != tt.months || got.Negated != tt.negated {
				t.Errorf("got %+v", got)
			}
		})
	}
}
