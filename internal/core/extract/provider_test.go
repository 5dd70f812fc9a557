package extract

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

func TestProviderExtractor(t *testing.T) {
	e := NewProviderExtractor(DefaultMinProviderConfidence, nil)
	tests := []struct {
		name      string
		text      string
		filename  string
		canonical string
		display   string
		conf      int
	}{
		{
			name:      "alias with legal form",
			text:      "Telekom Deutschland GmbH\nLandgrabenweg 151\nIhr Mobilfunkvertrag",
			canonical: "telekom",
			display:   "Deutsche Telekom",
			conf:      100,
		},
		{
			name:      "labelled landlord",
			text:      "Mietvertrag\nVermieter: Hausverwaltung Schmidt GmbH\nMieter: Max Mustermann",
			canonical: "hausverwaltung schmidt",
			display:   "Hausverwaltung Schmidt GmbH",
			conf:      90,
		},
		{
			name: "single mention is not enough",
			text: "Ich habe bei Vodafone angerufen.",
		},
		{
			name:      "filename hint",
			text:      "Ihr Vertrag mit Vodafone über DSL.",
			filename:  "vodafone_vertrag.txt",
			canonical: "vodafone",
			display:   "Vodafone",
			conf:      95,
		},
		{
			name:      "repeated alias",
			text:      "Vodafone bestätigt Ihren Auftrag. Ihr Vodafone Team",
			canonical: "vodafone",
			display:   "Vodafone",
			conf:      90,
		},
		{
			name: "nothing",
			text: "Sehr geehrte Damen und Herren",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text, tt.filename)
			if tt.canonical == "" {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("got nil")
			}
			if got.CanonicalName != tt.canonical || got.DisplayName != tt.display || got.Confidence != tt.conf {
				t.Errorf("got %+v", got)
			}
			if got.Confidence < DefaultMinProviderConfidence {
				t.Errorf("confidence %d below gate", got.Confidence)
			}
		})
	}
}

func TestCostExtractor(t *testing.T) {
	e := NewCostExtractor(nil)
	tests := []struct {
		text     string
		amount   string
		interval constants.CostInterval
		conf     int
	}{
		{"Der monatliche Beitrag beträgt 29,99 € und ist monatlich zu zahlen.", "29.99", constants.IntervalMonthly, 75},
		{"Kaufpreis: 1.234,56 EUR einmalig", "1234.56", constants.IntervalOnce, 75},
		{"Einrichtungsgebühr 10,00 EUR. Grundgebühr monatlich 39,99 EUR.", "39.99", constants.IntervalMonthly, 75},
		{"Betrag EUR 12,50", "12.5", constants.IntervalUnknown, 40},
		{"39.95 EUR monatlich", "39.95", constants.IntervalMonthly, 55},
		{"Kaufpreis € 1,234.56", "1234.56", constants.IntervalUnknown, 60},
		{"Rechnungsbetrag 1.234.56 EUR", "", "", 0},
		{"Gesamtbetrag 0,00 €", "", "", 0},
		{"Keine Kosten.", "", "", 0},
	}
	for _, tt := range tests {
		got := e.Extract(tt.text)
		if tt.amount == "" {
			if got != nil {
				t.Errorf("%q: got %+v, want nil", tt.text, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("%q: got nil", tt.text)
			continue
		}
		if !got.Amount.Equal(decimal.RequireFromString(tt.amount)) {
			t.Errorf("%q: amount = %s, want %s", tt.text, got.Amount, tt.amount)
		}
		if got.Interval != tt.interval || got.Confidence != tt.conf || got.Currency != "EUR" {
			t.Errorf("%q: got %s %d %s", tt.text, got.Interval, got.Confidence, got.Currency)
		}
	}
}
