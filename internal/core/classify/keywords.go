package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

// Tier weights per distinct keyword hit.
const (
	WeightStrong = 10
	WeightMedium = 3
	WeightWeak   = 1
)

// Tiers groups the keywords of one contract type.
type Tiers struct {
	Strong []string
	Medium []string
	Weak   []string
}

// ContractTypeKeywords is read-only configuration; every keyword is lower case.
var ContractTypeKeywords = map[constants.ContractType]Tiers{
	constants.Purchase: {
		Strong: []string{"kaufvertrag", "kaufpreis", "käufer", "verkäufer", "kaufgegenstand"},
		Medium: []string{"gewährleistung", "eigentumsvorbehalt", "lieferung", "übergabe", "bestellung"},
		Weak:   []string{"ware", "kauf", "lieferdatum", "artikel"},
	},
	constants.Employment: {
		Strong: []string{"arbeitsvertrag", "arbeitgeber", "arbeitnehmer", "anstellungsvertrag", "arbeitsverhältnis"},
		Medium: []string{"probezeit", "bruttogehalt", "bruttomonatsgehalt", "urlaubsanspruch", "arbeitszeit", "tätigkeit als"},
		Weak:   []string{"gehalt", "urlaub", "position", "mitarbeiter", "vergütung"},
	},
	constants.Rental: {
		Strong: []string{"mietvertrag", "vermieter", "mieter", "kaltmiete", "mietobjekt", "mietverhältnis"},
		Medium: []string{"nebenkosten", "kaution", "wohnfläche", "mietbeginn", "warmmiete", "wohnung"},
		Weak:   []string{"miete", "zimmer", "schlüssel", "hausordnung"},
	},
	constants.Telecom: {
		Strong: []string{"mobilfunkvertrag", "mobilfunk", "dsl", "rufnummer", "sim-karte", "datenvolumen", "festnetz", "glasfaser"},
		Medium: []string{"tarif", "flatrate", "internet", "router", "anschluss", "lte", "5g"},
		Weak:   []string{"telefon", "sms", "netz", "handy"},
	},
	constants.Insurance: {
		Strong: []string{"versicherungsschein", "versicherungsnehmer", "versicherungsvertrag", "police", "haftpflicht", "hauptfälligkeit", "versicherer"},
		Medium: []string{"versicherungsbeitrag", "deckung", "selbstbeteiligung", "schadensfall", "versicherungssumme", "prämie"},
		Weak:   []string{"versicherung", "beitrag", "schaden", "risiko"},
	},
	constants.Loan: {
		Strong: []string{"darlehensvertrag", "kreditvertrag", "darlehensnehmer", "sollzins", "effektiver jahreszins", "tilgung"},
		Medium: []string{"darlehen", "kredit", "ratenzahlung", "zinsbindung", "monatliche rate", "nettodarlehensbetrag"},
		Weak:   []string{"zins", "rate", "bank"},
	},
	constants.Service: {
		Strong: []string{"dienstleistungsvertrag", "servicevertrag", "abonnement", "mitgliedschaft", "wartungsvertrag", "dienstvertrag"},
		Medium: []string{"leistungsumfang", "streaming", "fitnessstudio", "mitgliedsbeitrag", "wartung", "lizenz"},
		Weak:   []string{"service", "leistung", "kunde", "abo"},
	},
}

// Phrase is a weighted marker for the document category classifier.
type Phrase struct {
	Text   string
	Weight int
}

// CancellationMarkers score cancellation confirmations.
var CancellationMarkers = []Phrase{
	{"kündigungsbestätigung", 15},
	{"bestätigung ihrer kündigung", 15},
	{"bestätigen wir ihre kündigung", 15},
	{"bestätigen wir die kündigung", 15},
	{"bestätigen ihnen die kündigung", 15},
	{"eingang ihrer kündigung", 12},
	{"kündigung bestätigt", 12},
	{"ihre kündigung", 8},
	{"gekündigt zum", 8},
	{"wirksam zum", 5},
	{"endet am", 4},
	{"beendet zum", 5},
	{"vertragsende", 3},
	{"bedauern", 3},
	{"schade, dass sie", 5},
}

// InvoiceMarkers score invoices.
var InvoiceMarkers = []Phrase{
	{"rechnungsnummer", 10},
	{"rechnungsdatum", 8},
	{"rechnungsbetrag", 8},
	{"rechnung", 8},
	{"zahlbar bis", 6},
	{"fällig am", 6},
	{"zu zahlender betrag", 6},
	{"gesamtbetrag", 4},
	{"mwst", 3},
	{"umsatzsteuer", 3},
	{"ust-idnr", 3},
	{"kundennummer", 2},
}

// scorePhrases sums the weight of every distinct phrase found in lower.
func scorePhrases(lower string, phrases []Phrase) int {
	score := 0
	for _, p := range phrases {
		if containsWord(lower, p.Text) {
			score += p.Weight
		}
	}
	return score
}

// containsWord reports whether kw occurs in lower starting at a word boundary.
// Compounds ending in the keyword do not count ("vermieter" is not "mieter").
func containsWord(lower, kw string) bool {
	for from := 0; from < len(lower); {
		i := strings.Index(lower[from:], kw)
		if i < 0 {
			return false
		}
		at := from + i
		if at == 0 {
			return true
		}
		r, _ := utf8.DecodeLastRuneInString(lower[:at])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
		from = at + len(kw)
	}
	return false
}
