package entity

import (
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

// RawDocument is the immutable input of one analysis call.
type RawDocument struct {
	Text     string `json:"text"`
	Filename string `json:"filename,omitempty"`
}

// CategoryResult is the output of the document category classifier.
type CategoryResult struct {
	Category          constants.DocumentCategory `json:"category"`
	EffectiveDate     *time.Time                 `json:"effective_date,omitempty"`
	DateSource        string                     `json:"date_source,omitempty"` // "marker" or "text"
	CancellationScore int                        `json:"cancellation_score"`
	InvoiceScore      int                        `json:"invoice_score"`
}

// Date sources reported on CategoryResult.
const (
	DateSourceMarker = "marker"
	DateSourceText   = "text"
)

// ContractTypeResult is the output of the contract type classifier.
type ContractTypeResult struct {
	Type   constants.ContractType         `json:"type"`
	Score  int                            `json:"score"`
	Scores map[constants.ContractType]int `json:"scores,omitempty"`
}
