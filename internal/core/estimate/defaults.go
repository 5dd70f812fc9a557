// Package estimate holds per contract type fallbacks used when no end date can be read from the text.
package estimate

import (
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
)

// Default is the typical term of a contract type and the confidence an estimate based on it deserves.
type Default struct {
	Months     int
	Confidence int
}

// Defaults is read-only configuration. Confidences stay within 30..60.
var Defaults = map[constants.ContractType]Default{
	constants.Purchase:   {Months: 24, Confidence: 30}, // statutory warranty
	constants.Employment: {Months: 24, Confidence: 30},
	constants.Rental:     {Months: 12, Confidence: 30},
	constants.Telecom:    {Months: 24, Confidence: 50},
	constants.Insurance:  {Months: 12, Confidence: 40},
	constants.Loan:       {Months: 60, Confidence: 35},
	constants.Service:    {Months: 12, Confidence: 45},
	constants.Other:      {Months: 12, Confidence: 30},
}

// For returns the default of ct, falling back to OTHER.
func For(ct constants.ContractType) Default {
	if d, ok := Defaults[ct]; ok {
		return d
	}
	return Defaults[constants.Other]
}

// EndDate estimates the end of a contract from its start.
func EndDate(ct constants.ContractType, start time.Time) (time.Time, int) {
	d := For(ct)
	return dates.AddMonths(start, d.Months), d.Confidence
}
