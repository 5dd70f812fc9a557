package estimate

import (
	"testing"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

func TestEndDateInsurance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end, conf := EndDate(constants.Insurance, start)
	if want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("end = %s, want %s", end, want)
	}
	if conf != 40 {
		t.Errorf("confidence = %d, want 40", conf)
	}
}

func TestDefaultsCoverEveryType(t *testing.T) {
	for _, ct := range constants.ContractTypes() {
		d, ok := Defaults[ct]
		if !ok {
			t.Errorf("no default for %s", ct)
			continue
		}
		if d.Confidence < 30 || d.Confidence > 60 {
			t.Errorf("%s confidence %d outside 30..60", ct, d.Confidence)
		}
		if d.Months <= 0 {
			t.Errorf("%s months %d", ct, d.Months)
		}
	}
}

func TestForUnknownFallsBackToOther(t *testing.T) {
	if got := For(constants.ContractType("BOAT")); got != Defaults[constants.Other] {
		t.Errorf("For(unknown) = %+v", got)
	}
}
