package classify

import (
	"testing"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

func TestContractTypeClassify(t *testing.T) {
	c := NewContractTypeClassifier(DefaultMinTypeScore, nil)
	tests := []struct {
		name     string
		text     string
		filename string
		want     constants.ContractType
		score    int
	}{
		{
			name:  "rental",
			text:  "Mietvertrag\nZwischen dem Vermieter und dem Mieter. Kaltmiete 800 EUR.",
			want:  constants.Rental,
			score: 41,
		},
		{
			name: "no keywords",
			text: "Hallo Welt",
			want: constants.Other,
		},
		{
			name:     "filename hint",
			text:     "Vertrag",
			filename: "scans/Versicherungsschein_Haftpflicht.txt",
			want:     constants.Insurance,
			score:    21,
		},
		{
			name:  "tie goes to earlier type",
			text:  "Käufer und Vermieter",
			want:  constants.Purchase,
			score: 10,
		},
		{
			name:  "below threshold",
			text:  "Die Miete ist zu zahlen.",
			want:  constants.Other,
			score: 1,
		},
		{
			name:  "compound suffix does not count",
			text:  "Hausverwaltung als Untervermieter",
			want:  constants.Other,
			score: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, tt.filename)
			if got.Type != tt.want {
				t.Errorf("type = %s, want %s (scores %v)", got.Type, tt.want, got.Scores)
			}
			if got.Score != tt.score {
				t.Errorf("score = %d, want %d", got.Score, tt.score)
			}
		})
	}
}

func TestFilenameWords(t *testing.T) {
	if got := filenameWords(`C:\docs\Mobilfunk-Vertrag_2024.pdf`); got != "mobilfunk vertrag 2024" {
		t.Errorf("filenameWords = %q", got)
	}
}
