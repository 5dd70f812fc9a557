package classify

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// DefaultMinTypeScore is the score below which a document is classified OTHER.
const DefaultMinTypeScore = 5

// ContractTypeClassifier scores text against ContractTypeKeywords.
type ContractTypeClassifier struct {
	logger   *slog.Logger
	minScore int
	keywords map[constants.ContractType]Tiers
}

func NewContractTypeClassifier(minScore int, logger *slog.Logger) *ContractTypeClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	if minScore <= 0 {
		minScore = DefaultMinTypeScore
	}
	return &ContractTypeClassifier{
		logger:   logger,
		minScore: minScore,
		keywords: ContractTypeKeywords,
	}
}

// Classify returns the arg-max contract type; ties go to the earlier type in constants.ContractTypes.
// The filename, when given, is scored like an extra line of text.
func (c *ContractTypeClassifier) Classify(text, filename string) entity.ContractTypeResult {
	lower := strings.ToLower(text)
	if filename != "" {
		lower += "\n" + filenameWords(filename)
	}

	scores := make(map[constants.ContractType]int, len(c.keywords))
	best, bestScore := constants.Other, 0
	for _, ct := range constants.ContractTypes() {
		tiers, ok := c.keywords[ct]
		if !ok {
			continue
		}
		score := scoreTier(lower, tiers.Strong, WeightStrong) +
			scoreTier(lower, tiers.Medium, WeightMedium) +
			scoreTier(lower, tiers.Weak, WeightWeak)
		scores[ct] = score
		if score > bestScore {
			best, bestScore = ct, score
		}
	}

	if bestScore < c.minScore {
		c.logger.Debug("classify.contract_type.below_threshold", "best", best, "score", bestScore, "min", c.minScore)
		best = constants.Other
	}
	return entity.ContractTypeResult{Type: best, Score: bestScore, Scores: scores}
}

func scoreTier(lower string, words []string, weight int) int {
	score := 0
	for _, w := range words {
		if containsWord(lower, w) {
			score += weight
		}
	}
	return score
}

func filenameWords(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.ToLower(strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base))
}
