package extract

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/internal/core/confidence"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// DefaultMinProviderConfidence is the gate below which no provider is reported.
const DefaultMinProviderConfidence = 90

const headerLength = 500

// KnownProvider is one entry of the alias table; aliases are lower case.
type KnownProvider struct {
	Canonical string
	Display   string
	Aliases   []string
}

var KnownProviders = []KnownProvider{
	{"telekom", "Deutsche Telekom", []string{"deutsche telekom", "telekom deutschland", "telekom"}},
	{"vodafone", "Vodafone", []string{"vodafone"}},
	{"o2", "O2 (Telefónica)", []string{"telefónica", "telefonica", "o2"}},
	{"1und1", "1&1", []string{"1&1", "1und1"}},
	{"congstar", "congstar", []string{"congstar"}},
	{"allianz", "Allianz", []string{"allianz"}},
	{"axa", "AXA", []string{"axa"}},
	{"huk-coburg", "HUK-COBURG", []string{"huk-coburg", "huk coburg", "huk24"}},
	{"ergo", "ERGO", []string{"ergo versicherung", "ergo"}},
	{"generali", "Generali", []string{"generali"}},
	{"devk", "DEVK", []string{"devk"}},
	{"debeka", "Debeka", []string{"debeka"}},
	{"signal-iduna", "SIGNAL IDUNA", []string{"signal iduna"}},
	{"r+v", "R+V Versicherung", []string{"r+v versicherung", "r+v"}},
	{"techniker", "Techniker Krankenkasse", []string{"techniker krankenkasse"}},
	{"aok", "AOK", []string{"aok"}},
	{"vattenfall", "Vattenfall", []string{"vattenfall"}},
	{"eon", "E.ON", []string{"e.on", "eon energie"}},
	{"enbw", "EnBW", []string{"enbw"}},
	{"netflix", "Netflix", []string{"netflix"}},
	{"spotify", "Spotify", []string{"spotify"}},
	{"sky", "Sky Deutschland", []string{"sky deutschland"}},
	{"mcfit", "McFIT", []string{"mcfit"}},
	{"ing", "ING", []string{"ing-diba", "ing deutschland"}},
	{"sparkasse", "Sparkasse", []string{"sparkasse"}},
	{"commerzbank", "Commerzbank", []string{"commerzbank"}},
	{"deutsche-bank", "Deutsche Bank", []string{"deutsche bank"}},
	{"santander", "Santander", []string{"santander"}},
	{"vonovia", "Vonovia", []string{"vonovia"}},
}

// Labels that introduce the counterparty on a line of its own.
var providerLabels = []string{"anbieter", "versicherer", "vermieter", "arbeitgeber", "vertragspartner", "auftragnehmer", "darlehensgeber", "verkäufer", "dienstleister"}

var (
	reLabelled  = regexp.MustCompile(`(?im)^[ \t]*(` + strings.Join(providerLabels, "|") + `)[ \t]*:[ \t]*([^\n]{2,80})$`)
	reLegalForm = regexp.MustCompile(`\b([A-ZÄÖÜ0-9][\p{L}0-9&+.\-]*(?:[ \t]+[A-ZÄÖÜ&][\p{L}0-9&+.\-]*){0,3})[ \t]+(GmbH & Co\.? KG|GmbH|gGmbH|AG|SE|KGaA|KG|OHG|mbH|UG(?: \(haftungsbeschränkt\))?|e\.[ \t]?V\.)`)
	reLegalTail = regexp.MustCompile(`(?i)[ \t,]+(?:gmbh & co\.? kg|ggmbh|gmbh|ag|se|kgaa|kg|ohg|mbh|ug(?: \(haftungsbeschränkt\))?|e\.[ \t]?v\.)$`)
	reSpaces    = regexp.MustCompile(`\s+`)
	reArticle   = regexp.MustCompile(`(?i)^(?:die|der|das|den|dem|von|bei|mit|und)\s+`)
)

type providerCandidate struct {
	canonical string
	display   string
	first     int
	score     confidence.Score
	rules     map[string]bool
}

func (c *providerCandidate) add(rule string, points int) {
	if c.rules[rule] {
		return
	}
	c.rules[rule] = true
	c.score = c.score.Add(rule, points)
}

type ProviderExtractor struct {
	logger        *slog.Logger
	minConfidence int
	known         []KnownProvider
}

func NewProviderExtractor(minConfidence int, logger *slog.Logger) *ProviderExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinProviderConfidence
	}
	return &ProviderExtractor{logger: logger, minConfidence: minConfidence, known: KnownProviders}
}

// Extract sums the evidence per counterparty and returns the best one, or nil
// when no counterparty reaches the gate.
func (e *ProviderExtractor) Extract(text, filename string) *entity.Provider {
	lower := lowerKeepOffsets(text)
	fileWords := strings.ToLower(filename)
	cands := map[string]*providerCandidate{}
	get := func(canonical, display string, at int) *providerCandidate {
		c, ok := cands[canonical]
		if !ok {
			c = &providerCandidate{canonical: canonical, display: display, first: at, rules: map[string]bool{}}
			cands[canonical] = c
		}
		if at < c.first {
			c.first = at
		}
		return c
	}

	for _, kp := range e.known {
		for _, alias := range kp.Aliases {
			idx := wordIndexes(lower, alias, true)
			if len(idx) == 0 {
				continue
			}
			c := get(kp.Canonical, kp.Display, idx[0])
			c.add("alias", 70)
			if len(idx) > 1 {
				c.add("repeated", 10)
			}
			break
		}
	}

	for _, loc := range reLabelled.FindAllStringSubmatchIndex(text, -1) {
		value := strings.TrimSpace(text[loc[4]:loc[5]])
		c := e.nameCandidate(value, get, loc[4])
		c.add("labelled", 60)
		if reLegalTail.MatchString(value) {
			c.add("legal_form", 20)
		}
	}

	for _, loc := range reLegalForm.FindAllStringSubmatchIndex(text, -1) {
		c := e.nameCandidate(text[loc[0]:loc[1]], get, loc[0])
		c.add("legal_form", 20)
	}

	var list []*providerCandidate
	for _, c := range cands {
		if c.first < headerLength {
			c.add("header", 10)
		}
		if fileWords != "" && strings.Contains(fileWords, strings.ReplaceAll(c.canonical, " ", "")) {
			c.add("filename", 15)
		}
		if !c.rules["repeated"] && len(wordIndexes(lower, c.canonical, false)) > 1 {
			c.add("repeated", 10)
		}
		list = append(list, c)
	}
	if len(list) == 0 {
		return nil
	}
	sort.Slice(list, func(i, j int) bool {
		if a, b := list[i].score.Value(), list[j].score.Value(); a != b {
			return a > b
		}
		if list[i].first != list[j].first {
			return list[i].first < list[j].first
		}
		return list[i].canonical < list[j].canonical
	})

	best := list[0]
	if best.score.Value() < e.minConfidence {
		e.logger.Debug("extract.provider.below_threshold", "candidate", best.display, "score", best.score.String())
		return nil
	}
	return &entity.Provider{CanonicalName: best.canonical, DisplayName: best.display, Confidence: best.score.Value()}
}

// nameCandidate maps a free-form company name to an alias entry when one
// matches, else to a candidate keyed by the name without its legal form.
func (e *ProviderExtractor) nameCandidate(name string, get func(string, string, int) *providerCandidate, at int) *providerCandidate {
	name = strings.TrimRight(reSpaces.ReplaceAllString(name, " "), " ,;")
	name = reArticle.ReplaceAllString(name, "")
	lower := strings.ToLower(name)
	for _, kp := range e.known {
		for _, alias := range kp.Aliases {
			if hasWord(lower, alias, true) {
				return get(kp.Canonical, kp.Display, at)
			}
		}
	}
	key := strings.ToLower(reLegalTail.ReplaceAllString(name, ""))
	return get(key, name, at)
}
