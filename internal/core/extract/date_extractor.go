package extract

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/confidence"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// DateInput is the read-only state shared by all date passes of one document.
type DateInput struct {
	Text     string
	Lower    string
	Type     constants.ContractType
	Now      time.Time
	Dates    []dates.Match // complete dates, letterhead dates removed
	Partials []dates.Match // year-less dates, letterhead dates removed
	Duration *entity.Duration
}

// Candidate is a proposed value for one role.
type Candidate struct {
	Role   constants.DateRole
	Value  time.Time
	Score  confidence.Score
	Pass   string
	Source constants.DataSource
}

// Resolution holds the best candidate per role found so far.
type Resolution struct {
	Start *Candidate
	End   *Candidate
}

func (r Resolution) get(role constants.DateRole) *Candidate {
	if role == constants.RoleStart {
		return r.Start
	}
	return r.End
}

// DateStrategy is one extraction pass. Applies gates the pass on what earlier passes resolved.
type DateStrategy interface {
	Name() string
	Applies(r Resolution) bool
	Attempt(in *DateInput, r Resolution) []Candidate
}

// DateResult is the outcome of a date extraction.
type DateResult struct {
	Start *entity.ExtractedDate
	End   *entity.ExtractedDate
}

type DateExtractor struct {
	logger     *slog.Logger
	strategies []DateStrategy
}

// NewDateExtractor wires the four passes in priority order.
func NewDateExtractor(bounds Bounds, logger *slog.Logger) *DateExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	sc := scorer{bounds: bounds, logger: logger}
	return &DateExtractor{
		logger: logger,
		strategies: []DateStrategy{
			explicitMarkerPass{sc},
			domainMarkerPass{sc},
			bareDatePass{sc},
			estimationPass{},
		},
	}
}

// Extract resolves start and end dates. dur is the extracted duration, used
// by the estimate pass; nil means none was found.
func (e *DateExtractor) Extract(text string, ct constants.ContractType, dur *entity.Duration, now time.Time) DateResult {
	text = strings.ToValidUTF8(text, "?")
	in := &DateInput{
		Text:     text,
		Lower:    lowerKeepOffsets(text),
		Type:     ct,
		Now:      now,
		Duration: dur,
	}
	for _, m := range dates.FindAll(text) {
		if dates.ExcludeLetterhead(text, m) {
			e.logger.Debug("extract.date.letterhead", "date", m.Text, "offset", m.Start)
			continue
		}
		in.Dates = append(in.Dates, m)
	}
	for _, m := range dates.FindPartial(text, now) {
		if !dates.ExcludeLetterhead(text, m) {
			in.Partials = append(in.Partials, m)
		}
	}

	var res Resolution
	for _, s := range e.strategies {
		if !s.Applies(res) {
			continue
		}
		for _, c := range s.Attempt(in, res) {
			res = merge(res, c)
		}
		res = e.reconcile(res)
		e.logger.Debug("extract.date.pass",
			"pass", s.Name(),
			"start", describe(res.Start),
			"end", describe(res.End),
		)
	}

	return DateResult{Start: res.Start.toEntity(), End: res.End.toEntity()}
}

// merge keeps the higher scoring candidate per role; ties keep the earlier one.
func merge(r Resolution, c Candidate) Resolution {
	cur := r.get(c.Role)
	if cur != nil && cur.Score.Value() >= c.Score.Value() {
		return r
	}
	cc := c
	if c.Role == constants.RoleStart {
		r.Start = &cc
	} else {
		r.End = &cc
	}
	return r
}

// reconcile drops the weaker of a start and end that are not in order.
func (e *DateExtractor) reconcile(r Resolution) Resolution {
	if r.Start == nil || r.End == nil || r.End.Value.After(r.Start.Value) {
		return r
	}
	e.logger.Debug("extract.date.conflict", "start", describe(r.Start), "end", describe(r.End))
	if r.Start.Score.Value() > r.End.Score.Value() {
		r.End = nil
	} else {
		r.Start = nil
	}
	return r
}

func (c *Candidate) toEntity() *entity.ExtractedDate {
	if c == nil {
		return nil
	}
	return &entity.ExtractedDate{
		Value:      c.Value,
		Confidence: c.Score.Value(),
		Role:       c.Role,
		Source:     c.Source,
		Pass:       c.Pass,
		Rules:      c.Score.Contributions(),
	}
}

func describe(c *Candidate) string {
	if c == nil {
		return "-"
	}
	return c.Value.Format(dates.Layout) + " (" + c.Score.String() + ")"
}

// scorer holds the contributions every extracted candidate shares.
type scorer struct {
	bounds Bounds
	logger *slog.Logger
}

// score adds position, plausibility and type consistency. ok is false when the
// date fails the hard bounds and must be dropped.
func (sc scorer) score(s confidence.Score, in *DateInput, role constants.DateRole, m dates.Match) (confidence.Score, bool) {
	if !sc.bounds.Sane(m.Value, in.Now) {
		sc.logger.Debug("extract.date.implausible", "date", m.Value.Format(dates.Layout), "role", role)
		return s, false
	}
	switch n := len(in.Text); {
	case m.Start*3 < n:
		s = s.Add("position_first_third", 15)
	case m.Start*2 < n:
		s = s.Add("position_first_half", 5)
	}
	if sc.bounds.Plausible(role, m.Value, in.Now) {
		s = s.Add("plausible", 20)
	} else {
		s = s.Add("implausible", -30)
	}
	s = s.AddIf(consistentWithType(in.Type, role, m.Value, in.Now), "type_consistent", 5)
	return s, true
}

func extracted(role constants.DateRole, m dates.Match, s confidence.Score, pass string) Candidate {
	return Candidate{Role: role, Value: m.Value, Score: s, Pass: pass, Source: constants.SourceExtracted}
}
