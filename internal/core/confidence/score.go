// Package confidence accumulates auditable 0..100 scores from named rule contributions.
package confidence

import (
	"strconv"
	"strings"
)

const (
	Min = 0
	Max = 100
)

// Contribution is one signed scoring rule applied to a candidate value.
type Contribution struct {
	Rule   string `json:"rule"`
	Points int    `json:"points"`
}

// Score is an append-only list of contributions. The zero value scores 0.
type Score struct {
	contributions []Contribution
}

// New starts a score with a base contribution.
func New(rule string, points int) Score {
	return Score{contributions: []Contribution{{Rule: rule, Points: points}}}
}

// Add returns a copy of s with one more contribution; s itself is never modified.
func (s Score) Add(rule string, points int) Score {
	next := make([]Contribution, len(s.contributions), len(s.contributions)+1)
	copy(next, s.contributions)
	return Score{contributions: append(next, Contribution{Rule: rule, Points: points})}
}

// AddIf adds the contribution only when cond holds.
func (s Score) AddIf(cond bool, rule string, points int) Score {
	if !cond {
		return s
	}
	return s.Add(rule, points)
}

// Value is the clamped sum of all contributions.
func (s Score) Value() int {
	sum := 0
	for _, c := range s.contributions {
		sum += c.Points
	}
	return Clamp(sum)
}

// Contributions returns a copy of the rules that built the score.
func (s Score) Contributions() []Contribution {
	out := make([]Contribution, len(s.contributions))
	copy(out, s.contributions)
	return out
}

func (s Score) String() string {
	parts := make([]string, 0, len(s.contributions))
	for _, c := range s.contributions {
		sign := "+"
		if c.Points < 0 {
			sign = ""
		}
		parts = append(parts, c.Rule+sign+strconv.Itoa(c.Points))
	}
	return strings.Join(parts, " ")
}

// Clamp bounds v to [Min, Max].
func Clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}
