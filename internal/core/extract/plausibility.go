package extract

import (
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/dates"
	"github.com/joseph-ayodele/contracts-tracker/internal/core/estimate"
)

// Bounds are the sanity limits applied to extracted dates.
type Bounds struct {
	MinYear              int // anything earlier is rejected
	MaxFutureYears       int // anything later is rejected
	MaxEndPastYears      int // expired-but-renewing contracts
	MaxStartFutureMonths int
}

func DefaultBounds() Bounds {
	return Bounds{
		MinYear:              1990,
		MaxFutureYears:       10,
		MaxEndPastYears:      5,
		MaxStartFutureMonths: 6,
	}
}

// Sane reports whether d passes the hard bounds. Failing dates are dropped, not scored.
func (b Bounds) Sane(d, now time.Time) bool {
	if d.Year() < b.MinYear {
		return false
	}
	return !d.After(dates.Day(now).AddDate(b.MaxFutureYears, 0, 0))
}

// Plausible reports whether d is a believable value for role.
func (b Bounds) Plausible(role constants.DateRole, d, now time.Time) bool {
	if !b.Sane(d, now) {
		return false
	}
	today := dates.Day(now)
	switch role {
	case constants.RoleEnd:
		return !d.Before(today.AddDate(-b.MaxEndPastYears, 0, 0))
	case constants.RoleStart:
		return !d.After(dates.AddMonths(today, b.MaxStartFutureMonths))
	}
	return true
}

// consistentWithType reports whether d fits what the contract type usually looks like.
func consistentWithType(ct constants.ContractType, role constants.DateRole, d, now time.Time) bool {
	today := dates.Day(now)
	switch role {
	case constants.RoleEnd:
		horizon := 2 * estimate.For(ct).Months
		if horizon < 24 {
			horizon = 24
		}
		return !d.After(dates.AddMonths(today, horizon))
	case constants.RoleStart:
		if ct == constants.Employment || ct == constants.Rental {
			return true
		}
		return !d.After(today)
	}
	return false
}
