// Package recurrence implements the calendar expansion used for recurring
// entries and duty rosters: given a start date and a rule, it produces the
// ordered, deduplicated, capped set of occurrence dates.
//
// Rules form a closed sum type: each kind carries exactly the parameters it
// needs, so invalid combinations (an interval on a weekday rule, ordinal
// weeks on a daily rule) cannot be constructed. The wire/JSON representation
// lives in Spec, which validates before producing a Rule.
//
// The generator itself is pure and total: any start/end combination yields a
// finite slice (possibly empty), never an error. Business-level limits such
// as the bulk-creation cap belong to the service layer.
package recurrence

import "time"

// Rule describes how occurrence dates repeat between a start date and the
// rule's inclusive end date. Implementations are the only rule kinds.
type Rule interface {
	// Until returns the inclusive end date of the expansion.
	Until() time.Time

	isRule()
}

// Daily repeats every calendar day through End.
type Daily struct {
	End time.Time
}

// Weekly repeats on the days of week in Weekdays through End. An empty set
// defaults to the start date's own weekday.
type Weekly struct {
	End      time.Time
	Weekdays []time.Weekday
}

// Monthly repeats on the start date's day of month, clamped to the last day
// of shorter months (the 31st becomes Feb 29 in a leap year).
type Monthly struct {
	End time.Time
}

// Yearly repeats on the start date's month and day each year, with the same
// end-of-month clamp (Feb 29 becomes Feb 28 in non-leap years).
type Yearly struct {
	End time.Time
}

// Unit is the step unit of an Interval rule.
type Unit string

const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
	UnitYears  Unit = "years"
)

// Valid reports whether u is a known interval unit.
func (u Unit) Valid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	}
	return false
}

// Interval repeats every Every units starting from the start date. Month and
// year steps are computed from the start anchor with the end-of-month clamp,
// so "every 1 month from Jan 31" visits Feb 29, Mar 31, ... rather than
// drifting into early March.
type Interval struct {
	End   time.Time
	Every int
	Unit  Unit
}

// OrdinalWeekday repeats on the cross product of "Nth week of month" values
// (1..5) and weekdays. A pair that does not exist in a given month (a fifth
// Friday, say) contributes no date for that month.
type OrdinalWeekday struct {
	End      time.Time
	Weeks    []int
	Weekdays []time.Weekday
}

func (r Daily) Until() time.Time          { return r.End }
func (r Weekly) Until() time.Time         { return r.End }
func (r Monthly) Until() time.Time        { return r.End }
func (r Yearly) Until() time.Time         { return r.End }
func (r Interval) Until() time.Time       { return r.End }
func (r OrdinalWeekday) Until() time.Time { return r.End }

func (Daily) isRule()          {}
func (Weekly) isRule()         {}
func (Monthly) isRule()        {}
func (Yearly) isRule()         {}
func (Interval) isRule()       {}
func (OrdinalWeekday) isRule() {}
