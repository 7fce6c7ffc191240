// Package domain defines the persistence models and closed enumerations for
// the staff notice board: entries, per-staff engagement statuses, the point
// ledger, duty assignments, and recurring-post settings. These types are
// mapped with GORM and shared across the repository and service layers.
package domain

// Status is the closed set of engagement states. It is used both for a
// participant's own state on an entry and for the entry-level aggregate.
// The zero-ish resting state is StatusUnread; a missing engagement row is
// equivalent to StatusUnread.
type Status string

const (
	StatusUnread    Status = "UNREAD"
	StatusConfirmed Status = "CONFIRMED"
	StatusWorking   Status = "WORKING"
	StatusSolved    Status = "SOLVED"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUnread, StatusConfirmed, StatusWorking, StatusSolved:
		return true
	}
	return false
}

// Action is a toggleable engagement action. Actions are the non-resting
// subset of Status: toggling an action on moves the participant to the
// corresponding status, toggling it off returns them to UNREAD.
type Action string

const (
	ActionConfirmed Action = "CONFIRMED"
	ActionWorking   Action = "WORKING"
	ActionSolved    Action = "SOLVED"
)

// Valid reports whether a is a known toggleable action.
func (a Action) Valid() bool {
	switch a {
	case ActionConfirmed, ActionWorking, ActionSolved:
		return true
	}
	return false
}

// Status returns the engagement status a participant holds while the action
// is toggled on.
func (a Action) Status() Status { return Status(a) }

// Points returns the fixed tariff paid the first time the action is toggled
// on for a given (entry, staff) pair.
func (a Action) Points() int {
	switch a {
	case ActionConfirmed:
		return PointsConfirm
	case ActionWorking:
		return PointsWorking
	case ActionSolved:
		return PointsSolved
	}
	return 0
}

// Fixed point tariff. Reply and post points are paid unconditionally at
// creation time and are not gated by an ActionRecord.
const (
	PointsConfirm = 1
	PointsWorking = 5
	PointsSolved  = 10
	PointsReply   = 3
	PointsPost    = 2
)

// Lifecycle is the visibility state of a row. A single tagged state replaces
// independent is_hidden/is_deleted booleans so that the hidden-and-deleted
// combination is unrepresentable.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "active"
	LifecycleHidden  Lifecycle = "hidden"
	LifecycleDeleted Lifecycle = "deleted"
)

// Valid reports whether l is a known lifecycle state.
func (l Lifecycle) Valid() bool {
	switch l {
	case LifecycleActive, LifecycleHidden, LifecycleDeleted:
		return true
	}
	return false
}

// EntryKind distinguishes ordinary staff posts from system-generated notices.
type EntryKind string

const (
	EntryKindNormal       EntryKind = "NORMAL"
	EntryKindCleaningDuty EntryKind = "CLEANING_DUTY"
)
