// Package services defines the business logic of the notice board: the
// engagement toggle and its point tariff, entry creation with recurrence
// expansion, recurring-setting lifecycle, and the duty roster. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrUnauthorized is returned when an operation requires an
	// authenticated staff member and none was supplied. No mutation is
	// attempted in that case.
	ErrUnauthorized = errors.New("staff authentication required")

	// ErrStaffNotFound indicates the acting staff member does not exist or
	// is no longer active.
	ErrStaffNotFound = errors.New("staff not found")

	// ErrEntryNotFound indicates that the requested entry does not exist or
	// has been deleted.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrForbidden is returned when a staff member attempts to edit or
	// delete an entry or setting they do not own (and they are not admin).
	ErrForbidden = errors.New("not allowed")

	// ErrInvalidAction is returned when a toggle names a value outside
	// {CONFIRMED, WORKING, SOLVED}.
	ErrInvalidAction = errors.New("action must be CONFIRMED, WORKING or SOLVED")

	// ErrEmptyBody is returned when an entry is posted without body text.
	ErrEmptyBody = errors.New("body is empty")

	// ErrEmptyTitle is returned when a top-level entry has no title.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrCategoryNotFound indicates that the referenced category does not
	// exist or is inactive.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrInvalidDate is returned when a date field is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrInvalidDateRange is returned when a range's start date falls after
	// its end date.
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrTooManyOccurrences is returned when a recurrence expansion would
	// create more entries than the bulk-creation cap allows. This is a
	// validation failure surfaced to the caller, unlike the generator's
	// internal safety limit which stops silently.
	ErrTooManyOccurrences = errors.New("recurrence expands to too many dates")

	// ErrNoOccurrences is returned when a recurrence rule yields no dates at
	// all between its start and end.
	ErrNoOccurrences = errors.New("recurrence yields no dates")

	// ErrNoWeekdaySelected is returned when a duty roster expansion names
	// no weekdays.
	ErrNoWeekdaySelected = errors.New("select at least one weekday")

	// ErrInvalidSlot is returned when a duty slot is below 1.
	ErrInvalidSlot = errors.New("slot must be 1 or greater")

	// ErrSettingNotFound indicates the recurring setting does not exist.
	ErrSettingNotFound = errors.New("recurring setting not found")
)
