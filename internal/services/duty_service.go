// Package services – DutyService
//
// This file implements the cleaning-duty roster: bulk weekday application
// over a date range, single-day set/clear, range listing, and the daily
// materialization of the system duty notice entry the scheduler runs.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/recurrence"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
)

// Duty notice content. These are user-visible strings in the product
// language.
const (
	dutyCategoryName = "掃除当番"
	dutyNoticeTitle  = "本日の掃除当番はあなたです"
)

// ApplyDutyInput describes one recurring roster application. An empty
// AssigneeID switches to clear mode: matching (date, slot) rows are removed
// instead of written.
type ApplyDutyInput struct {
	AssigneeID string
	Slot       int
	StartDate  string
	EndDate    string
	Weekdays   []time.Weekday
}

// DutyService owns the duty roster and its daily notice.
type DutyService struct {
	DB *gorm.DB
}

// ApplyRecurring expands the weekday set over [StartDate, EndDate] and writes
// the roster: assign mode upserts (date, slot) last-write-wins, clear mode
// deletes. The expansion reuses the weekly recurrence rule and is not subject
// to the entry bulk cap; a roster legitimately spans hundreds of days.
func (s *DutyService) ApplyRecurring(ctx context.Context, actorID string, in ApplyDutyInput) (int, error) {
	tr := otel.Tracer("services/DutyService")
	ctx, span := tr.Start(ctx, "ApplyRecurring",
		trace.WithAttributes(
			attribute.String("staff.id", actorID),
			attribute.Int("duty.slot", in.Slot),
		),
	)
	defer span.End()

	if actorID == "" {
		return 0, ErrUnauthorized
	}
	if in.Slot < 1 {
		return 0, ErrInvalidSlot
	}
	if len(in.Weekdays) == 0 {
		return 0, ErrNoWeekdaySelected
	}
	start, err := time.Parse(domain.DateFormat, in.StartDate)
	if err != nil {
		return 0, ErrInvalidDate
	}
	end, err := time.Parse(domain.DateFormat, in.EndDate)
	if err != nil {
		return 0, ErrInvalidDate
	}
	if start.After(end) {
		return 0, ErrInvalidDateRange
	}

	dates := recurrence.Generate(start, recurrence.Weekly{End: end, Weekdays: in.Weekdays})
	isoDates := make([]string, len(dates))
	for i, d := range dates {
		isoDates[i] = d.Format(domain.DateFormat)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.AssigneeID == "" {
			return repo.DeleteDutyAssignments(ctx, tx, isoDates, in.Slot)
		}
		if _, err := repo.GetStaff(ctx, tx, in.AssigneeID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrStaffNotFound
			}
			return err
		}
		for _, d := range isoDates {
			if err := repo.UpsertDutyAssignment(ctx, tx, d, in.Slot, in.AssigneeID, &actorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(isoDates), nil
}

// SetForDate assigns one staff member to (date, slot), replacing any previous
// assignee of that slot.
func (s *DutyService) SetForDate(ctx context.Context, actorID, date string, slot int, assigneeID string) error {
	if actorID == "" {
		return ErrUnauthorized
	}
	if slot < 1 {
		return ErrInvalidSlot
	}
	if _, err := time.Parse(domain.DateFormat, date); err != nil {
		return ErrInvalidDate
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetStaff(ctx, tx, assigneeID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrStaffNotFound
			}
			return err
		}
		return repo.UpsertDutyAssignment(ctx, tx, date, slot, assigneeID, &actorID)
	})
}

// ClearForDate removes the (date, slot) assignment. Clearing an absent row is
// a no-op.
func (s *DutyService) ClearForDate(ctx context.Context, actorID, date string, slot int) error {
	if actorID == "" {
		return ErrUnauthorized
	}
	if slot < 1 {
		return ErrInvalidSlot
	}
	if _, err := time.Parse(domain.DateFormat, date); err != nil {
		return ErrInvalidDate
	}
	return repo.DeleteDutyAssignment(ctx, s.DB.WithContext(ctx), date, slot)
}

// ListRange returns all assignments with duty dates in [from, to], ordered by
// date then slot.
func (s *DutyService) ListRange(ctx context.Context, from, to string) ([]domain.DutyAssignment, error) {
	if _, err := time.Parse(domain.DateFormat, from); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse(domain.DateFormat, to); err != nil {
		return nil, ErrInvalidDate
	}
	if from > to {
		return nil, ErrInvalidDateRange
	}
	return repo.ListDutyRange(ctx, s.DB.WithContext(ctx), from, to)
}

// MaterializeNotice creates or refreshes the system duty notice entry for the
// given date from that day's roster. With no assignees nothing is written.
// The notice mentions every assignee and targets the slot-1 assignee; the
// per-date row is reused across refreshes so the board never shows duplicate
// notices.
func (s *DutyService) MaterializeNotice(ctx context.Context, date string) (*domain.Entry, error) {
	if _, err := time.Parse(domain.DateFormat, date); err != nil {
		return nil, ErrInvalidDate
	}

	var out *domain.Entry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignments, err := repo.ListDutyAssignees(ctx, tx, date)
		if err != nil {
			return err
		}
		if len(assignments) == 0 {
			return nil
		}

		ids := make([]string, len(assignments))
		for i, a := range assignments {
			ids[i] = a.StaffID
		}
		staff, err := repo.ListStaffByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		names := make(map[string]string, len(staff))
		for _, st := range staff {
			names[st.ID] = st.Name
		}

		primary := assignments[0].StaffID
		body := dutyNoticeBody(assignments, names)

		if existing, err := repo.GetDutyEntryForDate(ctx, tx, date); err == nil {
			if err := repo.UpdateEntryFields(ctx, tx, existing.ID, primary, map[string]any{
				"body":            body,
				"staff_id":        primary,
				"target_staff_id": primary,
			}); err != nil {
				return err
			}
			refreshed, err := repo.GetEntry(ctx, tx, existing.ID)
			if err != nil {
				return err
			}
			out = refreshed
			return nil
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		cat, err := repo.GetOrCreateCategoryByName(ctx, tx, dutyCategoryName)
		if err != nil {
			return err
		}
		e := domain.Entry{
			CategoryID:    cat.ID,
			StaffID:       primary,
			Title:         dutyNoticeTitle,
			Body:          body,
			TargetDate:    date,
			Kind:          domain.EntryKindCleaningDuty,
			TargetStaffID: &primary,
		}
		if err := repo.CreateEntry(ctx, tx, &e); err != nil {
			return err
		}
		out = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// dutyNoticeBody renders the mention line for the day's assignees in slot
// order, falling back to the raw id when a staff row has gone missing.
func dutyNoticeBody(assignments []domain.DutyAssignment, names map[string]string) string {
	mentions := make([]string, 0, len(assignments))
	for _, a := range assignments {
		name := names[a.StaffID]
		if name == "" {
			name = a.StaffID
		}
		mentions = append(mentions, "@"+name)
	}
	return fmt.Sprintf("%s さん\n本日の掃除当番をお願いします。", strings.Join(mentions, " "))
}
