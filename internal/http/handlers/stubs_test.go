package handlers

import (
	"context"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
)

// Function-field stubs for every service interface consumed by Handlers.
// Unset fields return zero values so each test only fills in what it checks.

type stubEntrySvc struct {
	create  func(ctx context.Context, staffID string, in services.CreateEntryInput) (*domain.Entry, error)
	listDay func(ctx context.Context, staffID, date, filter string) ([]services.EntryView, error)
	update  func(ctx context.Context, staffID, entryID string, in services.UpdateEntryInput) (*domain.Entry, error)
	remove  func(ctx context.Context, staffID, entryID string) error
}

func (s stubEntrySvc) Create(ctx context.Context, staffID string, in services.CreateEntryInput) (*domain.Entry, error) {
	if s.create != nil {
		return s.create(ctx, staffID, in)
	}
	return &domain.Entry{}, nil
}

func (s stubEntrySvc) ListDay(ctx context.Context, staffID, date, filter string) ([]services.EntryView, error) {
	if s.listDay != nil {
		return s.listDay(ctx, staffID, date, filter)
	}
	return nil, nil
}

func (s stubEntrySvc) Update(ctx context.Context, staffID, entryID string, in services.UpdateEntryInput) (*domain.Entry, error) {
	if s.update != nil {
		return s.update(ctx, staffID, entryID, in)
	}
	return &domain.Entry{}, nil
}

func (s stubEntrySvc) Delete(ctx context.Context, staffID, entryID string) error {
	if s.remove != nil {
		return s.remove(ctx, staffID, entryID)
	}
	return nil
}

type stubEngSvc struct {
	toggle func(ctx context.Context, entryID, staffID string, action domain.Action) (*services.ToggleResult, error)
}

func (s stubEngSvc) Toggle(ctx context.Context, entryID, staffID string, action domain.Action) (*services.ToggleResult, error) {
	if s.toggle != nil {
		return s.toggle(ctx, entryID, staffID, action)
	}
	return &services.ToggleResult{}, nil
}

type stubDutySvc struct {
	apply func(ctx context.Context, actorID string, in services.ApplyDutyInput) (int, error)
	set   func(ctx context.Context, actorID, date string, slot int, assigneeID string) error
	clear func(ctx context.Context, actorID, date string, slot int) error
	list  func(ctx context.Context, from, to string) ([]domain.DutyAssignment, error)
}

func (s stubDutySvc) ApplyRecurring(ctx context.Context, actorID string, in services.ApplyDutyInput) (int, error) {
	if s.apply != nil {
		return s.apply(ctx, actorID, in)
	}
	return 0, nil
}

func (s stubDutySvc) SetForDate(ctx context.Context, actorID, date string, slot int, assigneeID string) error {
	if s.set != nil {
		return s.set(ctx, actorID, date, slot, assigneeID)
	}
	return nil
}

func (s stubDutySvc) ClearForDate(ctx context.Context, actorID, date string, slot int) error {
	if s.clear != nil {
		return s.clear(ctx, actorID, date, slot)
	}
	return nil
}

func (s stubDutySvc) ListRange(ctx context.Context, from, to string) ([]domain.DutyAssignment, error) {
	if s.list != nil {
		return s.list(ctx, from, to)
	}
	return nil, nil
}

type stubRecSvc struct {
	list   func(ctx context.Context, staffID string) ([]domain.RecurringSetting, error)
	update func(ctx context.Context, staffID, id string, in services.UpdateRecurringInput) (*domain.RecurringSetting, error)
	remove func(ctx context.Context, staffID, id string) error
}

func (s stubRecSvc) List(ctx context.Context, staffID string) ([]domain.RecurringSetting, error) {
	if s.list != nil {
		return s.list(ctx, staffID)
	}
	return nil, nil
}

func (s stubRecSvc) Update(ctx context.Context, staffID, id string, in services.UpdateRecurringInput) (*domain.RecurringSetting, error) {
	if s.update != nil {
		return s.update(ctx, staffID, id, in)
	}
	return &domain.RecurringSetting{}, nil
}

func (s stubRecSvc) Delete(ctx context.Context, staffID, id string) error {
	if s.remove != nil {
		return s.remove(ctx, staffID, id)
	}
	return nil
}

type stubStaffSvc struct {
	me     func(ctx context.Context, staffID string) (*domain.Staff, error)
	points func(ctx context.Context, staffID string, page, pageSize int) ([]domain.PointLedgerEntry, int64, error)
}

func (s stubStaffSvc) Me(ctx context.Context, staffID string) (*domain.Staff, error) {
	if s.me != nil {
		return s.me(ctx, staffID)
	}
	return &domain.Staff{}, nil
}

func (s stubStaffSvc) PointsPage(ctx context.Context, staffID string, page, pageSize int) ([]domain.PointLedgerEntry, int64, error) {
	if s.points != nil {
		return s.points(ctx, staffID, page, pageSize)
	}
	return nil, 0, nil
}

type stubCatSvc struct {
	list func(ctx context.Context) ([]domain.Category, error)
}

func (s stubCatSvc) List(ctx context.Context) ([]domain.Category, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

// handlerSet bundles one stub per interface so tests override just the one
// they exercise.
type handlerSet struct {
	entry stubEntrySvc
	eng   stubEngSvc
	duty  stubDutySvc
	rec   stubRecSvc
	staff stubStaffSvc
	cat   stubCatSvc
}

func (hs handlerSet) build() *Handlers {
	return New(hs.entry, hs.eng, hs.duty, hs.rec, hs.staff, hs.cat)
}
