// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Entry
// model.
//
// The repository follows a "thin" approach: it performs persistence and
// simple query composition, leaving business rules (toggle semantics, point
// awards, recurrence caps) to the services package.
//
// Error semantics:
//   - A missing entry is reported as ErrNotFound.
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// CreateEntry inserts a new entry row. The caller provides everything except
// the primary key and timestamps.
func CreateEntry(ctx context.Context, db *gorm.DB, e *domain.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Status == "" {
		e.Status = domain.StatusUnread
	}
	if e.Lifecycle == "" {
		e.Lifecycle = domain.LifecycleActive
	}
	if e.Kind == "" {
		e.Kind = domain.EntryKindNormal
	}
	return db.WithContext(ctx).Create(e).Error
}

// BulkInsertEntries inserts one row per date from a shared template. Dates
// come pre-expanded and pre-capped from the service layer.
func BulkInsertEntries(ctx context.Context, db *gorm.DB, template domain.Entry, dates []string) ([]domain.Entry, error) {
	now := time.Now().UTC()
	rows := make([]domain.Entry, 0, len(dates))
	for _, date := range dates {
		e := template
		e.ID = uuid.NewString()
		e.TargetDate = date
		e.Status = domain.StatusUnread
		e.Lifecycle = domain.LifecycleActive
		e.CreatedAt = now
		e.UpdatedAt = now
		rows = append(rows, e)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := db.WithContext(ctx).CreateInBatches(rows, 50).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetEntry fetches one active entry by id, or ErrNotFound.
func GetEntry(ctx context.Context, db *gorm.DB, id string) (*domain.Entry, error) {
	var e domain.Entry
	err := db.WithContext(ctx).
		Where("id = ? AND lifecycle = ?", id, domain.LifecycleActive).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntriesByDate returns active top-level entries for one target date,
// newest first. Visibility targeting and todo/urgent filtering are applied in
// the service layer.
func ListEntriesByDate(ctx context.Context, db *gorm.DB, date string) ([]domain.Entry, error) {
	var out []domain.Entry
	err := db.WithContext(ctx).
		Where("target_date = ? AND lifecycle = ? AND parent_id IS NULL", date, domain.LifecycleActive).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListReplies returns active replies under the given parent ids, oldest
// first.
func ListReplies(ctx context.Context, db *gorm.DB, parentIDs []string) ([]domain.Entry, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var out []domain.Entry
	err := db.WithContext(ctx).
		Where("parent_id IN ? AND lifecycle = ?", parentIDs, domain.LifecycleActive).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// UpdateEntryFields applies a partial update to one entry and stamps
// updated_at/updated_by. Returns ErrNotFound when the entry does not exist.
func UpdateEntryFields(ctx context.Context, db *gorm.DB, id, updatedBy string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	fields["updated_by"] = updatedBy
	res := db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("id = ? AND lifecycle = ?", id, domain.LifecycleActive).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEntryAggregate persists the entry-level aggregate status together with
// the solver identity. Passing a nil solver clears solved_by/solved_at, which
// is exactly the un-solve transition.
func SetEntryAggregate(ctx context.Context, db *gorm.DB, id string, status domain.Status, solvedBy *string, solvedAt *time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"solved_by":  solvedBy,
			"solved_at":  solvedAt,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteEntry flips the entry to the deleted lifecycle state. The row is
// retained for the ledger's entry references and for audit.
func SoftDeleteEntry(ctx context.Context, db *gorm.DB, id, deletedBy string) error {
	return UpdateEntryFields(ctx, db, id, deletedBy, map[string]any{
		"lifecycle": domain.LifecycleDeleted,
	})
}

// DeleteFutureUnreadByRecurring hard-deletes not-yet-engaged entries of a
// recurrence group with a target date strictly after the given date. Entries
// someone already acted on are left in place.
func DeleteFutureUnreadByRecurring(ctx context.Context, db *gorm.DB, recurringID, afterDate string) error {
	return db.WithContext(ctx).
		Where("recurring_id = ? AND target_date > ? AND status = ?", recurringID, afterDate, domain.StatusUnread).
		Delete(&domain.Entry{}).Error
}

// UnlinkRecurring clears the recurrence-group reference on all surviving
// entries of a group, so the setting row can be removed.
func UnlinkRecurring(ctx context.Context, db *gorm.DB, recurringID string) error {
	return db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("recurring_id = ?", recurringID).
		Update("recurring_id", nil).Error
}

// GetDutyEntryForDate returns the active system duty notice for one date, or
// ErrNotFound. At most one such entry exists per date.
func GetDutyEntryForDate(ctx context.Context, db *gorm.DB, date string) (*domain.Entry, error) {
	var e domain.Entry
	err := db.WithContext(ctx).
		Where("target_date = ? AND kind = ? AND lifecycle = ? AND parent_id IS NULL",
			date, domain.EntryKindCleaningDuty, domain.LifecycleActive).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
