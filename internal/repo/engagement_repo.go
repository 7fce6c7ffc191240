// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// EngagementStatus model: one row per (entry, staff) holding the latest
// action a participant took.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// GetEngagementStatus returns the participant's status row for an entry, or
// ErrNotFound when the participant never engaged (equivalent to UNREAD).
func GetEngagementStatus(ctx context.Context, db *gorm.DB, entryID, staffID string) (*domain.EngagementStatus, error) {
	var s domain.EngagementStatus
	err := db.WithContext(ctx).
		Where("entry_id = ? AND staff_id = ?", entryID, staffID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertEngagementStatus writes the participant's status for an entry,
// inserting or overwriting the single (entry, staff) row. The unique index
// ux_engagement_entry_staff makes the conflict target explicit.
func UpsertEngagementStatus(ctx context.Context, db *gorm.DB, entryID, staffID string, status domain.Status) error {
	row := &domain.EngagementStatus{
		ID:        uuid.NewString(),
		EntryID:   entryID,
		StaffID:   staffID,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_id"}, {Name: "staff_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(row).Error
}

// ListNonUnreadStatuses returns every participant status for the entry except
// UNREAD rows. Used to recompute the aggregate after an un-solve.
func ListNonUnreadStatuses(ctx context.Context, db *gorm.DB, entryID string) ([]domain.EngagementStatus, error) {
	var out []domain.EngagementStatus
	err := db.WithContext(ctx).
		Where("entry_id = ? AND status <> ?", entryID, domain.StatusUnread).
		Find(&out).Error
	return out, err
}

// ListStatusesForEntries returns all status rows for a set of entries, for
// list rendering.
func ListStatusesForEntries(ctx context.Context, db *gorm.DB, entryIDs []string) ([]domain.EngagementStatus, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}
	var out []domain.EngagementStatus
	err := db.WithContext(ctx).
		Where("entry_id IN ?", entryIDs).
		Find(&out).Error
	return out, err
}
