// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ActionRecord model, the idempotency key of the point tariff.
//
// The insert deliberately relies on the database unique constraint rather
// than a prior existence check: under concurrent duplicate toggles only one
// insert can win, the loser gets ErrDuplicate, and no double payment is
// possible.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// InsertActionRecord appends the paid-once marker for (entry, staff, action).
// Returns ErrDuplicate when the marker already exists, which the service
// layer treats as "points were paid before; pay nothing now".
func InsertActionRecord(ctx context.Context, db *gorm.DB, entryID, staffID string, action domain.Action, points int) error {
	rec := &domain.ActionRecord{
		ID:            uuid.NewString(),
		EntryID:       entryID,
		StaffID:       staffID,
		Action:        action,
		PointsAwarded: points,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetActionRecord returns the marker for (entry, staff, action), or
// ErrNotFound. The awarded amount on the row is what a toggle-off reverses.
func GetActionRecord(ctx context.Context, db *gorm.DB, entryID, staffID string, action domain.Action) (*domain.ActionRecord, error) {
	var rec domain.ActionRecord
	err := db.WithContext(ctx).
		Where("entry_id = ? AND staff_id = ? AND action = ?", entryID, staffID, action).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteActionRecord removes the marker, re-arming the tariff for the next
// toggle-on. Deleting an absent marker is not an error.
func DeleteActionRecord(ctx context.Context, db *gorm.DB, entryID, staffID string, action domain.Action) error {
	return db.WithContext(ctx).
		Where("entry_id = ? AND staff_id = ? AND action = ?", entryID, staffID, action).
		Delete(&domain.ActionRecord{}).Error
}
