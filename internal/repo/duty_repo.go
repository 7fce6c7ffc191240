// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// DutyAssignment model: (duty date, slot) -> assignee rows written by the
// duty roster's recurrence expansion.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// UpsertDutyAssignment writes an assignee for (date, slot), silently
// overwriting any previous assignee for that key (last write wins; no merge).
func UpsertDutyAssignment(ctx context.Context, db *gorm.DB, date string, slot int, staffID string, updatedBy *string) error {
	row := &domain.DutyAssignment{
		DutyDate:  date,
		Slot:      slot,
		StaffID:   staffID,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "duty_date"}, {Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"staff_id", "updated_by", "updated_at"}),
		}).
		Create(row).Error
}

// DeleteDutyAssignment clears the assignee for one (date, slot). Deleting an
// absent row is not an error.
func DeleteDutyAssignment(ctx context.Context, db *gorm.DB, date string, slot int) error {
	return db.WithContext(ctx).
		Where("duty_date = ? AND slot = ?", date, slot).
		Delete(&domain.DutyAssignment{}).Error
}

// DeleteDutyAssignments clears the assignee for many dates in one slot, used
// by the roster's clear mode.
func DeleteDutyAssignments(ctx context.Context, db *gorm.DB, dates []string, slot int) error {
	if len(dates) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("duty_date IN ? AND slot = ?", dates, slot).
		Delete(&domain.DutyAssignment{}).Error
}

// ListDutyAssignees returns the assignees for one date ordered by slot.
func ListDutyAssignees(ctx context.Context, db *gorm.DB, date string) ([]domain.DutyAssignment, error) {
	var out []domain.DutyAssignment
	err := db.WithContext(ctx).
		Where("duty_date = ?", date).
		Order("slot ASC").
		Find(&out).Error
	return out, err
}

// ListDutyRange returns every assignment with a duty date inside the
// inclusive [from, to] range, ordered by date then slot.
func ListDutyRange(ctx context.Context, db *gorm.DB, from, to string) ([]domain.DutyAssignment, error) {
	var out []domain.DutyAssignment
	err := db.WithContext(ctx).
		Where("duty_date >= ? AND duty_date <= ?", from, to).
		Order("duty_date ASC, slot ASC").
		Find(&out).Error
	return out, err
}
