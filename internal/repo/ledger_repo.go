// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the point
// ledger and the running balance on staff rows.
//
// The ledger is append-only: rows are never updated or deleted, and a
// correction is a new negative row. The running balance is maintained with a
// relative SQL update (points = points + delta) so concurrent awards cannot
// lose increments to a read-then-write race.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// AppendLedgerEntry appends one signed point row for a staff member.
func AppendLedgerEntry(ctx context.Context, db *gorm.DB, staffID string, amount int, reason string, entryID *string) error {
	row := &domain.PointLedgerEntry{
		ID:        uuid.NewString(),
		StaffID:   staffID,
		Amount:    amount,
		Reason:    reason,
		EntryID:   entryID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(row).Error
}

// IncrementStaffPoints adjusts the running balance by delta atomically.
// Returns ErrNotFound when the staff row does not exist.
func IncrementStaffPoints(ctx context.Context, db *gorm.DB, staffID string, delta int) error {
	res := db.WithContext(ctx).
		Model(&domain.Staff{}).
		Where("id = ?", staffID).
		Updates(map[string]any{
			"points":     gorm.Expr("points + ?", delta),
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

// CountLedger returns the number of ledger rows for a staff member.
func CountLedger(ctx context.Context, db *gorm.DB, staffID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.PointLedgerEntry{}).
		Where("staff_id = ?", staffID).
		Count(&n).Error
	return n, err
}

// ListLedgerPage returns a page of ledger rows for a staff member, newest
// first.
func ListLedgerPage(ctx context.Context, db *gorm.DB, staffID string, offset, limit int) ([]domain.PointLedgerEntry, error) {
	var out []domain.PointLedgerEntry
	err := db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SumLedger replays the full ledger for a staff member and returns the total.
// Used for audit checks: the result must equal Staff.Points.
func SumLedger(ctx context.Context, db *gorm.DB, staffID string) (int, error) {
	var row struct {
		Total int
	}
	err := db.WithContext(ctx).
		Model(&domain.PointLedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("staff_id = ?", staffID).
		Scan(&row).Error
	return row.Total, err
}
