// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// EntriesStats returns aggregate metadata for one board date: the number of
// active rows (top-level and replies) and the greatest UpdatedAt among them.
// Toggles bump entry UpdatedAt via SetEntryAggregate, so the pair changes on
// any visible mutation and is a safe ETag input. When the date has no
// entries, count is 0 and maxUpdatedAt is nil.
func EntriesStats(ctx context.Context, db *gorm.DB, date string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("target_date = ? AND lifecycle = ?", date, domain.LifecycleActive)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
