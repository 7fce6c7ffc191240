// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// RecurringSetting model.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// CreateRecurringSetting inserts the template behind a recurrence expansion.
func CreateRecurringSetting(ctx context.Context, db *gorm.DB, s *domain.RecurringSetting) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	return db.WithContext(ctx).Create(s).Error
}

// GetRecurringSetting fetches one setting by id, or ErrNotFound.
func GetRecurringSetting(ctx context.Context, db *gorm.DB, id string) (*domain.RecurringSetting, error) {
	var s domain.RecurringSetting
	err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListRecurringSettings returns all settings owned by a staff member, newest
// first.
func ListRecurringSettings(ctx context.Context, db *gorm.DB, staffID string) ([]domain.RecurringSetting, error) {
	var out []domain.RecurringSetting
	err := db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// UpdateRecurringSetting applies a partial update. Returns ErrNotFound when
// the setting does not exist.
func UpdateRecurringSetting(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.RecurringSetting{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecurringSetting removes the setting row. Generated entries must be
// pruned or unlinked first (see services.RecurringService.Delete).
func DeleteRecurringSetting(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.RecurringSetting{}).Error
}
