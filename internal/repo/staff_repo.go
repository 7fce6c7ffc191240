// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for Staff and
// Category master data.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// GetStaff fetches one active staff member by id, or ErrNotFound. Hidden and
// deleted members cannot act on entries.
func GetStaff(ctx context.Context, db *gorm.DB, id string) (*domain.Staff, error) {
	var s domain.Staff
	err := db.WithContext(ctx).
		Where("id = ? AND lifecycle = ?", id, domain.LifecycleActive).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStaffByIDs returns staff rows for a set of ids regardless of
// lifecycle, for rendering names of past assignees and solvers.
func ListStaffByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Staff, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.Staff
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// ListActiveCategories returns active categories ordered by name.
func ListActiveCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var out []domain.Category
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

// GetCategory fetches one active category, or ErrNotFound.
func GetCategory(ctx context.Context, db *gorm.DB, id string) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateCategoryByName looks a category up by exact name, creating it
// when missing. Used by the duty scheduler for its dedicated category.
func GetOrCreateCategoryByName(ctx context.Context, db *gorm.DB, name string) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	c = domain.Category{
		ID:        uuid.NewString(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost a concurrent create; the winner's row serves.
			var existing domain.Category
			if gerr := db.WithContext(ctx).Where("name = ?", name).First(&existing).Error; gerr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &c, nil
}
