package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
)

// CategoryService exposes the category master data entries are filed under.
type CategoryService struct {
	DB *gorm.DB
}

// List returns the active categories in name order.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return repo.ListActiveCategories(ctx, s.DB.WithContext(ctx))
}
