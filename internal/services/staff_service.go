// Package services – StaffService
//
// This file implements the read side of the staff profile: the current
// member with their running balance, and the paginated point history. The
// persistence contract is an interface so handler tests can run against
// in-memory fakes.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
)

// StaffRepo defines the repository contract required by StaffService.
type StaffRepo interface {
	// GetStaff fetches one active staff member by id.
	GetStaff(ctx context.Context, db *gorm.DB, id string) (*domain.Staff, error)

	// CountLedger returns the total number of ledger rows for pagination.
	CountLedger(ctx context.Context, db *gorm.DB, staffID string) (int64, error)

	// ListLedgerPage returns a page of ledger rows, newest first.
	ListLedgerPage(ctx context.Context, db *gorm.DB, staffID string, offset, limit int) ([]domain.PointLedgerEntry, error)

	// SumLedger returns the signed sum of all ledger amounts for one member.
	SumLedger(ctx context.Context, db *gorm.DB, staffID string) (int, error)
}

// gormStaffRepo adapts the free repo functions to the StaffRepo contract.
type gormStaffRepo struct{}

func (gormStaffRepo) GetStaff(ctx context.Context, db *gorm.DB, id string) (*domain.Staff, error) {
	return repo.GetStaff(ctx, db, id)
}

func (gormStaffRepo) CountLedger(ctx context.Context, db *gorm.DB, staffID string) (int64, error) {
	return repo.CountLedger(ctx, db, staffID)
}

func (gormStaffRepo) ListLedgerPage(ctx context.Context, db *gorm.DB, staffID string, offset, limit int) ([]domain.PointLedgerEntry, error) {
	return repo.ListLedgerPage(ctx, db, staffID, offset, limit)
}

func (gormStaffRepo) SumLedger(ctx context.Context, db *gorm.DB, staffID string) (int, error) {
	return repo.SumLedger(ctx, db, staffID)
}

// StaffService exposes profile and point-history reads.
type StaffService struct {
	DB   *gorm.DB
	Repo StaffRepo

	// PageSizeDefault and PageSizeMax bound the history page size.
	PageSizeDefault int
	PageSizeMax     int
}

// NewStaffService constructs a StaffService over the GORM-backed repo with
// default pagination bounds.
func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{
		DB:              db,
		Repo:            gormStaffRepo{},
		PageSizeDefault: 20,
		PageSizeMax:     100,
	}
}

// Me returns the authenticated staff member with their current balance.
func (s *StaffService) Me(ctx context.Context, staffID string) (*domain.Staff, error) {
	if staffID == "" {
		return nil, ErrUnauthorized
	}
	st, err := s.Repo.GetStaff(ctx, s.DB.WithContext(ctx), staffID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return st, nil
}

// PointsPage returns one page of the member's ledger, newest first, plus the
// total row count. Page numbers start at 1; out-of-range sizes are clamped.
func (s *StaffService) PointsPage(ctx context.Context, staffID string, page, pageSize int) ([]domain.PointLedgerEntry, int64, error) {
	if staffID == "" {
		return nil, 0, ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.PageSizeDefault
	}
	if s.PageSizeMax > 0 && pageSize > s.PageSizeMax {
		pageSize = s.PageSizeMax
	}

	db := s.DB.WithContext(ctx)
	total, err := s.Repo.CountLedger(ctx, db, staffID)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Repo.ListLedgerPage(ctx, db, staffID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// LedgerTotal returns the signed sum of the member's ledger rows. The figure
// equals Staff.Points whenever the two are written in lockstep, which makes
// it a cheap audit check.
func (s *StaffService) LedgerTotal(ctx context.Context, staffID string) (int, error) {
	if staffID == "" {
		return 0, ErrUnauthorized
	}
	return s.Repo.SumLedger(ctx, s.DB.WithContext(ctx), staffID)
}
