// Package services – RecurringService
//
// This file implements the lifecycle of persisted recurring-post settings:
// listing, pause/resume, end-date and rule edits, and deletion. Edits never
// touch entries someone has already engaged with; only future still-UNREAD
// rows of the group are pruned.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/recurrence"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
)

// UpdateRecurringInput carries the editable setting fields. Nil means
// "leave unchanged". A non-nil Spec replaces the rule kind and config.
type UpdateRecurringInput struct {
	IsActive *bool
	EndDate  *string
	Title    *string
	Body     *string
	Spec     *recurrence.Spec
}

// RecurringService owns recurring-setting lifecycle operations.
type RecurringService struct {
	DB *gorm.DB

	// Now is the clock used when pruning future rows. Defaults to time.Now.
	Now func() time.Time
}

func (s *RecurringService) today() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Format(domain.DateFormat)
}

// List returns the settings owned by staffID, newest first.
func (s *RecurringService) List(ctx context.Context, staffID string) ([]domain.RecurringSetting, error) {
	if staffID == "" {
		return nil, ErrUnauthorized
	}
	return repo.ListRecurringSettings(ctx, s.DB.WithContext(ctx), staffID)
}

// Update edits one setting on behalf of staffID (owner or admin).
//
// Pruning rules:
//   - Shrinking the end date deletes still-UNREAD group entries dated after
//     the new end.
//   - Changing the rule deletes still-UNREAD group entries dated after
//     today; already-engaged entries and past entries are never touched.
//   - Pause/resume and title/body edits prune nothing.
func (s *RecurringService) Update(ctx context.Context, staffID, id string, in UpdateRecurringInput) (*domain.RecurringSetting, error) {
	if staffID == "" {
		return nil, ErrUnauthorized
	}
	if in.EndDate != nil {
		if _, err := time.Parse(domain.DateFormat, *in.EndDate); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if in.Spec != nil {
		if _, err := in.Spec.Rule(); err != nil {
			return nil, err
		}
	}

	var out *domain.RecurringSetting
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		setting, err := s.authorize(ctx, tx, staffID, id)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if in.IsActive != nil {
			fields["is_active"] = *in.IsActive
		}
		if in.Title != nil {
			fields["title"] = *in.Title
		}
		if in.Body != nil {
			fields["body"] = *in.Body
		}
		if in.EndDate != nil {
			fields["end_date"] = *in.EndDate
			if *in.EndDate < setting.EndDate {
				if err := repo.DeleteFutureUnreadByRecurring(ctx, tx, id, *in.EndDate); err != nil {
					return err
				}
			}
		}
		if in.Spec != nil {
			cfg, err := in.Spec.ConfigJSON()
			if err != nil {
				return err
			}
			fields["rule_kind"] = in.Spec.Kind
			fields["config"] = cfg
			if in.Spec.EndDate != "" {
				fields["end_date"] = in.Spec.EndDate
			}
			if err := repo.DeleteFutureUnreadByRecurring(ctx, tx, id, s.today()); err != nil {
				return err
			}
		}
		if len(fields) > 0 {
			if err := repo.UpdateRecurringSetting(ctx, tx, id, fields); err != nil {
				return err
			}
		}
		updated, err := repo.GetRecurringSetting(ctx, tx, id)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a setting: future UNREAD group entries are pruned, the
// surviving entries are unlinked from the group, then the setting row goes.
func (s *RecurringService) Delete(ctx context.Context, staffID, id string) error {
	if staffID == "" {
		return ErrUnauthorized
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.authorize(ctx, tx, staffID, id); err != nil {
			return err
		}
		if err := repo.DeleteFutureUnreadByRecurring(ctx, tx, id, s.today()); err != nil {
			return err
		}
		if err := repo.UnlinkRecurring(ctx, tx, id); err != nil {
			return err
		}
		return repo.DeleteRecurringSetting(ctx, tx, id)
	})
}

func (s *RecurringService) authorize(ctx context.Context, tx *gorm.DB, staffID, id string) (*domain.RecurringSetting, error) {
	setting, err := repo.GetRecurringSetting(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	if setting.StaffID == staffID {
		return setting, nil
	}
	me, err := repo.GetStaff(ctx, tx, staffID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if !me.IsAdmin {
		return nil, ErrForbidden
	}
	return setting, nil
}
