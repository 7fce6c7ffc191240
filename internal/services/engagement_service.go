// Package services – EngagementService
//
// This file implements EngagementService, the component that owns the
// per-staff engagement state machine on entries. Each of CONFIRMED, WORKING
// and SOLVED is an independently toggleable action: toggling on moves the
// staff member to that status and pays the tariff once, toggling the same
// action again returns them to UNREAD and reverses the payment. The
// entry-level aggregate status is maintained alongside, with SOLVED locked
// against silent downgrades by other participants.
//
// Observability: Toggle is OpenTelemetry-instrumented; spans carry entry and
// staff identifiers plus the requested action.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
)

// ToggleResult reports the outcome of one engagement toggle.
type ToggleResult struct {
	// ToggledOff is true when the request matched the staff member's current
	// status and the action was switched off.
	ToggledOff bool `json:"toggled_off"`
	// NewStatus is the staff member's own status after the toggle.
	NewStatus domain.Status `json:"new_status"`
	// NewAggregate is the entry-level aggregate after the toggle.
	NewAggregate domain.Status `json:"new_aggregate_status"`
}

// EngagementService implements the engagement status engine over entries.
type EngagementService struct {
	// DB is the database handle used for all engagement operations.
	DB *gorm.DB
}

// Toggle flips the given action for staffID on entryID.
//
// Semantics:
//   - If the staff member's current status equals the action, the action is
//     toggled off: their status returns to UNREAD, the action record is
//     deleted, and the originally awarded points are reversed with a
//     compensating negative ledger row.
//   - Otherwise the action is toggled on: their status becomes the action,
//     and tariff points are awarded exactly once per (entry, staff, action).
//     First-payment detection is the unique index on action records; the
//     insert either lands and pays, or conflicts and pays nothing.
//   - SOLVED on sets the entry aggregate to SOLVED with solver identity and
//     time. SOLVED off clears the solver and refolds the remaining statuses.
//     Non-SOLVED toggles refold the aggregate only while the entry is not
//     SOLVED; a solved entry keeps its aggregate (points still flow).
//
// The whole flip runs in one transaction so the status row, the action
// record, the ledger and the aggregate can never drift apart.
func (s *EngagementService) Toggle(ctx context.Context, entryID, staffID string, action domain.Action) (*ToggleResult, error) {
	tr := otel.Tracer("services/EngagementService")
	ctx, span := tr.Start(ctx, "Toggle",
		trace.WithAttributes(
			attribute.String("entry.id", entryID),
			attribute.String("staff.id", staffID),
			attribute.String("engagement.action", string(action)),
		),
	)
	defer span.End()

	if staffID == "" {
		return nil, ErrUnauthorized
	}
	if !action.Valid() {
		return nil, ErrInvalidAction
	}

	var res *ToggleResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetStaff(ctx, tx, staffID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrStaffNotFound
			}
			return err
		}
		entry, err := repo.GetEntry(ctx, tx, entryID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		current := domain.StatusUnread
		if es, err := repo.GetEngagementStatus(ctx, tx, entryID, staffID); err == nil {
			current = es.Status
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		if current == action.Status() {
			r, err := s.toggleOff(ctx, tx, entry, staffID, action)
			if err != nil {
				return err
			}
			res = r
			return nil
		}
		r, err := s.toggleOn(ctx, tx, entry, staffID, action)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// toggleOn moves the staff member onto the action's status, pays the tariff
// on first activation, and lifts the aggregate.
func (s *EngagementService) toggleOn(ctx context.Context, tx *gorm.DB, entry *domain.Entry, staffID string, action domain.Action) (*ToggleResult, error) {
	if err := repo.UpsertEngagementStatus(ctx, tx, entry.ID, staffID, action.Status()); err != nil {
		return nil, err
	}

	points := action.Points()
	err := repo.InsertActionRecord(ctx, tx, entry.ID, staffID, action, points)
	switch {
	case err == nil:
		reason := fmt.Sprintf("日報アクション: %s", action)
		if err := s.award(ctx, tx, staffID, points, reason, &entry.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, repo.ErrDuplicate):
		// Already paid for this action on this entry. The status flip above
		// still stands.
	default:
		return nil, err
	}

	aggregate := entry.Status
	switch {
	case action == domain.ActionSolved:
		now := time.Now().UTC()
		if err := repo.SetEntryAggregate(ctx, tx, entry.ID, domain.StatusSolved, &staffID, &now); err != nil {
			return nil, err
		}
		aggregate = domain.StatusSolved
	case entry.Status != domain.StatusSolved:
		agg, err := s.refold(ctx, tx, entry.ID)
		if err != nil {
			return nil, err
		}
		aggregate = agg
	}

	engagementToggles.WithLabelValues(string(action), "on").Inc()
	return &ToggleResult{ToggledOff: false, NewStatus: action.Status(), NewAggregate: aggregate}, nil
}

// toggleOff returns the staff member to UNREAD, reverses the original award,
// and refolds the aggregate unless the entry stays solved.
func (s *EngagementService) toggleOff(ctx context.Context, tx *gorm.DB, entry *domain.Entry, staffID string, action domain.Action) (*ToggleResult, error) {
	if err := repo.UpsertEngagementStatus(ctx, tx, entry.ID, staffID, domain.StatusUnread); err != nil {
		return nil, err
	}

	rec, err := repo.GetActionRecord(ctx, tx, entry.ID, staffID, action)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if rec != nil {
		if err := repo.DeleteActionRecord(ctx, tx, entry.ID, staffID, action); err != nil {
			return nil, err
		}
		reason := fmt.Sprintf("日報アクション取消: %s", action)
		if err := s.reverse(ctx, tx, staffID, rec.PointsAwarded, reason, &entry.ID); err != nil {
			return nil, err
		}
	}

	aggregate := entry.Status
	switch {
	case action == domain.ActionSolved && entry.Status == domain.StatusSolved:
		// Releasing the solved lock. Fold whatever the other participants
		// still hold and clear the solver identity.
		agg, err := s.refold(ctx, tx, entry.ID)
		if err != nil {
			return nil, err
		}
		aggregate = agg
	case entry.Status != domain.StatusSolved:
		// The departing member may have been the one holding the aggregate
		// up; fold the remaining statuses so precedence stays truthful.
		agg, err := s.refold(ctx, tx, entry.ID)
		if err != nil {
			return nil, err
		}
		aggregate = agg
	}

	engagementToggles.WithLabelValues(string(action), "off").Inc()
	return &ToggleResult{ToggledOff: true, NewStatus: domain.StatusUnread, NewAggregate: aggregate}, nil
}

// refold recomputes and persists the non-solved aggregate from the current
// engagement rows.
func (s *EngagementService) refold(ctx context.Context, tx *gorm.DB, entryID string) (domain.Status, error) {
	rows, err := repo.ListNonUnreadStatuses(ctx, tx, entryID)
	if err != nil {
		return "", err
	}
	statuses := make([]domain.Status, 0, len(rows))
	for _, r := range rows {
		statuses = append(statuses, r.Status)
	}
	agg := ResolveAggregate(statuses)
	if err := repo.SetEntryAggregate(ctx, tx, entryID, agg, nil, nil); err != nil {
		return "", err
	}
	return agg, nil
}

// award appends a positive ledger row and bumps the balance in lockstep.
func (s *EngagementService) award(ctx context.Context, tx *gorm.DB, staffID string, amount int, reason string, entryID *string) error {
	if err := repo.AppendLedgerEntry(ctx, tx, staffID, amount, reason, entryID); err != nil {
		return err
	}
	if err := repo.IncrementStaffPoints(ctx, tx, staffID, amount); err != nil {
		return err
	}
	pointsAwarded.WithLabelValues(reasonAction).Add(float64(amount))
	return nil
}

// reverse appends the compensating negative row for a prior award.
func (s *EngagementService) reverse(ctx context.Context, tx *gorm.DB, staffID string, amount int, reason string, entryID *string) error {
	if err := repo.AppendLedgerEntry(ctx, tx, staffID, -amount, reason, entryID); err != nil {
		return err
	}
	if err := repo.IncrementStaffPoints(ctx, tx, staffID, -amount); err != nil {
		return err
	}
	pointsReversed.WithLabelValues(reasonAction).Add(float64(amount))
	return nil
}
