package services

import "github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"

// ResolveAggregate folds a set of per-staff statuses into the entry-level
// aggregate shown on the board. WORKING outranks CONFIRMED, which outranks
// UNREAD. SOLVED never comes out of this fold: the solved aggregate is set
// and cleared explicitly by the toggle flow, because it carries a solver
// identity that a precedence scan cannot reconstruct.
func ResolveAggregate(statuses []domain.Status) domain.Status {
	agg := domain.StatusUnread
	for _, st := range statuses {
		switch st {
		case domain.StatusWorking:
			return domain.StatusWorking
		case domain.StatusConfirmed:
			agg = domain.StatusConfirmed
		}
	}
	return agg
}
