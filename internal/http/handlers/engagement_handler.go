// Engagement HTTP handlers.
//
// This file exposes the REST endpoint for toggling an engagement action on an
// entry:
//   - POST /entries/{id}/status  (toggle CONFIRMED/WORKING/SOLVED)
//
// Handlers in this file are transport-thin: they validate input, delegate to
// the engagement service, and translate domain/service errors into HTTP
// results. The same request repeated toggles the action back off; clients can
// tell from the toggled_off field. Clients that cannot tell a lost response
// from a lost request send an Idempotency-Key: a retry carrying the same key
// replays the stored outcome instead of flipping the toggle again.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/http/middleware"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
)

// ToggleStatusRequest is the JSON payload for flipping one engagement action.
//
// Action must be one of CONFIRMED, WORKING, SOLVED. The binding tag enforces
// the closed set at the transport layer.
type ToggleStatusRequest struct {
	// Action is the engagement action to flip.
	Action string `json:"action" binding:"required,oneof=CONFIRMED WORKING SOLVED"`
}

// ToggleStatus flips the requested action for the current staff member on
// the entry and returns the member's new status plus the entry aggregate.
func (h *Handlers) ToggleStatus(c *gin.Context) {
	var req ToggleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action must be CONFIRMED, WORKING or SOLVED")
		return
	}

	ctx := c.Request.Context()
	entryID := c.Param("id")
	actor := staffID(c)

	// Idempotency (replay path): a key the store already knows means the
	// toggle ran; rebuild the outcome from persisted state instead of
	// flipping again.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.engSvc.(*services.EngagementService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, actor, entryID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := replayToggle(ctx, svc.DB, entryID, actor); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	res, err := h.engSvc.Toggle(ctx, entryID, actor, domain.Action(req.Action))
	if err != nil {
		failService(c, err)
		return
	}

	// Idempotency (store path): best effort.
	if idemKey != "" {
		if svc, okSvc := h.engSvc.(*services.EngagementService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, actor, entryID, idemKey, entryID, http.StatusOK, h.idemTTL)
		}
	}

	ok(c, http.StatusOK, res)
}

// replayToggle reconstructs a ToggleResult from what the first execution left
// behind: the caller's own engagement row (absent means toggled off) and the
// entry aggregate.
func replayToggle(ctx context.Context, db *gorm.DB, entryID, staffID string) (*services.ToggleResult, error) {
	entry, err := repo.GetEntry(ctx, db, entryID)
	if err != nil {
		return nil, err
	}
	status := domain.StatusUnread
	if es, err := repo.GetEngagementStatus(ctx, db, entryID, staffID); err == nil {
		status = es.Status
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return &services.ToggleResult{
		ToggledOff:   status == domain.StatusUnread,
		NewStatus:    status,
		NewAggregate: entry.Status,
	}, nil
}
