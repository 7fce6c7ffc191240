// Recurring-setting HTTP handlers.
//
// This file exposes REST endpoints for managing the recurrence templates
// behind recurring entries:
//   - GET    /recurring-settings        (list the caller's settings)
//   - PUT    /recurring-settings/{id}   (pause/resume, end date, rule edit)
//   - DELETE /recurring-settings/{id}   (remove setting, prune future rows)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/recurrence"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
)

// UpdateRecurringRequest is the JSON payload for editing a recurring setting.
// Absent fields are left unchanged; a rule block replaces kind and config and
// prunes future unread entries of the group.
type UpdateRecurringRequest struct {
	IsActive *bool            `json:"is_active,omitempty"`
	EndDate  *string          `json:"end_date,omitempty"`
	Title    *string          `json:"title,omitempty"`
	Body     *string          `json:"body,omitempty"`
	Rule     *recurrence.Spec `json:"rule,omitempty"`
}

// ListRecurring returns the caller's recurring settings.
func (h *Handlers) ListRecurring(c *gin.Context) {
	items, err := h.recSvc.List(c.Request.Context(), staffID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// UpdateRecurring edits one recurring setting owned by the caller.
func (h *Handlers) UpdateRecurring(c *gin.Context) {
	var req UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	setting, err := h.recSvc.Update(c.Request.Context(), staffID(c), c.Param("id"), services.UpdateRecurringInput{
		IsActive: req.IsActive,
		EndDate:  req.EndDate,
		Title:    req.Title,
		Body:     req.Body,
		Spec:     req.Rule,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, setting)
}

// DeleteRecurring removes one recurring setting owned by the caller.
func (h *Handlers) DeleteRecurring(c *gin.Context) {
	if err := h.recSvc.Delete(c.Request.Context(), staffID(c), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
