// Duty roster HTTP handlers.
//
// This file exposes REST endpoints for the cleaning-duty roster:
//   - GET    /duty?from&to     (list assignments in a date range)
//   - PUT    /duty             (apply a weekday pattern; empty staff_id clears)
//   - PUT    /duty/{date}      (assign one day's slot)
//   - DELETE /duty/{date}      (clear one day's slot)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/utils"
)

// ApplyDutyRequest is the JSON payload for applying a recurring roster
// pattern. An empty staff_id switches to clear mode. Weekdays use 0 (Sunday)
// through 6 (Saturday).
type ApplyDutyRequest struct {
	StaffID   string `json:"staff_id"`
	Slot      int    `json:"slot" binding:"required,min=1"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Weekdays  []int  `json:"weekdays" binding:"required,min=1,dive,min=0,max=6"`
}

// SetDutyRequest is the JSON payload for assigning one day's slot.
type SetDutyRequest struct {
	StaffID string `json:"staff_id" binding:"required"`
	Slot    int    `json:"slot" binding:"required,min=1"`
}

// ApplyDutyResponse reports how many roster dates one application touched.
type ApplyDutyResponse struct {
	Dates int `json:"dates"`
}

// ApplyDuty applies (or clears) a recurring weekday pattern on the roster.
func (h *Handlers) ApplyDuty(c *gin.Context) {
	var req ApplyDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid duty pattern payload")
		return
	}

	weekdays := make([]time.Weekday, len(req.Weekdays))
	for i, w := range req.Weekdays {
		weekdays[i] = time.Weekday(w)
	}
	n, err := h.dutySvc.ApplyRecurring(c.Request.Context(), staffID(c), services.ApplyDutyInput{
		AssigneeID: req.StaffID,
		Slot:       req.Slot,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Weekdays:   weekdays,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ApplyDutyResponse{Dates: n})
}

// SetDuty assigns one staff member to the given date's slot.
func (h *Handlers) SetDuty(c *gin.Context) {
	var req SetDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "staff_id and slot required")
		return
	}
	if err := h.dutySvc.SetForDate(c.Request.Context(), staffID(c), c.Param("date"), req.Slot, req.StaffID); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// ClearDuty removes the assignment of the given date's slot. The slot comes
// from the ?slot query param and defaults to 1.
func (h *Handlers) ClearDuty(c *gin.Context) {
	slot := utils.AtoiDefault(c.Query("slot"), 1)
	if err := h.dutySvc.ClearForDate(c.Request.Context(), staffID(c), c.Param("date"), slot); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// ListDuty returns roster assignments between ?from and ?to inclusive.
func (h *Handlers) ListDuty(c *gin.Context) {
	rows, err := h.dutySvc.ListRange(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}
