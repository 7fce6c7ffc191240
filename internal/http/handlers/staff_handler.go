// Staff profile HTTP handlers.
//
// This file exposes the read side of the staff profile:
//   - GET /staff/me          (current member with balance)
//   - GET /staff/me/points   (paginated point history)
//   - GET /categories        (active category master data)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// PointsResponse wraps one page of the point ledger.
type PointsResponse struct {
	Items      []domain.PointLedgerEntry `json:"items"`
	Pagination Pagination                `json:"pagination"`
}

// Me returns the authenticated staff member with their point balance.
func (h *Handlers) Me(c *gin.Context) {
	st, err := h.staffSvc.Me(c.Request.Context(), staffID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// MyPoints returns one page of the caller's point history, newest first.
func (h *Handlers) MyPoints(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.staffSvc.PointsPage(c.Request.Context(), staffID(c), page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, PointsResponse{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// ListCategories returns the active categories entries are filed under.
func (h *Handlers) ListCategories(c *gin.Context) {
	items, err := h.catSvc.List(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}
