// Entry HTTP handlers.
//
// This file exposes REST endpoints for board entries:
//   - POST   /entries          (create an entry, a reply, or a recurring batch)
//   - GET    /entries          (list one date, filtered, ETag support)
//   - PUT    /entries/{id}     (author-or-admin edit)
//   - DELETE /entries/{id}     (author-or-admin soft delete)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including conditional
// responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/http/middleware"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/recurrence"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/utils"
)

//
// Service contracts (context-aware)
//

// EntryService defines entry lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type EntryService interface {
	// Create posts an entry, a reply, or a recurring batch for staffID.
	Create(ctx context.Context, staffID string, in services.CreateEntryInput) (*domain.Entry, error)
	// ListDay returns one date's board with nested replies.
	ListDay(ctx context.Context, staffID, date, filter string) ([]services.EntryView, error)
	// Update edits an entry (author or admin).
	Update(ctx context.Context, staffID, entryID string, in services.UpdateEntryInput) (*domain.Entry, error)
	// Delete soft-deletes an entry (author or admin).
	Delete(ctx context.Context, staffID, entryID string) error
}

// EngagementService defines the status toggle consumed by HTTP handlers.
type EngagementService interface {
	// Toggle flips one action for staffID on an entry.
	Toggle(ctx context.Context, entryID, staffID string, action domain.Action) (*services.ToggleResult, error)
}

// DutyService defines duty roster operations consumed by HTTP handlers.
type DutyService interface {
	// ApplyRecurring writes or clears roster rows over a weekday pattern.
	ApplyRecurring(ctx context.Context, actorID string, in services.ApplyDutyInput) (int, error)
	// SetForDate assigns one member to (date, slot).
	SetForDate(ctx context.Context, actorID, date string, slot int, assigneeID string) error
	// ClearForDate removes the (date, slot) assignment.
	ClearForDate(ctx context.Context, actorID, date string, slot int) error
	// ListRange returns assignments between two dates inclusive.
	ListRange(ctx context.Context, from, to string) ([]domain.DutyAssignment, error)
}

// RecurringService defines recurring-setting lifecycle operations.
type RecurringService interface {
	// List returns the caller's settings.
	List(ctx context.Context, staffID string) ([]domain.RecurringSetting, error)
	// Update edits one setting (pause/resume, end date, rule).
	Update(ctx context.Context, staffID, id string, in services.UpdateRecurringInput) (*domain.RecurringSetting, error)
	// Delete removes a setting and prunes its future unread entries.
	Delete(ctx context.Context, staffID, id string) error
}

// StaffService defines the profile reads consumed by HTTP handlers.
type StaffService interface {
	// Me returns the authenticated member with their balance.
	Me(ctx context.Context, staffID string) (*domain.Staff, error)
	// PointsPage returns one ledger page and the total count.
	PointsPage(ctx context.Context, staffID string, page, pageSize int) ([]domain.PointLedgerEntry, int64, error)
}

// CategoryService defines the master-data read consumed by HTTP handlers.
type CategoryService interface {
	// List returns the active categories.
	List(ctx context.Context) ([]domain.Category, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the board API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	entrySvc EntryService
	engSvc   EngagementService
	dutySvc  DutyService
	recSvc   RecurringService
	staffSvc StaffService
	catSvc   CategoryService

	// idemTTL bounds how long a stored Idempotency-Key keeps replaying.
	idemTTL time.Duration
}

// New constructs a Handlers instance bound to the given services.
func New(entrySvc EntryService, engSvc EngagementService, dutySvc DutyService, recSvc RecurringService, staffSvc StaffService, catSvc CategoryService) *Handlers {
	return &Handlers{
		entrySvc: entrySvc,
		engSvc:   engSvc,
		dutySvc:  dutySvc,
		recSvc:   recSvc,
		staffSvc: staffSvc,
		catSvc:   catSvc,
		idemTTL:  24 * time.Hour,
	}
}

// SetIdempotencyTTL overrides the retention window for stored idempotency
// records. Non-positive values keep the default.
func (h *Handlers) SetIdempotencyTTL(d time.Duration) {
	if d > 0 {
		h.idemTTL = d
	}
}

// entriesIdemScope namespaces idempotency records for the collection-level
// POST /entries, which has no path id to scope by.
const entriesIdemScope = "entries"

// staffID extracts the authenticated staff id from Gin context (set by
// upstream middleware), falling back to the "X-User-ID" header (tests use
// it). An empty result means anonymous; services reject mutations for it.
func staffID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return ""
}

// failService translates service-layer sentinel errors into the standard
// error envelope. Unrecognized errors become 500s.
func failService(c *gin.Context, err error) {
	switch err {
	case services.ErrUnauthorized:
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "staff authentication required")
	case services.ErrStaffNotFound:
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "unknown staff member")
	case services.ErrEntryNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "entry not found")
	case services.ErrSettingNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recurring setting not found")
	case services.ErrForbidden:
		fail(c, http.StatusForbidden, ErrCodeForbidden, "not allowed")
	case services.ErrInvalidAction,
		services.ErrEmptyBody,
		services.ErrEmptyTitle,
		services.ErrCategoryNotFound,
		services.ErrInvalidDate,
		services.ErrInvalidDateRange,
		services.ErrTooManyOccurrences,
		services.ErrNoOccurrences,
		services.ErrNoWeekdaySelected,
		services.ErrInvalidSlot:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		if recurrenceErr(err) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// recurrenceErr reports whether err is a recurrence spec validation error.
// Some of these are wrapped with context, so matching goes through errors.Is.
func recurrenceErr(err error) bool {
	for _, sentinel := range []error{
		recurrence.ErrUnknownKind,
		recurrence.ErrBadEndDate,
		recurrence.ErrBadInterval,
		recurrence.ErrBadUnit,
		recurrence.ErrEmptySelection,
		recurrence.ErrBadWeekday,
		recurrence.ErrBadWeek,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

//
// DTOs
//

// CreateEntryRequest is the JSON payload for posting an entry. A non-empty
// parent_id makes the post a reply (title, date and category are inherited).
// A recurrence block expands the post into one entry per generated date.
type CreateEntryRequest struct {
	ParentID      *string          `json:"parent_id,omitempty"`
	CategoryID    string           `json:"category_id"`
	Title         string           `json:"title"`
	Body          string           `json:"body" binding:"required"`
	TargetDate    string           `json:"target_date"`
	IsUrgent      bool             `json:"is_urgent"`
	Deadline      *string          `json:"deadline,omitempty"`
	Bounty        *int             `json:"bounty_points,omitempty"`
	TargetStaffID *string          `json:"target_staff_id,omitempty"`
	Recurrence    *recurrence.Spec `json:"recurrence,omitempty"`
}

// UpdateEntryRequest is the JSON payload for editing an entry. Absent fields
// are left unchanged.
type UpdateEntryRequest struct {
	Title    *string `json:"title,omitempty"`
	Body     *string `json:"body,omitempty"`
	IsUrgent *bool   `json:"is_urgent,omitempty"`
	Deadline *string `json:"deadline,omitempty"`
	Bounty   *int    `json:"bounty_points,omitempty"`
}

// ListEntriesResponse wraps one date's board rows.
type ListEntriesResponse struct {
	Date    string               `json:"date"`
	Entries []services.EntryView `json:"entries"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CreateEntry creates an entry, a reply, or a recurring batch for the current
// staff member and returns the (first) created entry.
func (h *Handlers) CreateEntry(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	actor := staffID(c)

	// Idempotency (replay path): a known key means the post already landed;
	// return the stored entry instead of creating a duplicate.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.entrySvc.(*services.EntryService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, actor, entriesIdemScope, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetEntry(ctx, svc.DB, rec.RefID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, prev)
					return
				}
			}
		}
	}

	e, err := h.entrySvc.Create(ctx, actor, services.CreateEntryInput{
		ParentID:      req.ParentID,
		CategoryID:    req.CategoryID,
		Title:         strings.TrimSpace(req.Title),
		Body:          req.Body,
		TargetDate:    req.TargetDate,
		IsUrgent:      req.IsUrgent,
		Deadline:      req.Deadline,
		Bounty:        req.Bounty,
		TargetStaffID: req.TargetStaffID,
		Recurrence:    req.Recurrence,
	})
	if err != nil {
		failService(c, err)
		return
	}

	// Idempotency (store path): best effort.
	if idemKey != "" {
		if svc, okSvc := h.entrySvc.(*services.EntryService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, actor, entriesIdemScope, idemKey, e.ID, http.StatusCreated, h.idemTTL)
		}
	}

	ok(c, http.StatusCreated, e)
}

// ListEntries returns the board for ?date, optionally narrowed by
// ?filter=urgent|todo. Supports weak ETags via If-None-Match and may return
// 304 when the date's entries have not changed.
func (h *Handlers) ListEntries(c *gin.Context) {
	ctx := c.Request.Context()
	date := c.Query("date")
	filter := c.Query("filter")

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.entrySvc.(*services.EntryService); ok {
		db = svc.DB
	}
	if db != nil && date != "" {
		count, maxTS, err := repo.EntriesStats(ctx, db, date)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"entries:%s:%s:%d:%d"`, date, filter, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	views, err := h.entrySvc.ListDay(ctx, staffID(c), date, filter)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListEntriesResponse{Date: date, Entries: views})
}

// UpdateEntry edits an entry owned by the caller (or any entry for admins).
func (h *Handlers) UpdateEntry(c *gin.Context) {
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	e, err := h.entrySvc.Update(c.Request.Context(), staffID(c), c.Param("id"), services.UpdateEntryInput{
		Title:    req.Title,
		Body:     req.Body,
		IsUrgent: req.IsUrgent,
		Deadline: req.Deadline,
		Bounty:   req.Bounty,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

// DeleteEntry soft-deletes an entry owned by the caller (or any entry for
// admins).
func (h *Handlers) DeleteEntry(c *gin.Context) {
	if err := h.entrySvc.Delete(c.Request.Context(), staffID(c), c.Param("id")); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
