// Package services – EntryService
//
// This file implements EntryService, which owns entry creation (including
// replies and recurrence expansion), the filtered day listing, and
// author-or-admin edits. Posting pays a small unconditional tariff; the
// recurrence path expands a rule into dated copies that share one persisted
// recurring setting.
package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/width"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/recurrence"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
)

// DefaultBulkLimit caps how many entries one recurrence expansion may create.
// This is a business rule surfaced as a validation error, unlike the
// generator's internal termination guard.
const DefaultBulkLimit = 100

// List filter names accepted by ListDay.
const (
	FilterNone   = ""
	FilterUrgent = "urgent"
	FilterTodo   = "todo"
)

// CreateEntryInput carries everything a staff member may set when posting.
// A non-nil ParentID makes the post a reply; Recurrence is only honored on
// top-level posts.
type CreateEntryInput struct {
	ParentID      *string
	CategoryID    string
	Title         string
	Body          string
	TargetDate    string
	IsUrgent      bool
	Deadline      *string
	Bounty        *int
	TargetStaffID *string
	Recurrence    *recurrence.Spec
}

// UpdateEntryInput carries the editable fields. Nil means "leave unchanged".
type UpdateEntryInput struct {
	Title    *string
	Body     *string
	IsUrgent *bool
	Deadline *string
	Bounty   *int
}

// EntryView is one board row: the entry, its nested replies, and the calling
// staff member's own engagement status on it.
type EntryView struct {
	Entry    domain.Entry   `json:"entry"`
	Replies  []domain.Entry `json:"replies"`
	MyStatus domain.Status  `json:"my_status"`
}

// EntryService owns the entry lifecycle.
type EntryService struct {
	DB *gorm.DB

	// BulkLimit overrides DefaultBulkLimit when positive.
	BulkLimit int
}

func (s *EntryService) bulkLimit() int {
	if s.BulkLimit > 0 {
		return s.BulkLimit
	}
	return DefaultBulkLimit
}

// Create posts a new entry or reply on behalf of staffID and pays the
// creation tariff. When in.Recurrence is set the post is expanded into one
// entry per generated date, all linked to a new recurring setting, and the
// tariff is paid once for the whole batch. The first created entry is
// returned.
func (s *EntryService) Create(ctx context.Context, staffID string, in CreateEntryInput) (*domain.Entry, error) {
	tr := otel.Tracer("services/EntryService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("staff.id", staffID)),
	)
	defer span.End()

	if staffID == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, ErrEmptyBody
	}
	if in.ParentID != nil {
		return s.createReply(ctx, staffID, in)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if _, err := time.Parse(domain.DateFormat, in.TargetDate); err != nil {
		return nil, ErrInvalidDate
	}
	if in.Deadline != nil && *in.Deadline != "" {
		if _, err := time.Parse(domain.DateFormat, *in.Deadline); err != nil {
			return nil, ErrInvalidDate
		}
	}

	var created *domain.Entry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetStaff(ctx, tx, staffID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrStaffNotFound
			}
			return err
		}
		if _, err := repo.GetCategory(ctx, tx, in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		template := domain.Entry{
			CategoryID:    in.CategoryID,
			StaffID:       staffID,
			Title:         in.Title,
			Body:          in.Body,
			TargetDate:    in.TargetDate,
			IsUrgent:      in.IsUrgent,
			Deadline:      in.Deadline,
			Bounty:        in.Bounty,
			TargetStaffID: in.TargetStaffID,
		}

		if in.Recurrence != nil {
			e, err := s.createRecurring(ctx, tx, staffID, template, *in.Recurrence)
			if err != nil {
				return err
			}
			created = e
		} else {
			e := template
			if err := repo.CreateEntry(ctx, tx, &e); err != nil {
				return err
			}
			created = &e
			entriesCreated.WithLabelValues("post").Inc()
		}

		if err := s.payCreation(ctx, tx, staffID, domain.PointsPost, "日報投稿", &created.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createReply attaches a reply to an existing entry and pays the reply
// tariff. Replies inherit the parent's category and date.
func (s *EntryService) createReply(ctx context.Context, staffID string, in CreateEntryInput) (*domain.Entry, error) {
	var created *domain.Entry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetStaff(ctx, tx, staffID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrStaffNotFound
			}
			return err
		}
		parent, err := repo.GetEntry(ctx, tx, *in.ParentID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrEntryNotFound
			}
			return err
		}
		e := domain.Entry{
			ParentID:   &parent.ID,
			CategoryID: parent.CategoryID,
			StaffID:    staffID,
			Title:      in.Title,
			Body:       in.Body,
			TargetDate: parent.TargetDate,
		}
		if err := repo.CreateEntry(ctx, tx, &e); err != nil {
			return err
		}
		created = &e
		entriesCreated.WithLabelValues("reply").Inc()
		return s.payCreation(ctx, tx, staffID, domain.PointsReply, "返信投稿", &e.ID)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createRecurring expands the recurrence spec into dates, persists the
// setting, and bulk-inserts one entry per date.
func (s *EntryService) createRecurring(ctx context.Context, tx *gorm.DB, staffID string, template domain.Entry, spec recurrence.Spec) (*domain.Entry, error) {
	rule, err := spec.Rule()
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(domain.DateFormat, template.TargetDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if start.Format(domain.DateFormat) > spec.EndDate {
		return nil, ErrInvalidDateRange
	}

	dates := recurrence.Generate(start, rule)
	if len(dates) == 0 {
		return nil, ErrNoOccurrences
	}
	if len(dates) > s.bulkLimit() {
		return nil, ErrTooManyOccurrences
	}

	cfg, err := spec.ConfigJSON()
	if err != nil {
		return nil, err
	}
	setting := &domain.RecurringSetting{
		ID:         uuid.NewString(),
		StaffID:    staffID,
		CategoryID: template.CategoryID,
		Title:      template.Title,
		Body:       template.Body,
		RuleKind:   spec.Kind,
		Config:     cfg,
		StartDate:  template.TargetDate,
		EndDate:    spec.EndDate,
		IsActive:   true,
	}
	if err := repo.CreateRecurringSetting(ctx, tx, setting); err != nil {
		return nil, err
	}

	template.RecurringID = &setting.ID
	isoDates := make([]string, len(dates))
	for i, d := range dates {
		isoDates[i] = d.Format(domain.DateFormat)
	}
	rows, err := repo.BulkInsertEntries(ctx, tx, template, isoDates)
	if err != nil {
		return nil, err
	}
	entriesCreated.WithLabelValues("recurring").Add(float64(len(rows)))
	return &rows[0], nil
}

// payCreation appends the unconditional creation tariff. Unlike action
// tariffs there is no uniqueness gate; every post and reply pays.
func (s *EntryService) payCreation(ctx context.Context, tx *gorm.DB, staffID string, amount int, reason string, entryID *string) error {
	if err := repo.AppendLedgerEntry(ctx, tx, staffID, amount, reason, entryID); err != nil {
		return err
	}
	if err := repo.IncrementStaffPoints(ctx, tx, staffID, amount); err != nil {
		return err
	}
	label := reasonPost
	if amount == domain.PointsReply {
		label = reasonReply
	}
	pointsAwarded.WithLabelValues(label).Add(float64(amount))
	return nil
}

// ListDay returns the board for one date: top-level entries with nested
// replies and the caller's own status, optionally narrowed by filter.
// Unresolved entries sort before solved ones, nearer deadlines first.
func (s *EntryService) ListDay(ctx context.Context, staffID, date, filter string) ([]EntryView, error) {
	if _, err := time.Parse(domain.DateFormat, date); err != nil {
		return nil, ErrInvalidDate
	}

	db := s.DB.WithContext(ctx)
	entries, err := repo.ListEntriesByDate(ctx, db, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []EntryView{}, nil
	}

	var me *domain.Staff
	if staffID != "" {
		if st, err := repo.GetStaff(ctx, db, staffID); err == nil {
			me = st
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	replies, err := repo.ListReplies(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	byParent := make(map[string][]domain.Entry, len(entries))
	for _, r := range replies {
		byParent[*r.ParentID] = append(byParent[*r.ParentID], r)
	}

	mine := make(map[string]domain.Status, len(ids))
	if staffID != "" {
		rows, err := repo.ListStatusesForEntries(ctx, db, ids)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if r.StaffID == staffID {
				mine[r.EntryID] = r.Status
			}
		}
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		if !s.matchesFilter(e, me, filter) {
			continue
		}
		my := mine[e.ID]
		if my == "" {
			my = domain.StatusUnread
		}
		views = append(views, EntryView{Entry: e, Replies: byParent[e.ID], MyStatus: my})
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Entry, views[j].Entry
		as, bs := a.Status == domain.StatusSolved, b.Status == domain.StatusSolved
		if as != bs {
			return !as
		}
		if ka, kb := deadlineKey(a.Deadline), deadlineKey(b.Deadline); ka != kb {
			return ka < kb
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return views, nil
}

// deadlineKey orders present deadlines ascending and pushes absent ones last.
func deadlineKey(d *string) string {
	if d == nil || *d == "" {
		return "9999-99-99"
	}
	return *d
}

func (s *EntryService) matchesFilter(e domain.Entry, me *domain.Staff, filter string) bool {
	switch filter {
	case FilterNone:
		return true
	case FilterUrgent:
		return e.IsUrgent && e.Status != domain.StatusSolved
	case FilterTodo:
		if e.Status == domain.StatusSolved || me == nil {
			return false
		}
		if e.TargetStaffID != nil && *e.TargetStaffID == me.ID {
			return true
		}
		return mentions(e.Body, me)
	default:
		return true
	}
}

// mentions reports whether body addresses the staff member via @All, their
// job type, or their name. Input is width-folded first so full-width marks
// typed from a Japanese IME match their ASCII forms.
func mentions(body string, me *domain.Staff) bool {
	folded := strings.ToLower(width.Fold.String(body))
	if strings.Contains(folded, "@all") || strings.Contains(folded, "@全員") {
		return true
	}
	if me.JobType != "" && strings.Contains(folded, strings.ToLower(width.Fold.String("@"+me.JobType))) {
		return true
	}
	return strings.Contains(folded, strings.ToLower(width.Fold.String("@"+me.Name)))
}

// Update edits an entry's fields. Only the author or an admin may edit.
func (s *EntryService) Update(ctx context.Context, staffID, entryID string, in UpdateEntryInput) (*domain.Entry, error) {
	if staffID == "" {
		return nil, ErrUnauthorized
	}
	fields := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, ErrEmptyTitle
		}
		fields["title"] = *in.Title
	}
	if in.Body != nil {
		if strings.TrimSpace(*in.Body) == "" {
			return nil, ErrEmptyBody
		}
		fields["body"] = *in.Body
	}
	if in.IsUrgent != nil {
		fields["is_urgent"] = *in.IsUrgent
	}
	if in.Deadline != nil {
		if *in.Deadline != "" {
			if _, err := time.Parse(domain.DateFormat, *in.Deadline); err != nil {
				return nil, ErrInvalidDate
			}
			fields["deadline"] = *in.Deadline
		} else {
			fields["deadline"] = nil
		}
	}
	if in.Bounty != nil {
		fields["bounty"] = *in.Bounty
	}

	var out *domain.Entry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.authorize(ctx, tx, staffID, entryID)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			out = entry
			return nil
		}
		if err := repo.UpdateEntryFields(ctx, tx, entryID, staffID, fields); err != nil {
			return err
		}
		e, err := repo.GetEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete soft-deletes an entry. Only the author or an admin may delete.
func (s *EntryService) Delete(ctx context.Context, staffID, entryID string) error {
	if staffID == "" {
		return ErrUnauthorized
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.authorize(ctx, tx, staffID, entryID); err != nil {
			return err
		}
		return repo.SoftDeleteEntry(ctx, tx, entryID, staffID)
	})
}

// authorize loads the entry and verifies staffID is its author or an admin.
func (s *EntryService) authorize(ctx context.Context, tx *gorm.DB, staffID, entryID string) (*domain.Entry, error) {
	entry, err := repo.GetEntry(ctx, tx, entryID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if entry.StaffID == staffID {
		return entry, nil
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
	return entry, nil
}
