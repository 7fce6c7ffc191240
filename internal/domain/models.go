package domain

import (
	"time"
)

// DateFormat is the canonical layout for calendar-date columns. Target dates,
// deadlines, and duty dates carry no time component and are stored as plain
// YYYY-MM-DD strings to stay timezone-independent.
const DateFormat = "2006-01-02"

// Staff represents a staff member who can post and act on entries.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: display name, also used for @Name mention matching.
//   - Email: unique login identity (authentication itself is external).
//   - JobType: job label used for @JobType mention matching.
//   - IsAdmin: grants edit/delete rights over other authors' entries.
//   - Points: running point balance; always updated together with a ledger
//     append, never independently.
//   - Lifecycle: active/hidden/deleted visibility state.
type Staff struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(64);not null"`
	Email     string    `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_staff_email"`
	JobType   string    `json:"job_type"   gorm:"type:varchar(64);not null;default:''"`
	IsAdmin   bool      `json:"is_admin"   gorm:"not null;default:false"`
	Points    int       `json:"points"     gorm:"not null;default:0"`
	Lifecycle Lifecycle `json:"-"          gorm:"type:varchar(16);not null;default:'active';check:lifecycle IN ('active','hidden','deleted')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Staff.
func (Staff) TableName() string { return "staff" }

// Category is master data grouping entries. Only minimal read access is
// exposed here; category administration lives outside this service.
type Category struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"      gorm:"type:varchar(64);not null;uniqueIndex:ux_categories_name"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// Entry represents a dated notice posted by a staff member. Replies are
// entries whose ParentID references the top-level entry.
//
// Invariants:
//   - Status only leaves StatusSolved through an explicit un-solve toggle;
//     unrelated participant activity never downgrades it silently.
//   - SolvedBy/SolvedAt are set exactly while Status is SOLVED.
//   - Rows created by one recurrence expansion share a RecurringID.
type Entry struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ParentID   *string   `json:"parent_id,omitempty" gorm:"type:char(36);index:idx_entries_parent"`
	CategoryID string    `json:"category_id" gorm:"type:char(36);not null;index"`
	StaffID    string    `json:"staff_id"    gorm:"type:char(36);not null;index"`
	Title      string    `json:"title"       gorm:"type:varchar(255);not null"`
	Body       string    `json:"body"        gorm:"type:text;not null"`
	TargetDate string    `json:"target_date" gorm:"type:char(10);not null;index:idx_entries_date"`
	IsUrgent   bool      `json:"is_urgent"   gorm:"not null;default:false"`
	Deadline   *string   `json:"deadline,omitempty" gorm:"type:char(10)"`
	Bounty     *int      `json:"bounty_points,omitempty"`
	Kind       EntryKind `json:"kind"        gorm:"type:varchar(16);not null;default:'NORMAL';check:kind IN ('NORMAL','CLEANING_DUTY')"`
	// TargetStaffID narrows visibility to one staff member (nil = everyone).
	TargetStaffID *string    `json:"target_staff_id,omitempty" gorm:"type:char(36)"`
	Status        Status     `json:"status"      gorm:"type:varchar(16);not null;default:'UNREAD';check:status IN ('UNREAD','CONFIRMED','WORKING','SOLVED')"`
	SolvedBy      *string    `json:"solved_by,omitempty" gorm:"type:char(36)"`
	SolvedAt      *time.Time `json:"solved_at,omitempty"`
	RecurringID   *string    `json:"recurring_id,omitempty" gorm:"type:char(36);index:idx_entries_recurring"`
	Lifecycle     Lifecycle  `json:"-"           gorm:"type:varchar(16);not null;default:'active';check:lifecycle IN ('active','hidden','deleted')"`
	UpdatedBy     *string    `json:"updated_by,omitempty" gorm:"type:char(36)"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Entry.
func (Entry) TableName() string { return "entries" }

// EngagementStatus is the latest action a staff member took on an entry.
// At most one row exists per (entry, staff); absence is equivalent to UNREAD.
type EngagementStatus struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	EntryID   string    `json:"entry_id" gorm:"type:char(36);not null;uniqueIndex:ux_engagement_entry_staff,priority:1"`
	StaffID   string    `json:"staff_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_engagement_entry_staff,priority:2"`
	Status    Status    `json:"status"   gorm:"type:varchar(16);not null;check:status IN ('UNREAD','CONFIRMED','WORKING','SOLVED')"`
	UpdatedAt time.Time `json:"updated_at"`

	// Entry is the parent notice. Statuses are cascade-deleted with it.
	Entry Entry `json:"-" gorm:"foreignKey:EntryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for EngagementStatus.
func (EngagementStatus) TableName() string { return "engagement_statuses" }

// ActionRecord marks that points were already paid for one action on one
// entry by one staff member. The unique index on (entry, staff, action) is
// the sole double-payment guard: the insert either succeeds and points are
// awarded, or conflicts and nothing is paid. Toggling the action off deletes
// the row and reverses PointsAwarded.
type ActionRecord struct {
	ID            string    `json:"id"       gorm:"type:char(36);primaryKey"`
	EntryID       string    `json:"entry_id" gorm:"type:char(36);not null;uniqueIndex:ux_action_entry_staff_action,priority:1"`
	StaffID       string    `json:"staff_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_action_entry_staff_action,priority:2"`
	Action        Action    `json:"action"   gorm:"type:varchar(16);not null;uniqueIndex:ux_action_entry_staff_action,priority:3;check:action IN ('CONFIRMED','WORKING','SOLVED')"`
	PointsAwarded int       `json:"points_awarded" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName returns the database table name for ActionRecord.
func (ActionRecord) TableName() string { return "action_records" }

// PointLedgerEntry is one append-only row of the point history. Rows are
// never updated or deleted; a correction is a new row with a negative amount.
// The sum of Amount per staff member equals Staff.Points.
type PointLedgerEntry struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	StaffID   string    `json:"staff_id" gorm:"type:char(36);not null;index:idx_ledger_staff,priority:1"`
	Amount    int       `json:"amount"   gorm:"not null"`
	Reason    string    `json:"reason"   gorm:"type:varchar(255);not null"`
	EntryID   *string   `json:"entry_id,omitempty" gorm:"type:char(36)"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_ledger_staff,priority:2"`
}

// TableName returns the database table name for PointLedgerEntry.
func (PointLedgerEntry) TableName() string { return "point_ledger" }

// RecurringSetting is the persisted template behind a recurrence expansion of
// entries. Generated entries point back via Entry.RecurringID; editing the
// setting prunes future UNREAD entries (see services.RecurringService).
type RecurringSetting struct {
	ID         string `json:"id"          gorm:"type:char(36);primaryKey"`
	StaffID    string `json:"staff_id"    gorm:"type:char(36);not null;index"`
	CategoryID string `json:"category_id" gorm:"type:char(36);not null"`
	Title      string `json:"title"       gorm:"type:varchar(255);not null"`
	Body       string `json:"body"        gorm:"type:text;not null"`
	// RuleKind and Config mirror recurrence.Spec: Config is the JSON-encoded
	// kind-specific payload (weekday sets, interval, ordinal weeks).
	RuleKind  string    `json:"rule_kind"  gorm:"type:varchar(32);not null"`
	Config    string    `json:"config"     gorm:"type:text;not null;default:'{}'"`
	StartDate string    `json:"start_date" gorm:"type:char(10);not null"`
	EndDate   string    `json:"end_date"   gorm:"type:char(10);not null"`
	IsActive  bool      `json:"is_active"  gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for RecurringSetting.
func (RecurringSetting) TableName() string { return "recurring_settings" }

// DutyAssignment maps (duty date, slot) to one assignee. Slots allow several
// simultaneous assignees per day; writes are last-write-wins per (date, slot)
// and clearing an assignee deletes the row.
type DutyAssignment struct {
	DutyDate  string    `json:"duty_date" gorm:"type:char(10);primaryKey"`
	Slot      int       `json:"slot"      gorm:"primaryKey"`
	StaffID   string    `json:"staff_id"  gorm:"type:char(36);not null;index"`
	UpdatedBy *string   `json:"updated_by,omitempty" gorm:"type:char(36)"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for DutyAssignment.
func (DutyAssignment) TableName() string { return "duty_assignments" }
