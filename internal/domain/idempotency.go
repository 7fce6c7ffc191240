package domain

import "time"

// Idempotency represents a recorded result of a previously processed request,
// keyed by (staff_id, scope, key). Scope is the resource the request targeted
// (an entry id, or a fixed route tag for collection-level posts). It enables
// safe retries for POST/PUT operations by letting the HTTP layer recognize a
// replay without re-executing point side effects.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	StaffID   string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_staff_scope_key,priority:1"`
	Scope     string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_staff_scope_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_staff_scope_key,priority:3"`
	RefID     string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
