package repo

import (
	"context"
	"testing"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

func TestUpsertDutyAssignment_LastWriteWins(t *testing.T) {
	db := newRepoDB(t, &domain.DutyAssignment{})
	ctx := context.Background()
	admin := "admin-1"

	if err := UpsertDutyAssignment(ctx, db, "2024-04-01", 1, "s1", &admin); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := UpsertDutyAssignment(ctx, db, "2024-04-01", 1, "s2", &admin); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	rows, err := ListDutyAssignees(ctx, db, "2024-04-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want 1 (overwrite, not append)", len(rows))
	}
	if rows[0].StaffID != "s2" {
		t.Fatalf("assignee=%s, want s2", rows[0].StaffID)
	}

	// A second slot on the same date is a separate row.
	if err := UpsertDutyAssignment(ctx, db, "2024-04-01", 2, "s3", &admin); err != nil {
		t.Fatalf("slot 2: %v", err)
	}
	rows, _ = ListDutyAssignees(ctx, db, "2024-04-01")
	if len(rows) != 2 || rows[0].Slot != 1 || rows[1].Slot != 2 {
		t.Fatalf("slot ordering broken: %+v", rows)
	}
}

func TestDeleteDutyAssignments_ClearsOnlyGivenSlot(t *testing.T) {
	db := newRepoDB(t, &domain.DutyAssignment{})
	ctx := context.Background()

	dates := []string{"2024-04-01", "2024-04-02", "2024-04-03"}
	for _, d := range dates {
		if err := UpsertDutyAssignment(ctx, db, d, 1, "s1", nil); err != nil {
			t.Fatalf("seed slot1 %s: %v", d, err)
		}
	}
	if err := UpsertDutyAssignment(ctx, db, "2024-04-02", 2, "s2", nil); err != nil {
		t.Fatalf("seed slot2: %v", err)
	}

	if err := DeleteDutyAssignments(ctx, db, []string{"2024-04-01", "2024-04-02"}, 1); err != nil {
		t.Fatalf("bulk delete: %v", err)
	}

	rows, err := ListDutyRange(ctx, db, "2024-04-01", "2024-04-03")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2: %+v", len(rows), rows)
	}
	// Slot 2 on the 2nd survives, slot 1 on the 3rd survives.
	if rows[0].DutyDate != "2024-04-02" || rows[0].Slot != 2 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].DutyDate != "2024-04-03" || rows[1].Slot != 1 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}

	// Empty date list is a no-op, not an error.
	if err := DeleteDutyAssignments(ctx, db, nil, 1); err != nil {
		t.Fatalf("empty delete: %v", err)
	}
}

func TestListDutyRange_InclusiveBounds(t *testing.T) {
	db := newRepoDB(t, &domain.DutyAssignment{})
	ctx := context.Background()

	for _, d := range []string{"2024-03-31", "2024-04-01", "2024-04-07", "2024-04-08"} {
		if err := UpsertDutyAssignment(ctx, db, d, 1, "s1", nil); err != nil {
			t.Fatalf("seed %s: %v", d, err)
		}
	}

	rows, err := ListDutyRange(ctx, db, "2024-04-01", "2024-04-07")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(rows) != 2 || rows[0].DutyDate != "2024-04-01" || rows[1].DutyDate != "2024-04-07" {
		t.Fatalf("inclusive bounds broken: %+v", rows)
	}
}
