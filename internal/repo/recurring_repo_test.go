package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

func TestRecurringSetting_RoundTrip(t *testing.T) {
	db := newRepoDB(t, &domain.RecurringSetting{})
	ctx := context.Background()

	s := &domain.RecurringSetting{
		StaffID:    "s1",
		CategoryID: "c1",
		Title:      "週次棚卸し",
		Body:       "毎週の確認",
		RuleKind:   "WEEKLY",
		Config:     `{"weekdays":[1,3]}`,
		StartDate:  "2024-04-01",
		EndDate:    "2024-06-30",
		IsActive:   true,
	}
	if err := CreateRecurringSetting(ctx, db, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == "" {
		t.Fatal("ID not generated")
	}

	got, err := GetRecurringSetting(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RuleKind != "WEEKLY" || got.Config != `{"weekdays":[1,3]}` {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestUpdateRecurringSetting_PartialAndMissing(t *testing.T) {
	db := newRepoDB(t, &domain.RecurringSetting{})
	ctx := context.Background()

	s := &domain.RecurringSetting{StaffID: "s1", CategoryID: "c1", Title: "t", Body: "b", RuleKind: "DAILY", StartDate: "2024-04-01", EndDate: "2024-06-30", IsActive: true}
	if err := CreateRecurringSetting(ctx, db, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := UpdateRecurringSetting(ctx, db, s.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := GetRecurringSetting(ctx, db, s.ID)
	if got.IsActive {
		t.Fatal("is_active not flipped")
	}
	if got.Title != "t" {
		t.Fatalf("untouched field changed: %+v", got)
	}

	err := UpdateRecurringSetting(ctx, db, "ghost", map[string]any{"is_active": true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestListRecurringSettings_OwnerScoped(t *testing.T) {
	db := newRepoDB(t, &domain.RecurringSetting{})
	ctx := context.Background()

	for _, owner := range []string{"s1", "s1", "s2"} {
		s := &domain.RecurringSetting{StaffID: owner, CategoryID: "c1", Title: "t", Body: "b", RuleKind: "DAILY", StartDate: "2024-04-01", EndDate: "2024-06-30", IsActive: true}
		if err := CreateRecurringSetting(ctx, db, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	out, err := ListRecurringSettings(ctx, db, "s1")
	if err != nil || len(out) != 2 {
		t.Fatalf("len=%d err=%v, want 2", len(out), err)
	}
}

func TestDeleteRecurringSetting_RemovesRow(t *testing.T) {
	db := newRepoDB(t, &domain.RecurringSetting{})
	ctx := context.Background()

	s := &domain.RecurringSetting{StaffID: "s1", CategoryID: "c1", Title: "t", Body: "b", RuleKind: "DAILY", StartDate: "2024-04-01", EndDate: "2024-06-30", IsActive: true}
	if err := CreateRecurringSetting(ctx, db, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := DeleteRecurringSetting(ctx, db, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := GetRecurringSetting(ctx, db, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}
