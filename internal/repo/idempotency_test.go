package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

func TestIdempotency_CreateAndReplayLookup(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "s1", "entries", "key-1", "e-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.RefID != "e-1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "s1", "entries", "key-1", time.Now())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RefID != "e-1" {
		t.Fatalf("ref=%q, want e-1", got.RefID)
	}

	// Same key in a different scope or for a different member is distinct.
	if _, err := GetIdempotency(ctx, db, "s1", "status:e2", "key-1", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-scope err=%v, want ErrNotFound", err)
	}
	if _, err := GetIdempotency(ctx, db, "s2", "entries", "key-1", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-staff err=%v, want ErrNotFound", err)
	}
}

func TestIdempotency_DuplicateKeyRejected(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "s1", "entries", "key-1", "e-1", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "s1", "entries", "key-1", "e-2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err=%v, want ErrDuplicate", err)
	}
}

func TestIdempotency_ExpiredRecordIsInvisible(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "s1", "entries", "key-1", "e-1", 201, time.Minute); err != nil {
		t.Fatalf("create: %v", err)
	}
	future := time.Now().Add(2 * time.Minute)
	if _, err := GetIdempotency(ctx, db, "s1", "entries", "key-1", future); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound after expiry", err)
	}
}

func TestGetIdempotency_EmptyScopeShortCircuits(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	if _, err := GetIdempotency(context.Background(), db, "s1", "  ", "key-1", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}
