package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/http/middleware"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/repo"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
)

// End-to-end retry semantics: the same Idempotency-Key must replay the first
// outcome, never run the operation twice. These tests use real DB-backed
// services because the replay path reads persisted state.

func newIdemDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:boardapi_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedIdemFixtures(t *testing.T, db *gorm.DB) (author, reader *domain.Staff, cat *domain.Category, entry *domain.Entry) {
	t.Helper()
	author = &domain.Staff{ID: "author", Name: "佐藤", Email: "author@example.com", Lifecycle: domain.LifecycleActive}
	reader = &domain.Staff{ID: "reader", Name: "田中", Email: "reader@example.com", Lifecycle: domain.LifecycleActive}
	for _, st := range []*domain.Staff{author, reader} {
		if err := db.Create(st).Error; err != nil {
			t.Fatalf("seed staff %s: %v", st.ID, err)
		}
	}
	cat = &domain.Category{ID: uuid.NewString(), Name: "共有", IsActive: true}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	entry = &domain.Entry{
		ID:         uuid.NewString(),
		CategoryID: cat.ID,
		StaffID:    author.ID,
		Title:      "朝礼メモ",
		Body:       "本日の連絡事項です。",
		TargetDate: "2026-08-28",
		Kind:       domain.EntryKindNormal,
		Status:     domain.StatusUnread,
		Lifecycle:  domain.LifecycleActive,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return author, reader, cat, entry
}

// idemRouter mounts the real entry and engagement services behind the
// idempotency middleware the production router uses.
func idemRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(
		&services.EntryService{DB: db, BulkLimit: 90},
		&services.EngagementService{DB: db},
		stubDutySvc{}, stubRecSvc{}, stubStaffSvc{}, stubCatSvc{},
	)
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.POST("/entries", h.CreateEntry)
	r.POST("/entries/:id/status", h.ToggleStatus)
	return r
}

func postJSON(r *gin.Engine, path, body, staffID, idemKey string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("X-User-ID", staffID)
	if idemKey != "" {
		req.Header.Set(middleware.HeaderIdempotencyKey, idemKey)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestToggleStatus_IdempotencyKeyReplays(t *testing.T) {
	db := newIdemDB(t)
	_, reader, _, entry := seedIdemFixtures(t, db)
	r := idemRouter(db)
	path := "/entries/" + entry.ID + "/status"

	// First request executes the toggle and pays the points.
	w := postJSON(r, path, `{"action":"CONFIRMED"}`, reader.ID, "retry-key-1")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200. body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "" {
		t.Fatal("first request must not be marked replayed")
	}

	// Retry with the same key: same outcome, no second flip.
	w = postJSON(r, path, `{"action":"CONFIRMED"}`, reader.ID, "retry-key-1")
	if w.Code != http.StatusOK {
		t.Fatalf("retry status=%d, want 200. body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatal("retry with the same key must be served as a replay")
	}
	var res services.ToggleResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if res.ToggledOff || res.NewStatus != domain.StatusConfirmed {
		t.Fatalf("replayed payload mismatch: %+v", res)
	}

	var st domain.Staff
	if err := db.First(&st, "id = ?", reader.ID).Error; err != nil {
		t.Fatalf("load staff: %v", err)
	}
	if st.Points != domain.PointsConfirm {
		t.Fatalf("points = %d, want %d (retry must not toggle back)", st.Points, domain.PointsConfirm)
	}
	var e domain.Entry
	if err := db.First(&e, "id = ?", entry.ID).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if e.Status != domain.StatusConfirmed {
		t.Fatalf("aggregate = %s, want CONFIRMED after replay", e.Status)
	}

	// A different key is a new intent: the toggle flips off.
	w = postJSON(r, path, `{"action":"CONFIRMED"}`, reader.ID, "retry-key-2")
	if w.Code != http.StatusOK {
		t.Fatalf("second key status=%d, body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !res.ToggledOff {
		t.Fatalf("second key should toggle off, got %+v", res)
	}
}

func TestCreateEntry_IdempotencyKeyReplays(t *testing.T) {
	db := newIdemDB(t)
	author, _, cat, _ := seedIdemFixtures(t, db)
	r := idemRouter(db)

	body := fmt.Sprintf(`{"category_id":%q,"title":"連絡","body":"今日の共有です。","target_date":"2026-08-29"}`, cat.ID)

	w := postJSON(r, "/entries", body, author.ID, "post-key-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201. body=%s", w.Code, w.Body.String())
	}
	var first domain.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("json: %v", err)
	}

	// Retry with the same key returns the stored entry, no duplicate row.
	w = postJSON(r, "/entries", body, author.ID, "post-key-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("retry status=%d, want 201. body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatal("retry with the same key must be served as a replay")
	}
	var second domain.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatalf("json: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("replay returned entry %s, want %s", second.ID, first.ID)
	}

	var count int64
	if err := db.Model(&domain.Entry{}).Where("target_date = ?", "2026-08-29").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("entries = %d, want 1 after replay", count)
	}

	// A fresh key creates a second entry.
	w = postJSON(r, "/entries", body, author.ID, "post-key-2")
	if w.Code != http.StatusCreated {
		t.Fatalf("second key status=%d, body=%s", w.Code, w.Body.String())
	}
	if err := db.Model(&domain.Entry{}).Where("target_date = ?", "2026-08-29").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("entries = %d, want 2 with a new key", count)
	}
}
