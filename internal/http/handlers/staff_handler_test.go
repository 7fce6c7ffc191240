package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
)

func staffRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/staff/me", h.Me)
	r.GET("/staff/me/points", h.MyPoints)
	r.GET("/categories", h.ListCategories)
	return r
}

func TestMe_Success(t *testing.T) {
	hs := handlerSet{staff: stubStaffSvc{me: func(_ context.Context, staffID string) (*domain.Staff, error) {
		if staffID != "s-1" {
			t.Fatalf("staffID=%q, want s-1", staffID)
		}
		return &domain.Staff{ID: "s-1", Name: "田中", Points: 42}, nil
	}}}
	r := staffRouter(hs.build())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff/me", nil)
	req.Header.Set("X-User-ID", "s-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200. body=%s", w.Code, w.Body.String())
	}
	var st domain.Staff
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if st.Points != 42 || st.Name != "田中" {
		t.Fatalf("unexpected payload: %+v", st)
	}
}

func TestMe_AnonymousUnauthorized(t *testing.T) {
	hs := handlerSet{staff: stubStaffSvc{me: func(context.Context, string) (*domain.Staff, error) {
		return nil, services.ErrUnauthorized
	}}}
	r := staffRouter(hs.build())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff/me", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
}

func TestMyPoints_PaginationEnvelope(t *testing.T) {
	hs := handlerSet{staff: stubStaffSvc{points: func(_ context.Context, staffID string, page, pageSize int) ([]domain.PointLedgerEntry, int64, error) {
		if page != 2 || pageSize != 10 {
			t.Fatalf("page=%d pageSize=%d, want 2/10", page, pageSize)
		}
		items := make([]domain.PointLedgerEntry, 10)
		return items, 45, nil
	}}}
	r := staffRouter(hs.build())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff/me/points?page=2&page_size=10", nil)
	req.Header.Set("X-User-ID", "s-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	var res PointsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	p := res.Pagination
	if p.Page != 2 || p.PageSize != 10 || p.Total != 45 || p.TotalPages != 5 || !p.HasNext {
		t.Fatalf("pagination mismatch: %+v", p)
	}
}

func TestMyPoints_ClampsQueryParams(t *testing.T) {
	var got struct{ page, size int }
	hs := handlerSet{staff: stubStaffSvc{points: func(_ context.Context, _ string, page, pageSize int) ([]domain.PointLedgerEntry, int64, error) {
		got.page, got.size = page, pageSize
		return nil, 0, nil
	}}}
	r := staffRouter(hs.build())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff/me/points?page=-1&page_size=9999", nil)
	req.Header.Set("X-User-ID", "s-1")
	r.ServeHTTP(w, req)

	if got.page != 1 || got.size != 100 {
		t.Fatalf("clamped to page=%d size=%d, want 1/100", got.page, got.size)
	}
}

func TestListCategories_Success(t *testing.T) {
	hs := handlerSet{cat: stubCatSvc{list: func(context.Context) ([]domain.Category, error) {
		return []domain.Category{{ID: "c1", Name: "業務連絡"}}, nil
	}}}
	r := staffRouter(hs.build())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	var items []domain.Category
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(items) != 1 || items[0].Name != "業務連絡" {
		t.Fatalf("unexpected payload: %+v", items)
	}
}
