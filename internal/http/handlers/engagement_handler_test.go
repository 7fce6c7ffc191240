package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/services"
)

func toggleRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/entries/:id/status", h.ToggleStatus)
	return r
}

func TestToggleStatus_BindingError(t *testing.T) {
	hs := handlerSet{eng: stubEngSvc{toggle: func(context.Context, string, string, domain.Action) (*services.ToggleResult, error) {
		t.Fatal("service should not be called on binding error")
		return nil, nil
	}}}
	r := toggleRouter(hs.build())

	for _, body := range []string{`{}`, `{"action":"DONE"}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/entries/e1/status", bytes.NewBufferString(body))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d, want 400", body, w.Code)
		}
	}
}

func TestToggleStatus_Success(t *testing.T) {
	var got struct {
		entry  string
		staff  string
		action domain.Action
	}
	hs := handlerSet{eng: stubEngSvc{toggle: func(_ context.Context, entryID, staffID string, action domain.Action) (*services.ToggleResult, error) {
		got.entry, got.staff, got.action = entryID, staffID, action
		return &services.ToggleResult{
			ToggledOff:   false,
			NewStatus:    domain.StatusWorking,
			NewAggregate: domain.StatusWorking,
		}, nil
	}}}
	r := toggleRouter(hs.build())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/entries/e-7/status", bytes.NewBufferString(`{"action":"WORKING"}`))
	req.Header.Set("X-User-ID", "s-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200. body=%s", w.Code, w.Body.String())
	}
	if got.entry != "e-7" || got.staff != "s-1" || got.action != domain.ActionWorking {
		t.Fatalf("service args mismatch: %+v", got)
	}

	var res services.ToggleResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if res.ToggledOff || res.NewStatus != domain.StatusWorking {
		t.Fatalf("unexpected payload: %+v", res)
	}
}

func TestToggleStatus_ErrorMappings(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"unknown_staff", services.ErrStaffNotFound, http.StatusUnauthorized},
		{"entry_missing", services.ErrEntryNotFound, http.StatusNotFound},
		{"bad_action", services.ErrInvalidAction, http.StatusBadRequest},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			hs := handlerSet{eng: stubEngSvc{toggle: func(context.Context, string, string, domain.Action) (*services.ToggleResult, error) {
				return nil, tc.err
			}}}
			r := toggleRouter(hs.build())

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/entries/e1/status", bytes.NewBufferString(`{"action":"SOLVED"}`))
			req.Header.Set("X-User-ID", "s-1")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d, want %d. body=%s", w.Code, tc.wantStatus, w.Body.String())
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("json: %v", err)
			}
			if er.Code == "" || er.Message == "" {
				t.Fatalf("error envelope missing fields: %+v", er)
			}
		})
	}
}
