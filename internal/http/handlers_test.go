package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/application"
	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
	"github.com/Jasemalbateni/academybase-sub000/internal/timeline"
)

type calendarServiceStub struct {
	timeline  application.MonthTimeline
	err       error
	cancelled []application.CancelSessionParams
	restored  []application.RestoreSessionParams
	events    []application.RecordEventParams
}

func (s *calendarServiceStub) MonthTimeline(_ context.Context, _ application.TenantContext, _ application.MonthTimelineParams) (application.MonthTimeline, error) {
	if s.err != nil {
		return application.MonthTimeline{}, s.err
	}
	return s.timeline, nil
}

func (s *calendarServiceStub) CancelSession(_ context.Context, _ application.TenantContext, params application.CancelSessionParams) error {
	if s.err != nil {
		return s.err
	}
	s.cancelled = append(s.cancelled, params)
	return nil
}

func (s *calendarServiceStub) RestoreSession(_ context.Context, _ application.TenantContext, params application.RestoreSessionParams) error {
	if s.err != nil {
		return s.err
	}
	s.restored = append(s.restored, params)
	return nil
}

func (s *calendarServiceStub) RecordEvent(_ context.Context, _ application.TenantContext, params application.RecordEventParams) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, params)
	return nil
}

func TestCalendarHandler_Month(t *testing.T) {
	branchID := uuid.New()
	stub := &calendarServiceStub{
		timeline: application.MonthTimeline{
			Year:  2024,
			Month: time.January,
			Entries: []timeline.Entry{{
				Occurrence: recurrence.Occurrence{
					Date:       recurrence.Date(2024, time.January, 8),
					BranchID:   branchID,
					BranchName: "Main Field",
					StartTime:  "17:00",
					EndTime:    "19:00",
				},
				Status: "scheduled",
			}},
			StatusCounts: map[string]int{"scheduled": 1},
		},
	}
	handler := NewCalendarHandler(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/calendar?year=2024&month=1", nil)
	rec := httptest.NewRecorder()
	handler.Month(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp timelineResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Year != 2024 || resp.Month != 1 {
		t.Fatalf("unexpected period %d-%d", resp.Year, resp.Month)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Date != "2024-01-08" {
		t.Fatalf("unexpected entries %+v", resp.Entries)
	}

	t.Run("rejects a missing month", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calendar?year=2024", nil)
		rec := httptest.NewRecorder()
		handler.Month(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCalendarHandler_Cancel(t *testing.T) {
	stub := &calendarServiceStub{}
	handler := NewCalendarHandler(stub, nil)
	branchID := uuid.New()

	body := `{"branch_id":"` + branchID.String() + `","date":"2024-01-08","note":"rain"}`
	req := httptest.NewRequest(http.MethodPost, "/calendar/cancellations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Cancel(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.cancelled) != 1 {
		t.Fatalf("expected one cancel call, got %d", len(stub.cancelled))
	}
	if stub.cancelled[0].BranchID != branchID || stub.cancelled[0].Note != "rain" {
		t.Fatalf("unexpected params %+v", stub.cancelled[0])
	}
	if !stub.cancelled[0].Date.Equal(recurrence.Date(2024, time.January, 8)) {
		t.Fatalf("unexpected date %s", stub.cancelled[0].Date)
	}

	t.Run("rejects a malformed date", func(t *testing.T) {
		body := `{"branch_id":"` + branchID.String() + `","date":"08/01/2024"}`
		req := httptest.NewRequest(http.MethodPost, "/calendar/cancellations", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Cancel(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("maps a validation error to 422", func(t *testing.T) {
		failing := &calendarServiceStub{err: func() error {
			vErr := &application.ValidationError{FieldErrors: map[string]string{"date": "no session scheduled on this date"}}
			return vErr
		}()}
		handler := NewCalendarHandler(failing, nil)

		body := `{"branch_id":"` + branchID.String() + `","date":"2024-01-09"}`
		req := httptest.NewRequest(http.MethodPost, "/calendar/cancellations", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Cancel(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestRouterMethodHandling(t *testing.T) {
	handler := NewRouter(RouterConfig{
		Calendar: NewCalendarHandler(&calendarServiceStub{}, nil),
	})

	req := httptest.NewRequest(http.MethodDelete, "/calendar", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Fatalf("expected Allow header %q, got %q", http.MethodGet, allow)
	}
}

func TestRouterHealth(t *testing.T) {
	handler := NewRouter(RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "OK" {
		t.Fatalf("expected OK body, got %q", body)
	}
}
