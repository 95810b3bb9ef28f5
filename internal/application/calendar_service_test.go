package application

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
	"github.com/Jasemalbateni/academybase-sub000/internal/testfixtures"
)

func newCalendarHarness(t *testing.T) (*CalendarService, *testfixtures.MemoryStore, TenantContext, persistence.Branch) {
	t.Helper()

	store := testfixtures.NewMemoryStore()
	tenantRow := testfixtures.NewTenantFixture()
	store.AddTenant(tenantRow)
	tenant := TenantContext{TenantID: tenantRow.ID, Slug: tenantRow.Slug, Name: tenantRow.Name}

	branch := testfixtures.NewBranchFixture(tenant.TenantID,
		testfixtures.WithBranchDays("monday", "wednesday"),
		testfixtures.WithBranchRent("monthly", 900),
	)
	if err := store.CreateBranch(context.Background(), branch); err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator()
	svc := NewCalendarService(store, store, store, ids.NextFunc(), clock.NowFunc())
	return svc, store, tenant, branch
}

func TestCalendarService_MonthTimeline(t *testing.T) {
	svc, _, tenant, branch := newCalendarHarness(t)

	tl, err := svc.MonthTimeline(context.Background(), tenant, MonthTimelineParams{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// January 2024 has five Mondays and five Wednesdays.
	if len(tl.Entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(tl.Entries))
	}
	if tl.StatusCounts["scheduled"] != 10 {
		t.Fatalf("expected 10 scheduled, got %v", tl.StatusCounts)
	}
	for _, entry := range tl.Entries {
		if entry.Occurrence.BranchID != branch.ID {
			t.Fatalf("unexpected branch %s", entry.Occurrence.BranchID)
		}
		if entry.Overridden() {
			t.Fatalf("pristine month should carry no overrides")
		}
	}

	t.Run("rejects an invalid month", func(t *testing.T) {
		_, err := svc.MonthTimeline(context.Background(), tenant, MonthTimelineParams{Year: 2024, Month: 13})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestCalendarService_CancelSession(t *testing.T) {
	svc, store, tenant, branch := newCalendarHarness(t)
	date := recurrence.Date(2024, time.January, 8)

	if err := svc.CancelSession(context.Background(), tenant, CancelSessionParams{
		BranchID: branch.ID,
		Date:     date,
		Note:     "heavy rain",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tl, err := svc.MonthTimeline(context.Background(), tenant, MonthTimelineParams{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tl.StatusCounts["cancelled"] != 1 || tl.StatusCounts["scheduled"] != 9 {
		t.Fatalf("unexpected counts %v", tl.StatusCounts)
	}
	for _, entry := range tl.Entries {
		if entry.Occurrence.Date.Equal(date) {
			if entry.Status != "cancelled" {
				t.Fatalf("expected cancelled, got %q", entry.Status)
			}
			if entry.Override == nil || entry.Override.Note != "heavy rain" {
				t.Fatalf("expected note to survive the merge, got %+v", entry.Override)
			}
		}
	}

	// Ten sessions in January: the credit is one tenth of the rent.
	entries, err := store.ListForMonth(context.Background(), tenant.TenantID, 2024, time.January)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(entries))
	}
	if entries[0].Amount != 90 {
		t.Fatalf("expected credit of 90, got %v", entries[0].Amount)
	}
	wantKey := "session-field:" + branch.ID.String() + ":2024-01-08"
	if entries[0].AutoKey != wantKey {
		t.Fatalf("expected auto key %q, got %q", wantKey, entries[0].AutoKey)
	}

	t.Run("repeated cancel upserts the same rows", func(t *testing.T) {
		if err := svc.CancelSession(context.Background(), tenant, CancelSessionParams{BranchID: branch.ID, Date: date}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries, err := store.ListForMonth(context.Background(), tenant.TenantID, 2024, time.January)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected one ledger entry after re-cancel, got %d", len(entries))
		}
	})

	t.Run("rejects a date outside the schedule", func(t *testing.T) {
		err := svc.CancelSession(context.Background(), tenant, CancelSessionParams{
			BranchID: branch.ID,
			Date:     recurrence.Date(2024, time.January, 9), // a Tuesday
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects an unknown branch", func(t *testing.T) {
		err := svc.CancelSession(context.Background(), tenant, CancelSessionParams{
			BranchID: testfixtures.SequentialID(999),
			Date:     date,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCalendarService_RestoreSession(t *testing.T) {
	svc, store, tenant, branch := newCalendarHarness(t)
	date := recurrence.Date(2024, time.January, 8)

	pristine, err := svc.MonthTimeline(context.Background(), tenant, MonthTimelineParams{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.CancelSession(context.Background(), tenant, CancelSessionParams{BranchID: branch.ID, Date: date}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.RestoreSession(context.Background(), tenant, RestoreSessionParams{BranchID: branch.ID, Date: date}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, err := svc.MonthTimeline(context.Background(), tenant, MonthTimelineParams{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(pristine, restored) {
		t.Fatalf("restore should revert the timeline to its pristine state")
	}

	entries, err := store.ListForMonth(context.Background(), tenant.TenantID, 2024, time.January)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected the rent credit to be removed, got %d entries", len(entries))
	}

	t.Run("restoring an untouched session is a no-op", func(t *testing.T) {
		if err := svc.RestoreSession(context.Background(), tenant, RestoreSessionParams{BranchID: branch.ID, Date: date}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestCalendarService_RecordEvent(t *testing.T) {
	svc, _, tenant, branch := newCalendarHarness(t)
	date := recurrence.Date(2024, time.January, 10)

	t.Run("records a match", func(t *testing.T) {
		if err := svc.RecordEvent(context.Background(), tenant, RecordEventParams{
			BranchID: branch.ID,
			Date:     date,
			Kind:     "match",
			Note:     "friendly vs city club",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tl, err := svc.MonthTimeline(context.Background(), tenant, MonthTimelineParams{Year: 2024, Month: time.January, Status: "match"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tl.Entries) != 1 {
			t.Fatalf("expected one match entry, got %d", len(tl.Entries))
		}
	})

	t.Run("a cancellation outranks a later note", func(t *testing.T) {
		cancelDate := recurrence.Date(2024, time.January, 15)
		if err := svc.CancelSession(context.Background(), tenant, CancelSessionParams{BranchID: branch.ID, Date: cancelDate}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.RecordEvent(context.Background(), tenant, RecordEventParams{
			BranchID: branch.ID,
			Date:     cancelDate,
			Kind:     "note",
			Note:     "bring spare kit",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tl, err := svc.MonthTimeline(context.Background(), tenant, MonthTimelineParams{Year: 2024, Month: time.January})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, entry := range tl.Entries {
			if entry.Occurrence.Date.Equal(cancelDate) && entry.Status != "cancelled" {
				t.Fatalf("expected cancellation to win, got %q", entry.Status)
			}
		}
	})

	t.Run("rejects a cancellation kind", func(t *testing.T) {
		err := svc.RecordEvent(context.Background(), tenant, RecordEventParams{
			BranchID: branch.ID,
			Date:     date,
			Kind:     "cancellation",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects an unknown kind", func(t *testing.T) {
		err := svc.RecordEvent(context.Background(), tenant, RecordEventParams{
			BranchID: branch.ID,
			Date:     date,
			Kind:     "party",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestCalendarService_EmptyConfiguration(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	tenantRow := testfixtures.NewTenantFixture()
	store.AddTenant(tenantRow)
	tenant := TenantContext{TenantID: tenantRow.ID, Slug: tenantRow.Slug}

	branch := testfixtures.NewBranchFixture(tenant.TenantID,
		testfixtures.WithBranchDays("someday", "funday"),
	)
	if err := store.CreateBranch(context.Background(), branch); err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	svc := NewCalendarService(store, store, store, nil, nil)
	tl, err := svc.MonthTimeline(context.Background(), tenant, MonthTimelineParams{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tl.Entries) != 0 {
		t.Fatalf("unknown weekday names should generate nothing, got %d entries", len(tl.Entries))
	}
}
