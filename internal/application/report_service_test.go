package application

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
	"github.com/Jasemalbateni/academybase-sub000/internal/testfixtures"
)

func workbookRows(t *testing.T, content []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	return rows
}

func TestReportService_ScheduleReport(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	tenantRow := testfixtures.NewTenantFixture(testfixtures.WithTenantSlug("al-noor"))
	store.AddTenant(tenantRow)
	tenant := TenantContext{TenantID: tenantRow.ID, Slug: tenantRow.Slug}

	branch := testfixtures.NewBranchFixture(tenant.TenantID,
		testfixtures.WithBranchDays("monday", "wednesday"),
		testfixtures.WithBranchName("Main Field"),
	)
	if err := store.CreateBranch(context.Background(), branch); err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	calendar := NewCalendarService(store, store, store, nil, nil)
	if err := calendar.CancelSession(context.Background(), tenant, CancelSessionParams{
		BranchID: branch.ID,
		Date:     recurrence.Date(2024, time.January, 8),
	}); err != nil {
		t.Fatalf("seed cancellation: %v", err)
	}

	svc := NewReportService(calendar, nil, store)
	report, err := svc.ScheduleReport(context.Background(), tenant, 2024, time.January)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.FileName != "schedule_al-noor_2024-01.xlsx" {
		t.Fatalf("unexpected file name %q", report.FileName)
	}

	rows := workbookRows(t, report.Content)
	// Header plus ten January sessions.
	if len(rows) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(rows))
	}
	if rows[0][0] != "date" || rows[0][4] != "status" {
		t.Fatalf("unexpected header %v", rows[0])
	}

	var cancelled int
	for _, row := range rows[1:] {
		if row[1] != "Main Field" {
			t.Fatalf("unexpected branch column %v", row)
		}
		if len(row) > 4 && row[4] == "cancelled" {
			cancelled++
		}
	}
	if cancelled != 1 {
		t.Fatalf("expected one cancelled row, got %d", cancelled)
	}
}

func TestReportService_PayrollReport(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	tenantRow := testfixtures.NewTenantFixture()
	store.AddTenant(tenantRow)
	tenant := TenantContext{TenantID: tenantRow.ID, Slug: tenantRow.Slug}

	branch := testfixtures.NewBranchFixture(tenant.TenantID, testfixtures.WithBranchDays("monday", "wednesday"))
	if err := store.CreateBranch(context.Background(), branch); err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	coach := testfixtures.NewStaffFixture(tenant.TenantID, testfixtures.WithStaffBranches(branch.ID))
	if err := store.CreateStaff(context.Background(), coach); err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	attendance := NewAttendanceService(store, store, store, store, nil, nil)
	svc := NewReportService(nil, attendance, store)

	report, err := svc.PayrollReport(context.Background(), tenant, 2024, time.January)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := workbookRows(t, report.Content)
	if len(rows) != 2 {
		t.Fatalf("expected header plus one line, got %d rows", len(rows))
	}
	if rows[1][0] != coach.Name {
		t.Fatalf("expected line for %q, got %v", coach.Name, rows[1])
	}
}
