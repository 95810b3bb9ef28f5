package application

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// TimelineSource provides the merged month timeline for export.
type TimelineSource interface {
	MonthTimeline(ctx context.Context, tenant TenantContext, params MonthTimelineParams) (MonthTimeline, error)
}

// PayrollSource provides the monthly payroll lines for export.
type PayrollSource interface {
	MonthlyPayroll(ctx context.Context, tenant TenantContext, year int, month time.Month) ([]PayrollLine, error)
}

// Report is a generated workbook ready to stream to the caller.
type Report struct {
	FileName string
	Content  []byte
}

// ReportService renders month timelines, payroll, and the finance ledger
// into xlsx workbooks.
type ReportService struct {
	timelines TimelineSource
	payroll   PayrollSource
	ledger    persistence.LedgerRepository
	logger    *slog.Logger
}

// NewReportService constructs a ReportService with the provided dependencies.
func NewReportService(timelines TimelineSource, payroll PayrollSource, ledger persistence.LedgerRepository) *ReportService {
	return NewReportServiceWithLogger(timelines, payroll, ledger, nil)
}

// NewReportServiceWithLogger constructs a ReportService with a specified logger.
func NewReportServiceWithLogger(timelines TimelineSource, payroll PayrollSource, ledger persistence.LedgerRepository, logger *slog.Logger) *ReportService {
	return &ReportService{timelines: timelines, payroll: payroll, ledger: ledger, logger: defaultLogger(logger)}
}

func (s *ReportService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReportService", operation, attrs...)
}

// ScheduleReport exports the merged month timeline, one row per session with
// its effective status and any note.
func (s *ReportService) ScheduleReport(ctx context.Context, tenant TenantContext, year int, month time.Month) (report Report, err error) {
	if s == nil {
		err = fmt.Errorf("ReportService is nil")
		return
	}
	if s.timelines == nil {
		err = fmt.Errorf("timeline source not configured")
		return
	}

	logger := s.loggerWith(ctx, "ScheduleReport",
		"tenant_id", tenant.TenantID,
		"year", year,
		"month", int(month),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to export schedule report", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("file_name", report.FileName).InfoContext(ctx, "schedule report exported")
	}()

	var tl MonthTimeline
	tl, err = s.timelines.MonthTimeline(ctx, tenant, MonthTimelineParams{Year: year, Month: month})
	if err != nil {
		return
	}

	header := []interface{}{"date", "branch", "start", "end", "status", "note"}
	rows := make([][]interface{}, 0, len(tl.Entries))
	for _, entry := range tl.Entries {
		note := ""
		if entry.Override != nil {
			note = entry.Override.Note
		}
		rows = append(rows, []interface{}{
			entry.Occurrence.Date.Format("2006-01-02"),
			entry.Occurrence.BranchName,
			entry.Occurrence.StartTime,
			entry.Occurrence.EndTime,
			entry.Status,
			note,
		})
	}

	var content []byte
	content, err = buildWorkbook(header, rows)
	if err != nil {
		return
	}
	report = Report{
		FileName: fmt.Sprintf("schedule_%s_%04d-%02d.xlsx", tenant.Slug, year, int(month)),
		Content:  content,
	}
	return
}

// PayrollReport exports one net-salary line per active staff member.
func (s *ReportService) PayrollReport(ctx context.Context, tenant TenantContext, year int, month time.Month) (report Report, err error) {
	if s == nil {
		err = fmt.Errorf("ReportService is nil")
		return
	}
	if s.payroll == nil {
		err = fmt.Errorf("payroll source not configured")
		return
	}

	logger := s.loggerWith(ctx, "PayrollReport",
		"tenant_id", tenant.TenantID,
		"year", year,
		"month", int(month),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to export payroll report", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("file_name", report.FileName).InfoContext(ctx, "payroll report exported")
	}()

	var lines []PayrollLine
	lines, err = s.payroll.MonthlyPayroll(ctx, tenant, year, month)
	if err != nil {
		return
	}

	header := []interface{}{"staff", "monthly_salary", "absences", "deductions", "net_salary"}
	rows := make([][]interface{}, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []interface{}{
			line.StaffName,
			line.MonthlySalary,
			line.AbsenceCount,
			line.Deductions,
			line.NetSalary,
		})
	}

	var content []byte
	content, err = buildWorkbook(header, rows)
	if err != nil {
		return
	}
	report = Report{
		FileName: fmt.Sprintf("payroll_%s_%04d-%02d.xlsx", tenant.Slug, year, int(month)),
		Content:  content,
	}
	return
}

// LedgerReport exports the auto-generated finance entries for one month.
func (s *ReportService) LedgerReport(ctx context.Context, tenant TenantContext, year int, month time.Month) (report Report, err error) {
	if s == nil {
		err = fmt.Errorf("ReportService is nil")
		return
	}
	if s.ledger == nil {
		err = fmt.Errorf("ledger repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "LedgerReport",
		"tenant_id", tenant.TenantID,
		"year", year,
		"month", int(month),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to export ledger report", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("file_name", report.FileName).InfoContext(ctx, "ledger report exported")
	}()

	var entries []persistence.LedgerEntry
	entries, err = s.ledger.ListForMonth(ctx, tenant.TenantID, year, month)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	header := []interface{}{"date", "kind", "amount", "description", "auto_key"}
	rows := make([][]interface{}, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []interface{}{
			entry.Date.Format("2006-01-02"),
			entry.Kind,
			entry.Amount,
			entry.Description,
			entry.AutoKey,
		})
	}

	var content []byte
	content, err = buildWorkbook(header, rows)
	if err != nil {
		return
	}
	report = Report{
		FileName: fmt.Sprintf("ledger_%s_%04d-%02d.xlsx", tenant.Slug, year, int(month)),
		Content:  content,
	}
	return
}

func buildWorkbook(header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
