package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
	"github.com/Jasemalbateni/academybase-sub000/internal/timeline"
)

// Attendance statuses stored on a record. Absence is the only status that
// carries a salary deduction.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// RecordAttendanceParams identifies the slot being marked and the status to
// store for it.
type RecordAttendanceParams struct {
	StaffID  uuid.UUID
	BranchID uuid.UUID
	Date     time.Time
	Status   string
	Note     string
}

// ClearAttendanceParams identifies the attendance record to remove, reverting
// the slot to its unrecorded state.
type ClearAttendanceParams struct {
	StaffID  uuid.UUID
	BranchID uuid.UUID
	Date     time.Time
}

// AssignSubstituteParams places a substitute coach on a slot for its absent
// staff member.
type AssignSubstituteParams struct {
	StaffID    uuid.UUID
	ForStaffID uuid.UUID
	BranchID   uuid.UUID
	Date       time.Time
}

// AttendanceService builds the daily attendance sheet from the roster and
// branch schedules, and stores the exception rows recorded against it. Like
// sessions, slots are generated on read, never stored.
type AttendanceService struct {
	branches    persistence.BranchRepository
	staff       persistence.StaffRepository
	attendance  persistence.AttendanceRepository
	substitutes persistence.SubstituteRepository
	idGenerator func() uuid.UUID
	now         func() time.Time
	logger      *slog.Logger
}

// NewAttendanceService constructs an AttendanceService with the provided dependencies.
func NewAttendanceService(branches persistence.BranchRepository, staff persistence.StaffRepository, attendance persistence.AttendanceRepository, substitutes persistence.SubstituteRepository, idGenerator func() uuid.UUID, now func() time.Time) *AttendanceService {
	return NewAttendanceServiceWithLogger(branches, staff, attendance, substitutes, idGenerator, now, nil)
}

// NewAttendanceServiceWithLogger constructs an AttendanceService with a specified logger.
func NewAttendanceServiceWithLogger(branches persistence.BranchRepository, staff persistence.StaffRepository, attendance persistence.AttendanceRepository, substitutes persistence.SubstituteRepository, idGenerator func() uuid.UUID, now func() time.Time, logger *slog.Logger) *AttendanceService {
	if idGenerator == nil {
		idGenerator = uuid.New
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{
		branches:    branches,
		staff:       staff,
		attendance:  attendance,
		substitutes: substitutes,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// DailySheet generates the expected slots for one date and merges the stored
// attendance and substitute rows over them. A slot no record touches reads as
// unrecorded.
func (s *AttendanceService) DailySheet(ctx context.Context, tenant TenantContext, date time.Time) (sheet []AttendanceSlotView, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}
	if s.branches == nil || s.staff == nil || s.attendance == nil {
		err = fmt.Errorf("attendance repositories not configured")
		return
	}

	day := recurrence.CivilDate(date)
	logger := s.loggerWith(ctx, "DailySheet",
		"tenant_id", tenant.TenantID,
		"date", timeline.NewDateKey(day).String(),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build daily sheet", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("slot_count", len(sheet)).InfoContext(ctx, "daily sheet built")
	}()

	var branches []persistence.Branch
	branches, err = s.branches.ListBranches(ctx, tenant.TenantID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	var roster []persistence.Staff
	roster, err = s.staff.ListStaff(ctx, tenant.TenantID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	recurrences := make([]recurrence.Recurrence, 0, len(branches))
	for _, branch := range branches {
		recurrences = append(recurrences, branchRecurrence(branch))
	}
	assignments := make([]timeline.StaffAssignment, 0, len(roster))
	names := make(map[uuid.UUID]string, len(roster))
	for _, member := range roster {
		names[member.ID] = member.Name
		assignments = append(assignments, timeline.StaffAssignment{
			StaffID:     member.ID,
			StaffName:   member.Name,
			BranchIDs:   member.BranchIDs,
			AllBranches: member.AllBranches,
			Active:      member.Active,
		})
	}
	slots := timeline.BuildSlots(day, recurrences, assignments)

	var records []persistence.AttendanceRecord
	records, err = s.attendance.ListAttendanceForDate(ctx, tenant.TenantID, day)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	recorded := make(map[timeline.SlotKey]persistence.AttendanceRecord, len(records))
	for _, record := range records {
		recorded[timeline.SlotKey{StaffID: record.StaffID, BranchID: record.BranchID}] = record
	}

	covering := make(map[timeline.SlotKey]persistence.SubstituteRecord)
	if s.substitutes != nil {
		var subs []persistence.SubstituteRecord
		subs, err = s.substitutes.ListSubstitutesForDate(ctx, tenant.TenantID, day)
		if err != nil {
			err = mapRepoError(err)
			return
		}
		for _, sub := range subs {
			covering[timeline.SlotKey{StaffID: sub.ForStaffID, BranchID: sub.BranchID}] = sub
		}
	}

	sheet = make([]AttendanceSlotView, 0, len(slots))
	for _, slot := range slots {
		view := AttendanceSlotView{Slot: slot, Status: StatusUnrecorded}
		if record, ok := recorded[slot.Key()]; ok {
			view.Status = record.Status
			view.Deduction = record.Deduction
			view.Note = record.Note
			view.Recorded = true
		}
		if sub, ok := covering[slot.Key()]; ok {
			view.Substitute = &SubstituteView{
				StaffID:    sub.StaffID,
				StaffName:  names[sub.StaffID],
				ForStaffID: sub.ForStaffID,
			}
		}
		sheet = append(sheet, view)
	}
	return sheet, nil
}

// RecordAttendance stores one attendance row for a slot. An absence carries
// the staff member's per-session salary deduction, computed from the branch's
// weekly schedule for the month of the date. Repeated writes for the same
// slot upsert the same row.
func (s *AttendanceService) RecordAttendance(ctx context.Context, tenant TenantContext, params RecordAttendanceParams) (err error) {
	if s == nil {
		return fmt.Errorf("AttendanceService is nil")
	}
	if s.branches == nil || s.staff == nil || s.attendance == nil {
		return fmt.Errorf("attendance repositories not configured")
	}

	day := recurrence.CivilDate(params.Date)
	logger := s.loggerWith(ctx, "RecordAttendance",
		"tenant_id", tenant.TenantID,
		"staff_id", params.StaffID,
		"branch_id", params.BranchID,
		"date", timeline.NewDateKey(day).String(),
		"status", params.Status,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to record attendance", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "attendance recorded")
	}()

	status := strings.TrimSpace(strings.ToLower(params.Status))
	vErr := &ValidationError{}
	switch status {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
	default:
		vErr.add("status", "status must be present, absent, late, or excused")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var branch persistence.Branch
	branch, err = s.branches.GetBranch(ctx, tenant.TenantID, params.BranchID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	var member persistence.Staff
	member, err = s.staff.GetStaff(ctx, tenant.TenantID, params.StaffID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	var deduction float64
	if status == AttendanceAbsent {
		deduction = s.absenceDeduction(member, branch, day)
	}

	now := s.now()
	record := persistence.AttendanceRecord{
		ID:        s.idGenerator(),
		TenantID:  tenant.TenantID,
		StaffID:   params.StaffID,
		BranchID:  params.BranchID,
		Date:      day,
		Status:    status,
		Deduction: deduction,
		Note:      strings.TrimSpace(params.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.attendance.UpsertAttendance(ctx, record); err != nil {
		err = mapRepoError(err)
	}
	return
}

// absenceDeduction prices one missed session: the staff member's salary
// allocated over the branch's sessions in the month of the absence.
func (s *AttendanceService) absenceDeduction(member persistence.Staff, branch persistence.Branch, day time.Time) float64 {
	if member.MonthlySalary <= 0 {
		return 0
	}
	days := recurrence.ParseWeekdays(branch.Days)
	return recurrence.PerOccurrenceCost(member.MonthlySalary, day.Year(), day.Month(), days, recurrence.RateMode(member.SalaryType))
}

// ClearAttendance deletes an attendance row, reverting the slot to its
// unrecorded state. Clearing an unrecorded slot is a no-op.
func (s *AttendanceService) ClearAttendance(ctx context.Context, tenant TenantContext, params ClearAttendanceParams) (err error) {
	if s == nil {
		return fmt.Errorf("AttendanceService is nil")
	}
	if s.attendance == nil {
		return fmt.Errorf("attendance repositories not configured")
	}

	day := recurrence.CivilDate(params.Date)
	logger := s.loggerWith(ctx, "ClearAttendance",
		"tenant_id", tenant.TenantID,
		"staff_id", params.StaffID,
		"branch_id", params.BranchID,
		"date", timeline.NewDateKey(day).String(),
	)

	if err = s.attendance.DeleteAttendance(ctx, tenant.TenantID, params.StaffID, params.BranchID, day); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = nil
		} else {
			err = mapRepoError(err)
			logger.ErrorContext(ctx, "failed to clear attendance", "error", err, "error_kind", ErrorKind(err))
			return
		}
	}
	logger.InfoContext(ctx, "attendance cleared")
	return nil
}

// AssignSubstitute places a substitute coach on a slot. The substitute must
// be an active staff member and must differ from the staff member they cover.
func (s *AttendanceService) AssignSubstitute(ctx context.Context, tenant TenantContext, params AssignSubstituteParams) (err error) {
	if s == nil {
		return fmt.Errorf("AttendanceService is nil")
	}
	if s.staff == nil || s.substitutes == nil {
		return fmt.Errorf("attendance repositories not configured")
	}

	day := recurrence.CivilDate(params.Date)
	logger := s.loggerWith(ctx, "AssignSubstitute",
		"tenant_id", tenant.TenantID,
		"staff_id", params.StaffID,
		"for_staff_id", params.ForStaffID,
		"branch_id", params.BranchID,
		"date", timeline.NewDateKey(day).String(),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to assign substitute", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "substitute assigned")
	}()

	vErr := &ValidationError{}
	if params.StaffID == params.ForStaffID {
		vErr.add("staffId", "substitute must differ from the covered staff member")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var substitute persistence.Staff
	substitute, err = s.staff.GetStaff(ctx, tenant.TenantID, params.StaffID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if !substitute.Active {
		vErr.add("staffId", "substitute must be active")
		err = vErr
		return
	}
	if _, err = s.staff.GetStaff(ctx, tenant.TenantID, params.ForStaffID); err != nil {
		err = mapRepoError(err)
		return
	}

	record := persistence.SubstituteRecord{
		ID:         s.idGenerator(),
		TenantID:   tenant.TenantID,
		StaffID:    params.StaffID,
		ForStaffID: params.ForStaffID,
		BranchID:   params.BranchID,
		Date:       day,
		CreatedAt:  s.now(),
	}
	if err = s.substitutes.UpsertSubstitute(ctx, record); err != nil {
		err = mapRepoError(err)
	}
	return
}

// RemoveSubstitute deletes a substitute row. Removing a row that does not
// exist is a no-op.
func (s *AttendanceService) RemoveSubstitute(ctx context.Context, tenant TenantContext, params AssignSubstituteParams) (err error) {
	if s == nil {
		return fmt.Errorf("AttendanceService is nil")
	}
	if s.substitutes == nil {
		return fmt.Errorf("attendance repositories not configured")
	}

	day := recurrence.CivilDate(params.Date)
	logger := s.loggerWith(ctx, "RemoveSubstitute",
		"tenant_id", tenant.TenantID,
		"staff_id", params.StaffID,
		"branch_id", params.BranchID,
		"date", timeline.NewDateKey(day).String(),
	)

	if err = s.substitutes.DeleteSubstitute(ctx, tenant.TenantID, params.StaffID, params.BranchID, day); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = nil
		} else {
			err = mapRepoError(err)
			logger.ErrorContext(ctx, "failed to remove substitute", "error", err, "error_kind", ErrorKind(err))
			return
		}
	}
	logger.InfoContext(ctx, "substitute removed")
	return nil
}

// MonthlyPayroll aggregates each staff member's deductions for one month into
// a net salary line. Staff with no attendance rows still get a line at full
// salary.
func (s *AttendanceService) MonthlyPayroll(ctx context.Context, tenant TenantContext, year int, month time.Month) (lines []PayrollLine, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}
	if s.staff == nil || s.attendance == nil {
		err = fmt.Errorf("attendance repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "MonthlyPayroll",
		"tenant_id", tenant.TenantID,
		"year", year,
		"month", int(month),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build payroll", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("line_count", len(lines)).InfoContext(ctx, "payroll built")
	}()

	var roster []persistence.Staff
	roster, err = s.staff.ListStaff(ctx, tenant.TenantID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	var records []persistence.AttendanceRecord
	records, err = s.attendance.ListAttendanceForMonth(ctx, tenant.TenantID, year, month)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	deductions := make(map[uuid.UUID]float64, len(roster))
	absences := make(map[uuid.UUID]int, len(roster))
	for _, record := range records {
		deductions[record.StaffID] += record.Deduction
		if record.Status == AttendanceAbsent {
			absences[record.StaffID]++
		}
	}

	lines = make([]PayrollLine, 0, len(roster))
	for _, member := range roster {
		if !member.Active {
			continue
		}
		total := recurrence.RoundToCents(deductions[member.ID])
		lines = append(lines, PayrollLine{
			StaffID:       member.ID,
			StaffName:     member.Name,
			MonthlySalary: member.MonthlySalary,
			Deductions:    total,
			NetSalary:     recurrence.RoundToCents(member.MonthlySalary - total),
			AbsenceCount:  absences[member.ID],
		})
	}
	return lines, nil
}
