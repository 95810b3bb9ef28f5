package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jasemalbateni/academybase-sub000/internal/application"
)

type attendanceService interface {
	DailySheet(ctx context.Context, tenant application.TenantContext, date time.Time) ([]application.AttendanceSlotView, error)
	RecordAttendance(ctx context.Context, tenant application.TenantContext, params application.RecordAttendanceParams) error
	ClearAttendance(ctx context.Context, tenant application.TenantContext, params application.ClearAttendanceParams) error
	AssignSubstitute(ctx context.Context, tenant application.TenantContext, params application.AssignSubstituteParams) error
	RemoveSubstitute(ctx context.Context, tenant application.TenantContext, params application.AssignSubstituteParams) error
	MonthlyPayroll(ctx context.Context, tenant application.TenantContext, year int, month time.Month) ([]application.PayrollLine, error)
}

type AttendanceHandler struct {
	service   attendanceService
	responder responder
	logger    *slog.Logger
}

func NewAttendanceHandler(service attendanceService, logger *slog.Logger) *AttendanceHandler {
	base := defaultLogger(logger)
	return &AttendanceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AttendanceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AttendanceHandler", operation, attrs...)
}

// Sheet serves the generated attendance sheet for one date.
func (h *AttendanceHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Sheet", "tenant_id", tenant.TenantID, "date", date.Format(dateLayout))

	sheet, err := h.service.DailySheet(r.Context(), tenant, date)
	if err != nil {
		logger.ErrorContext(r.Context(), "daily sheet failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("slot_count", len(sheet)).InfoContext(r.Context(), "daily sheet served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSheetResponse(date, sheet))
}

// Record upserts one attendance row.
func (h *AttendanceHandler) Record(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	staffID, err := parseUUIDParam(req.StaffID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	branchID, err := parseUUIDParam(req.BranchID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Record", "tenant_id", tenant.TenantID, "staff_id", staffID, "branch_id", branchID, "date", req.Date)

	if err := h.service.RecordAttendance(r.Context(), tenant, application.RecordAttendanceParams{
		StaffID:  staffID,
		BranchID: branchID,
		Date:     date,
		Status:   req.Status,
		Note:     req.Note,
	}); err != nil {
		logger.ErrorContext(r.Context(), "attendance record failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "attendance recorded")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Clear deletes one attendance row. Query parameters: staff_id, branch_id,
// date.
func (h *AttendanceHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	staffID, err := parseUUIDParam(r.URL.Query().Get("staff_id"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	branchID, err := parseUUIDParam(r.URL.Query().Get("branch_id"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Clear", "tenant_id", tenant.TenantID, "staff_id", staffID, "branch_id", branchID)

	if err := h.service.ClearAttendance(r.Context(), tenant, application.ClearAttendanceParams{
		StaffID:  staffID,
		BranchID: branchID,
		Date:     date,
	}); err != nil {
		logger.ErrorContext(r.Context(), "attendance clear failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "attendance cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// AssignSubstitute places a substitute coach on a slot.
func (h *AttendanceHandler) AssignSubstitute(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	var req substituteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	params, err := req.resolve()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "AssignSubstitute", "tenant_id", tenant.TenantID, "staff_id", params.StaffID, "for_staff_id", params.ForStaffID)

	if err := h.service.AssignSubstitute(r.Context(), tenant, params); err != nil {
		logger.ErrorContext(r.Context(), "substitute assign failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "substitute assigned")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// RemoveSubstitute deletes a substitute row. Query parameters: staff_id,
// branch_id, date.
func (h *AttendanceHandler) RemoveSubstitute(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	staffID, err := parseUUIDParam(r.URL.Query().Get("staff_id"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	branchID, err := parseUUIDParam(r.URL.Query().Get("branch_id"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "RemoveSubstitute", "tenant_id", tenant.TenantID, "staff_id", staffID, "branch_id", branchID)

	if err := h.service.RemoveSubstitute(r.Context(), tenant, application.AssignSubstituteParams{
		StaffID:  staffID,
		BranchID: branchID,
		Date:     date,
	}); err != nil {
		logger.ErrorContext(r.Context(), "substitute remove failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "substitute removed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Payroll serves the monthly payroll lines. Query parameters: year, month.
func (h *AttendanceHandler) Payroll(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	year, month, err := parseMonthQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Payroll", "tenant_id", tenant.TenantID, "year", year, "month", int(month))

	lines, err := h.service.MonthlyPayroll(r.Context(), tenant, year, month)
	if err != nil {
		logger.ErrorContext(r.Context(), "payroll failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("line_count", len(lines)).InfoContext(r.Context(), "payroll served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPayrollResponse(lines))
}

type attendanceRequest struct {
	StaffID  string `json:"staff_id"`
	BranchID string `json:"branch_id"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	Note     string `json:"note,omitempty"`
}

type substituteRequest struct {
	StaffID    string `json:"staff_id"`
	ForStaffID string `json:"for_staff_id"`
	BranchID   string `json:"branch_id"`
	Date       string `json:"date"`
}

func (req substituteRequest) resolve() (application.AssignSubstituteParams, error) {
	staffID, err := parseUUIDParam(req.StaffID)
	if err != nil {
		return application.AssignSubstituteParams{}, err
	}
	forStaffID, err := parseUUIDParam(req.ForStaffID)
	if err != nil {
		return application.AssignSubstituteParams{}, err
	}
	branchID, err := parseUUIDParam(req.BranchID)
	if err != nil {
		return application.AssignSubstituteParams{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return application.AssignSubstituteParams{}, err
	}
	return application.AssignSubstituteParams{
		StaffID:    staffID,
		ForStaffID: forStaffID,
		BranchID:   branchID,
		Date:       date,
	}, nil
}

type sheetResponse struct {
	Date  string        `json:"date"`
	Slots []slotViewDTO `json:"slots"`
}

type slotViewDTO struct {
	StaffID    string         `json:"staff_id"`
	StaffName  string         `json:"staff_name"`
	BranchID   string         `json:"branch_id"`
	BranchName string         `json:"branch_name"`
	StartTime  string         `json:"start_time"`
	EndTime    string         `json:"end_time"`
	Status     string         `json:"status"`
	Deduction  float64        `json:"deduction,omitempty"`
	Note       string         `json:"note,omitempty"`
	Recorded   bool           `json:"recorded"`
	Substitute *substituteDTO `json:"substitute,omitempty"`
}

type substituteDTO struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
}

func toSheetResponse(date time.Time, views []application.AttendanceSlotView) sheetResponse {
	slots := make([]slotViewDTO, 0, len(views))
	for _, view := range views {
		dto := slotViewDTO{
			StaffID:    view.Slot.StaffID.String(),
			StaffName:  view.Slot.StaffName,
			BranchID:   view.Slot.BranchID.String(),
			BranchName: view.Slot.BranchName,
			StartTime:  view.Slot.StartTime,
			EndTime:    view.Slot.EndTime,
			Status:     view.Status,
			Deduction:  view.Deduction,
			Note:       view.Note,
			Recorded:   view.Recorded,
		}
		if view.Substitute != nil {
			dto.Substitute = &substituteDTO{
				StaffID:   view.Substitute.StaffID.String(),
				StaffName: view.Substitute.StaffName,
			}
		}
		slots = append(slots, dto)
	}
	return sheetResponse{Date: date.Format(dateLayout), Slots: slots}
}

type payrollResponse struct {
	Lines []payrollLineDTO `json:"lines"`
}

type payrollLineDTO struct {
	StaffID       string  `json:"staff_id"`
	StaffName     string  `json:"staff_name"`
	MonthlySalary float64 `json:"monthly_salary"`
	Deductions    float64 `json:"deductions"`
	NetSalary     float64 `json:"net_salary"`
	AbsenceCount  int     `json:"absence_count"`
}

func toPayrollResponse(lines []application.PayrollLine) payrollResponse {
	out := make([]payrollLineDTO, 0, len(lines))
	for _, line := range lines {
		out = append(out, payrollLineDTO{
			StaffID:       line.StaffID.String(),
			StaffName:     line.StaffName,
			MonthlySalary: line.MonthlySalary,
			Deductions:    line.Deductions,
			NetSalary:     line.NetSalary,
			AbsenceCount:  line.AbsenceCount,
		})
	}
	return payrollResponse{Lines: out}
}
