package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jasemalbateni/academybase-sub000/internal/application"
)

type reportService interface {
	ScheduleReport(ctx context.Context, tenant application.TenantContext, year int, month time.Month) (application.Report, error)
	PayrollReport(ctx context.Context, tenant application.TenantContext, year int, month time.Month) (application.Report, error)
	LedgerReport(ctx context.Context, tenant application.TenantContext, year int, month time.Month) (application.Report, error)
}

type ReportHandler struct {
	service   reportService
	responder responder
	logger    *slog.Logger
}

func NewReportHandler(service reportService, logger *slog.Logger) *ReportHandler {
	base := defaultLogger(logger)
	return &ReportHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReportHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReportHandler", operation, attrs...)
}

// Schedule streams the month schedule workbook.
func (h *ReportHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Schedule", func(ctx context.Context, tenant application.TenantContext, year int, month time.Month) (application.Report, error) {
		return h.service.ScheduleReport(ctx, tenant, year, month)
	})
}

// Payroll streams the month payroll workbook.
func (h *ReportHandler) Payroll(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Payroll", func(ctx context.Context, tenant application.TenantContext, year int, month time.Month) (application.Report, error) {
		return h.service.PayrollReport(ctx, tenant, year, month)
	})
}

// Ledger streams the month finance ledger workbook.
func (h *ReportHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Ledger", func(ctx context.Context, tenant application.TenantContext, year int, month time.Month) (application.Report, error) {
		return h.service.LedgerReport(ctx, tenant, year, month)
	})
}

func (h *ReportHandler) serve(w http.ResponseWriter, r *http.Request, operation string, build func(context.Context, application.TenantContext, int, time.Month) (application.Report, error)) {
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

	logger := h.log(r.Context(), operation, "tenant_id", tenant.TenantID, "year", year, "month", int(month))

	report, err := build(r.Context(), tenant, year, month)
	if err != nil {
		logger.ErrorContext(r.Context(), "report export failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("file_name", report.FileName).InfoContext(r.Context(), "report exported")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Content); err != nil {
		logger.ErrorContext(r.Context(), "failed to stream report", "error", err)
	}
}
