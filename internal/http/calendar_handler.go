package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/application"
	"github.com/Jasemalbateni/academybase-sub000/internal/timeline"
)

type calendarService interface {
	MonthTimeline(ctx context.Context, tenant application.TenantContext, params application.MonthTimelineParams) (application.MonthTimeline, error)
	CancelSession(ctx context.Context, tenant application.TenantContext, params application.CancelSessionParams) error
	RestoreSession(ctx context.Context, tenant application.TenantContext, params application.RestoreSessionParams) error
	RecordEvent(ctx context.Context, tenant application.TenantContext, params application.RecordEventParams) error
}

type CalendarHandler struct {
	service   calendarService
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

// Month serves the merged month timeline. Query parameters: year, month,
// optional branch_id and status.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
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

	params := application.MonthTimelineParams{
		Year:   year,
		Month:  month,
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("branch_id"); raw != "" {
		branchID, err := parseUUIDParam(raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
			return
		}
		params.BranchID = &branchID
	}

	logger := h.log(r.Context(), "Month", "tenant_id", tenant.TenantID, "year", year, "month", int(month))

	result, err := h.service.MonthTimeline(r.Context(), tenant, params)
	if err != nil {
		logger.ErrorContext(r.Context(), "month timeline failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("entry_count", len(result.Entries)).InfoContext(r.Context(), "month timeline served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTimelineResponse(result))
}

// Cancel records a cancellation for one session.
func (h *CalendarHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	var req sessionActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	branchID, date, err := req.resolve()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Cancel", "tenant_id", tenant.TenantID, "branch_id", branchID, "date", req.Date)

	if err := h.service.CancelSession(r.Context(), tenant, application.CancelSessionParams{
		BranchID: branchID,
		Date:     date,
		Note:     req.Note,
	}); err != nil {
		logger.ErrorContext(r.Context(), "session cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "session cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Restore removes the exception record for one session.
func (h *CalendarHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	var req sessionActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	branchID, date, err := req.resolve()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Restore", "tenant_id", tenant.TenantID, "branch_id", branchID, "date", req.Date)

	if err := h.service.RestoreSession(r.Context(), tenant, application.RestoreSessionParams{
		BranchID: branchID,
		Date:     date,
	}); err != nil {
		logger.ErrorContext(r.Context(), "session restore failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "session restored")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// RecordEvent attaches a note, match, or special event to one session date.
func (h *CalendarHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	var req sessionActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	branchID, date, err := req.resolve()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "RecordEvent", "tenant_id", tenant.TenantID, "branch_id", branchID, "date", req.Date, "kind", req.Kind)

	if err := h.service.RecordEvent(r.Context(), tenant, application.RecordEventParams{
		BranchID: branchID,
		Date:     date,
		Kind:     req.Kind,
		Note:     req.Note,
	}); err != nil {
		logger.ErrorContext(r.Context(), "event record failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event recorded")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type sessionActionRequest struct {
	BranchID string `json:"branch_id"`
	Date     string `json:"date"`
	Kind     string `json:"kind,omitempty"`
	Note     string `json:"note,omitempty"`
}

func (req sessionActionRequest) resolve() (uuid.UUID, time.Time, error) {
	branchID, err := parseUUIDParam(req.BranchID)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	return branchID, date, nil
}

type timelineResponse struct {
	Year         int            `json:"year"`
	Month        int            `json:"month"`
	StatusCounts map[string]int `json:"status_counts"`
	Entries      []entryDTO     `json:"entries"`
}

type entryDTO struct {
	Date       string `json:"date"`
	BranchID   string `json:"branch_id"`
	BranchName string `json:"branch_name"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	Overridden bool   `json:"overridden"`
}

func toTimelineResponse(result application.MonthTimeline) timelineResponse {
	entries := make([]entryDTO, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, toEntryDTO(entry))
	}
	return timelineResponse{
		Year:         result.Year,
		Month:        int(result.Month),
		StatusCounts: result.StatusCounts,
		Entries:      entries,
	}
}

func toEntryDTO(entry timeline.Entry) entryDTO {
	dto := entryDTO{
		Date:       entry.Occurrence.Date.Format(dateLayout),
		BranchID:   entry.Occurrence.BranchID.String(),
		BranchName: entry.Occurrence.BranchName,
		StartTime:  entry.Occurrence.StartTime,
		EndTime:    entry.Occurrence.EndTime,
		Status:     entry.Status,
		Overridden: entry.Overridden(),
	}
	if entry.Override != nil {
		dto.Note = entry.Override.Note
	}
	return dto
}
