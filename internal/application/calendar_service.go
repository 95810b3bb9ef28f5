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

// MonthTimelineParams selects the month to merge plus optional narrowing.
// Filters run on the merged entries, so an overridden occurrence stays
// visible under its effective status.
type MonthTimelineParams struct {
	Year     int
	Month    time.Month
	BranchID *uuid.UUID
	Status   string
}

// CancelSessionParams identifies the session to cancel.
type CancelSessionParams struct {
	BranchID uuid.UUID
	Date     time.Time
	Note     string
}

// RestoreSessionParams identifies the cancelled or annotated session to
// revert to its generated state.
type RestoreSessionParams struct {
	BranchID uuid.UUID
	Date     time.Time
}

// RecordEventParams attaches a non-cancelling annotation to a session date.
type RecordEventParams struct {
	BranchID uuid.UUID
	Date     time.Time
	Kind     string
	Note     string
}

// CalendarService generates the monthly schedule from branch configuration
// and merges the stored exception records over it. Sessions are never stored;
// only the exceptions are.
type CalendarService struct {
	branches    persistence.BranchRepository
	events      persistence.CalendarEventRepository
	ledger      persistence.LedgerRepository
	idGenerator func() uuid.UUID
	now         func() time.Time
	logger      *slog.Logger
}

// NewCalendarService constructs a CalendarService with the provided dependencies.
func NewCalendarService(branches persistence.BranchRepository, events persistence.CalendarEventRepository, ledger persistence.LedgerRepository, idGenerator func() uuid.UUID, now func() time.Time) *CalendarService {
	return NewCalendarServiceWithLogger(branches, events, ledger, idGenerator, now, nil)
}

// NewCalendarServiceWithLogger constructs a CalendarService with a specified logger.
func NewCalendarServiceWithLogger(branches persistence.BranchRepository, events persistence.CalendarEventRepository, ledger persistence.LedgerRepository, idGenerator func() uuid.UUID, now func() time.Time, logger *slog.Logger) *CalendarService {
	if idGenerator == nil {
		idGenerator = uuid.New
	}
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		branches:    branches,
		events:      events,
		ledger:      ledger,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// MonthTimeline merges the generated month with its exception records.
func (s *CalendarService) MonthTimeline(ctx context.Context, tenant TenantContext, params MonthTimelineParams) (result MonthTimeline, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}
	if s.branches == nil || s.events == nil {
		err = fmt.Errorf("calendar repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "MonthTimeline",
		"tenant_id", tenant.TenantID,
		"year", params.Year,
		"month", int(params.Month),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build month timeline", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("entry_count", len(result.Entries)).InfoContext(ctx, "month timeline built")
	}()

	vErr := &ValidationError{}
	if params.Year < 1 {
		vErr.add("year", "year is required")
	}
	if params.Month < time.January || params.Month > time.December {
		vErr.add("month", "month must be between 1 and 12")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var branches []persistence.Branch
	branches, err = s.branches.ListBranches(ctx, tenant.TenantID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	recurrences := make([]recurrence.Recurrence, 0, len(branches))
	for _, branch := range branches {
		recurrences = append(recurrences, branchRecurrence(branch))
	}
	occurrences := recurrence.GenerateMonth(params.Year, params.Month, recurrences)

	var rows []persistence.CalendarEvent
	rows, err = s.events.ListEventsForMonth(ctx, tenant.TenantID, params.Year, params.Month)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	overrides := make(timeline.OverrideSet, len(rows))
	for _, row := range rows {
		kind, ok := timeline.KindFromString(row.Kind)
		if !ok {
			logger.WarnContext(ctx, "skipping event with unknown kind", "event_id", row.ID, "kind", row.Kind)
			continue
		}
		key := timeline.OverrideKey{EntityID: row.BranchID, Date: timeline.NewDateKey(row.Date)}
		overrides.Apply(key, timeline.Override{Kind: kind, Status: row.Status, Note: row.Note})
	}

	entries := timeline.Merge(occurrences, overrides)
	if params.BranchID != nil {
		entries = timeline.FilterByBranch(entries, *params.BranchID)
	}
	if params.Status != "" {
		entries = timeline.FilterByStatus(entries, params.Status)
	}

	result = MonthTimeline{
		Year:         params.Year,
		Month:        params.Month,
		Entries:      entries,
		StatusCounts: timeline.CountByStatus(entries),
	}
	return
}

// CancelSession records a cancellation for one generated session and credits
// the branch's per-session field rent back to the ledger. The ledger write is
// best effort: a failure is logged, never surfaced, and the next cancel of
// the same session upserts the same row.
func (s *CalendarService) CancelSession(ctx context.Context, tenant TenantContext, params CancelSessionParams) (err error) {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}
	if s.branches == nil || s.events == nil {
		return fmt.Errorf("calendar repositories not configured")
	}

	logger := s.loggerWith(ctx, "CancelSession",
		"tenant_id", tenant.TenantID,
		"branch_id", params.BranchID,
		"date", timeline.NewDateKey(params.Date).String(),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session cancelled")
	}()

	var branch persistence.Branch
	branch, err = s.branches.GetBranch(ctx, tenant.TenantID, params.BranchID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	rec := branchRecurrence(branch)
	if !recurrence.OccursOn(params.Date, rec.Days) {
		vErr := &ValidationError{}
		vErr.add("date", "no session scheduled on this date")
		err = vErr
		return
	}

	now := s.now()
	event := persistence.CalendarEvent{
		ID:        s.idGenerator(),
		TenantID:  tenant.TenantID,
		BranchID:  params.BranchID,
		Date:      recurrence.CivilDate(params.Date),
		Kind:      timeline.KindCancellation.String(),
		Note:      strings.TrimSpace(params.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.events.UpsertEvent(ctx, event); err != nil {
		err = mapRepoError(err)
		return
	}

	s.creditSessionRent(ctx, logger, tenant, branch, params.Date)
	return nil
}

// creditSessionRent writes the field-rent credit linked to one cancelled
// session. Errors are logged and swallowed; the calendar write already
// succeeded and the credit can be retried by cancelling again.
func (s *CalendarService) creditSessionRent(ctx context.Context, logger *slog.Logger, tenant TenantContext, branch persistence.Branch, date time.Time) {
	if s.ledger == nil || branch.MonthlyRent <= 0 {
		return
	}

	day := recurrence.CivilDate(date)
	amount := recurrence.PerOccurrenceCost(branch.MonthlyRent, day.Year(), day.Month(), branchRecurrence(branch).Days, recurrence.RateMode(branch.RentType))
	if amount <= 0 {
		return
	}

	key := SessionFieldKey(branch.ID, timeline.NewDateKey(day))
	now := s.now()
	entry := persistence.LedgerEntry{
		ID:          s.idGenerator(),
		TenantID:    tenant.TenantID,
		AutoKey:     key.String(),
		BranchID:    branch.ID,
		Date:        day,
		Kind:        "credit",
		Amount:      amount,
		Description: fmt.Sprintf("field rent credit for cancelled session at %s", branch.Name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.ledger.UpsertByAutoKey(ctx, entry); err != nil {
		logger.WarnContext(ctx, "failed to write session rent credit", "error", err, "auto_key", key.String())
	}
}

// RestoreSession deletes the exception record for one session, reverting it
// to its generated state. There is no stored "restored" status. The operation
// is idempotent: restoring an untouched session is a no-op.
func (s *CalendarService) RestoreSession(ctx context.Context, tenant TenantContext, params RestoreSessionParams) (err error) {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}
	if s.events == nil {
		return fmt.Errorf("calendar repositories not configured")
	}

	logger := s.loggerWith(ctx, "RestoreSession",
		"tenant_id", tenant.TenantID,
		"branch_id", params.BranchID,
		"date", timeline.NewDateKey(params.Date).String(),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to restore session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session restored")
	}()

	day := recurrence.CivilDate(params.Date)
	if err = s.events.DeleteEvent(ctx, tenant.TenantID, params.BranchID, day); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = nil
		} else {
			err = mapRepoError(err)
			return
		}
	}

	if s.ledger != nil {
		key := SessionFieldKey(params.BranchID, timeline.NewDateKey(day))
		if delErr := s.ledger.DeleteByAutoKey(ctx, tenant.TenantID, key.String()); delErr != nil && !errors.Is(delErr, persistence.ErrNotFound) {
			logger.WarnContext(ctx, "failed to remove session rent credit", "error", delErr, "auto_key", key.String())
		}
	}
	return nil
}

// RecordEvent attaches a note, match, or special event to one session date.
// A cancellation already stored for the same key outranks the annotation and
// survives the write when both reach the merge.
func (s *CalendarService) RecordEvent(ctx context.Context, tenant TenantContext, params RecordEventParams) (err error) {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}
	if s.branches == nil || s.events == nil {
		return fmt.Errorf("calendar repositories not configured")
	}

	logger := s.loggerWith(ctx, "RecordEvent",
		"tenant_id", tenant.TenantID,
		"branch_id", params.BranchID,
		"date", timeline.NewDateKey(params.Date).String(),
		"kind", params.Kind,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to record event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event recorded")
	}()

	kind, ok := timeline.KindFromString(params.Kind)
	vErr := &ValidationError{}
	if !ok {
		vErr.add("kind", "unknown event kind")
	} else if kind != timeline.KindNote && kind != timeline.KindMatch && kind != timeline.KindSpecialEvent {
		vErr.add("kind", "kind must be note, match, or special-event")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = s.branches.GetBranch(ctx, tenant.TenantID, params.BranchID); err != nil {
		err = mapRepoError(err)
		return
	}

	// One stored row per (branch, date): an upsert here would clobber a
	// higher-ranked record, so keep whatever outranks the annotation.
	day := recurrence.CivilDate(params.Date)
	var existing []persistence.CalendarEvent
	existing, err = s.events.ListEventsForMonth(ctx, tenant.TenantID, day.Year(), day.Month())
	if err != nil {
		err = mapRepoError(err)
		return
	}
	for _, row := range existing {
		if row.BranchID != params.BranchID || !timeline.NewDateKey(row.Date).Time().Equal(day) {
			continue
		}
		if stored, ok := timeline.KindFromString(row.Kind); ok && stored >= kind {
			logger.InfoContext(ctx, "existing record outranks annotation, keeping it", "existing_kind", row.Kind)
			return nil
		}
	}

	now := s.now()
	event := persistence.CalendarEvent{
		ID:        s.idGenerator(),
		TenantID:  tenant.TenantID,
		BranchID:  params.BranchID,
		Date:      day,
		Kind:      kind.String(),
		Note:      strings.TrimSpace(params.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.events.UpsertEvent(ctx, event); err != nil {
		err = mapRepoError(err)
	}
	return
}
