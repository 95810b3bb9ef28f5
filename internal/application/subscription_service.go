package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
)

// CreateSubscriptionParams describes a new paid window for a player.
type CreateSubscriptionParams struct {
	PlayerID    uuid.UUID
	BranchID    uuid.UUID
	BillingMode string
	Sessions    int
	Amount      float64
	StartDate   time.Time
}

// ExtendSubscriptionParams pushes an existing subscription's end date out by
// Units: flat days for calendar-period subscriptions, training sessions for
// session-count ones.
type ExtendSubscriptionParams struct {
	SubscriptionID uuid.UUID
	Units          int
}

// SubscriptionService manages player subscriptions: end-date calculation on
// create, extensions, pause state, and session usage estimates.
type SubscriptionService struct {
	players       persistence.PlayerRepository
	branches      persistence.BranchRepository
	subscriptions persistence.SubscriptionRepository
	idGenerator   func() uuid.UUID
	now           func() time.Time
	logger        *slog.Logger
}

// NewSubscriptionService constructs a SubscriptionService with the provided dependencies.
func NewSubscriptionService(players persistence.PlayerRepository, branches persistence.BranchRepository, subscriptions persistence.SubscriptionRepository, idGenerator func() uuid.UUID, now func() time.Time) *SubscriptionService {
	return NewSubscriptionServiceWithLogger(players, branches, subscriptions, idGenerator, now, nil)
}

// NewSubscriptionServiceWithLogger constructs a SubscriptionService with a specified logger.
func NewSubscriptionServiceWithLogger(players persistence.PlayerRepository, branches persistence.BranchRepository, subscriptions persistence.SubscriptionRepository, idGenerator func() uuid.UUID, now func() time.Time, logger *slog.Logger) *SubscriptionService {
	if idGenerator == nil {
		idGenerator = uuid.New
	}
	if now == nil {
		now = time.Now
	}
	return &SubscriptionService{
		players:       players,
		branches:      branches,
		subscriptions: subscriptions,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

func (s *SubscriptionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SubscriptionService", operation, attrs...)
}

// CreateSubscription validates input, computes the end date for the billing
// mode, and persists the subscription. A session-count subscription on a
// branch with no resolvable training days stores a nil end date rather than
// guessing.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, tenant TenantContext, params CreateSubscriptionParams) (view SubscriptionView, err error) {
	if s == nil {
		err = fmt.Errorf("SubscriptionService is nil")
		return
	}
	if s.players == nil || s.branches == nil || s.subscriptions == nil {
		err = fmt.Errorf("subscription repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateSubscription",
		"tenant_id", tenant.TenantID,
		"player_id", params.PlayerID,
		"branch_id", params.BranchID,
		"billing_mode", params.BillingMode,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create subscription", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("subscription_id", view.ID).InfoContext(ctx, "subscription created")
	}()

	mode := recurrence.BillingMode(params.BillingMode)
	vErr := &ValidationError{}
	switch mode {
	case recurrence.BillingSessionCount:
		if params.Sessions <= 0 {
			vErr.add("sessions", "sessions must be positive for session-count subscriptions")
		}
	case recurrence.BillingCalendarPeriod:
	default:
		vErr.add("billingMode", "billing mode must be session-count or calendar-period")
	}
	if params.Amount < 0 {
		vErr.add("amount", "amount must not be negative")
	}
	if params.StartDate.IsZero() {
		vErr.add("startDate", "start date is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = s.players.GetPlayer(ctx, tenant.TenantID, params.PlayerID); err != nil {
		err = mapRepoError(err)
		return
	}
	var branch persistence.Branch
	branch, err = s.branches.GetBranch(ctx, tenant.TenantID, params.BranchID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	start := recurrence.CivilDate(params.StartDate)
	var end *time.Time
	switch mode {
	case recurrence.BillingCalendarPeriod:
		d := recurrence.PeriodEndDate(start)
		end = &d
	case recurrence.BillingSessionCount:
		if d, ok := recurrence.SessionEndDate(start, recurrence.ParseWeekdays(branch.Days), params.Sessions); ok {
			end = &d
		} else {
			logger.WarnContext(ctx, "end date unresolved, storing open subscription")
		}
	}

	now := s.now()
	sub := persistence.Subscription{
		ID:          s.idGenerator(),
		TenantID:    tenant.TenantID,
		PlayerID:    params.PlayerID,
		BranchID:    params.BranchID,
		BillingMode: string(mode),
		Sessions:    params.Sessions,
		Amount:      params.Amount,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = s.subscriptions.CreateSubscription(ctx, sub); err != nil {
		err = mapRepoError(err)
		return
	}

	view = subscriptionView(sub)
	return
}

// ExtendSubscription moves the end date out by params.Units, interpreted in
// the subscription's own billing mode. Extending twice by n and m lands on
// the same date as extending once by n+m.
func (s *SubscriptionService) ExtendSubscription(ctx context.Context, tenant TenantContext, params ExtendSubscriptionParams) (view SubscriptionView, err error) {
	if s == nil {
		err = fmt.Errorf("SubscriptionService is nil")
		return
	}
	if s.branches == nil || s.subscriptions == nil {
		err = fmt.Errorf("subscription repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "ExtendSubscription",
		"tenant_id", tenant.TenantID,
		"subscription_id", params.SubscriptionID,
		"units", params.Units,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to extend subscription", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "subscription extended")
	}()

	vErr := &ValidationError{}
	if params.Units <= 0 {
		vErr.add("units", "units must be positive")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var sub persistence.Subscription
	sub, err = s.subscriptions.GetSubscription(ctx, tenant.TenantID, params.SubscriptionID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if sub.EndDate == nil {
		vErr.add("subscriptionId", "subscription has no end date to extend")
		err = vErr
		return
	}
	var branch persistence.Branch
	branch, err = s.branches.GetBranch(ctx, tenant.TenantID, sub.BranchID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	extended, ok := recurrence.ExtendEndDate(*sub.EndDate, recurrence.BillingMode(sub.BillingMode), recurrence.ParseWeekdays(branch.Days), params.Units)
	if !ok {
		vErr.add("units", "extension could not be resolved against the branch schedule")
		err = vErr
		return
	}

	if err = s.subscriptions.UpdateSubscriptionEnd(ctx, tenant.TenantID, sub.ID, &extended); err != nil {
		err = mapRepoError(err)
		return
	}

	sub.EndDate = &extended
	view = subscriptionView(sub)
	return
}

// SessionUsage estimates consumption for a session-count subscription as of
// today: matching training days from the start date through today, clamped
// into the purchased total. Calendar-period subscriptions report Unknown.
func (s *SubscriptionService) SessionUsage(ctx context.Context, tenant TenantContext, subscriptionID uuid.UUID) (usage SessionUsage, err error) {
	if s == nil {
		err = fmt.Errorf("SubscriptionService is nil")
		return
	}
	if s.branches == nil || s.subscriptions == nil {
		err = fmt.Errorf("subscription repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "SessionUsage",
		"tenant_id", tenant.TenantID,
		"subscription_id", subscriptionID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to estimate session usage", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	var sub persistence.Subscription
	sub, err = s.subscriptions.GetSubscription(ctx, tenant.TenantID, subscriptionID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if recurrence.BillingMode(sub.BillingMode) != recurrence.BillingSessionCount {
		usage = SessionUsage{Unknown: true}
		return
	}
	var branch persistence.Branch
	branch, err = s.branches.GetBranch(ctx, tenant.TenantID, sub.BranchID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	set := recurrence.ParseWeekdays(branch.Days)
	if len(set) == 0 {
		usage = SessionUsage{Total: sub.Sessions, Unknown: true}
		return
	}

	consumed := recurrence.ConsumedSessions(sub.StartDate, s.now(), set)
	if consumed > sub.Sessions {
		consumed = sub.Sessions
	}
	usage = SessionUsage{
		Total:     sub.Sessions,
		Consumed:  consumed,
		Remaining: recurrence.RemainingSessions(sub.Sessions, consumed),
	}
	return
}

// ListPlayerSubscriptions returns a player's subscriptions ordered by start
// date.
func (s *SubscriptionService) ListPlayerSubscriptions(ctx context.Context, tenant TenantContext, playerID uuid.UUID) (views []SubscriptionView, err error) {
	if s == nil {
		err = fmt.Errorf("SubscriptionService is nil")
		return
	}
	if s.subscriptions == nil {
		err = fmt.Errorf("subscription repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "ListPlayerSubscriptions",
		"tenant_id", tenant.TenantID,
		"player_id", playerID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list subscriptions", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(views)).InfoContext(ctx, "subscriptions listed")
	}()

	var subs []persistence.Subscription
	subs, err = s.subscriptions.ListSubscriptionsForPlayer(ctx, tenant.TenantID, playerID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	views = make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, subscriptionView(sub))
	}
	return
}

// SetPlayerPaused flips a player's pause flag. Pause is plain state on the
// player record, not a timeline event.
func (s *SubscriptionService) SetPlayerPaused(ctx context.Context, tenant TenantContext, playerID uuid.UUID, paused bool) error {
	if s == nil {
		return fmt.Errorf("SubscriptionService is nil")
	}
	if s.players == nil {
		return fmt.Errorf("subscription repositories not configured")
	}

	logger := s.loggerWith(ctx, "SetPlayerPaused",
		"tenant_id", tenant.TenantID,
		"player_id", playerID,
		"paused", paused,
	)

	if err := s.players.SetPlayerPaused(ctx, tenant.TenantID, playerID, paused); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update pause state", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "pause state updated")
	return nil
}

func subscriptionView(sub persistence.Subscription) SubscriptionView {
	return SubscriptionView{
		ID:          sub.ID,
		PlayerID:    sub.PlayerID,
		BranchID:    sub.BranchID,
		BillingMode: sub.BillingMode,
		Sessions:    sub.Sessions,
		Amount:      sub.Amount,
		StartDate:   sub.StartDate,
		EndDate:     sub.EndDate,
	}
}
