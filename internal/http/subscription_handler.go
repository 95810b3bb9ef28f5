package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/application"
)

type subscriptionService interface {
	CreateSubscription(ctx context.Context, tenant application.TenantContext, params application.CreateSubscriptionParams) (application.SubscriptionView, error)
	ExtendSubscription(ctx context.Context, tenant application.TenantContext, params application.ExtendSubscriptionParams) (application.SubscriptionView, error)
	SessionUsage(ctx context.Context, tenant application.TenantContext, subscriptionID uuid.UUID) (application.SessionUsage, error)
	ListPlayerSubscriptions(ctx context.Context, tenant application.TenantContext, playerID uuid.UUID) ([]application.SubscriptionView, error)
	SetPlayerPaused(ctx context.Context, tenant application.TenantContext, playerID uuid.UUID, paused bool) error
}

type SubscriptionHandler struct {
	service   subscriptionService
	responder responder
	logger    *slog.Logger
}

func NewSubscriptionHandler(service subscriptionService, logger *slog.Logger) *SubscriptionHandler {
	base := defaultLogger(logger)
	return &SubscriptionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SubscriptionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SubscriptionHandler", operation, attrs...)
}

// Create stores a new subscription with its computed end date.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	playerID, err := parseUUIDParam(req.PlayerID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	branchID, err := parseUUIDParam(req.BranchID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "tenant_id", tenant.TenantID, "player_id", playerID)

	view, err := h.service.CreateSubscription(r.Context(), tenant, application.CreateSubscriptionParams{
		PlayerID:    playerID,
		BranchID:    branchID,
		BillingMode: req.BillingMode,
		Sessions:    req.Sessions,
		Amount:      req.Amount,
		StartDate:   startDate,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "subscription create failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("subscription_id", view.ID).InfoContext(r.Context(), "subscription created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, subscriptionResponse{Subscription: toSubscriptionDTO(view)})
}

// List serves a player's subscriptions. Query parameter: player_id.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	playerID, err := parseUUIDParam(r.URL.Query().Get("player_id"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "List", "tenant_id", tenant.TenantID, "player_id", playerID)

	views, err := h.service.ListPlayerSubscriptions(r.Context(), tenant, playerID)
	if err != nil {
		logger.ErrorContext(r.Context(), "subscription list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(views)).InfoContext(r.Context(), "subscriptions listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toListSubscriptionsResponse(views))
}

// Extend pushes the subscription's end date out. The subscription ID comes
// from the request path.
func (h *SubscriptionHandler) Extend(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	raw, ok := SubscriptionIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	subscriptionID, err := parseUUIDParam(raw)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Extend", "tenant_id", tenant.TenantID, "subscription_id", subscriptionID, "units", req.Units)

	view, err := h.service.ExtendSubscription(r.Context(), tenant, application.ExtendSubscriptionParams{
		SubscriptionID: subscriptionID,
		Units:          req.Units,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "subscription extend failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "subscription extended")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, subscriptionResponse{Subscription: toSubscriptionDTO(view)})
}

// Usage serves the session usage estimate for one subscription.
func (h *SubscriptionHandler) Usage(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	raw, ok := SubscriptionIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	subscriptionID, err := parseUUIDParam(raw)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Usage", "tenant_id", tenant.TenantID, "subscription_id", subscriptionID)

	usage, err := h.service.SessionUsage(r.Context(), tenant, subscriptionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "session usage failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "session usage served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, usageResponse{
		Total:     usage.Total,
		Consumed:  usage.Consumed,
		Remaining: usage.Remaining,
		Unknown:   usage.Unknown,
	})
}

// SetPause flips a player's pause flag. The player ID comes from the request
// path.
func (h *SubscriptionHandler) SetPause(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tenant, _ := TenantFromContext(r.Context())

	raw, ok := PlayerIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}
	playerID, err := parseUUIDParam(raw)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	var req pauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetPause", "tenant_id", tenant.TenantID, "player_id", playerID, "paused", req.Paused)

	if err := h.service.SetPlayerPaused(r.Context(), tenant, playerID, req.Paused); err != nil {
		logger.ErrorContext(r.Context(), "pause update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "pause state updated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type subscriptionRequest struct {
	PlayerID    string  `json:"player_id"`
	BranchID    string  `json:"branch_id"`
	BillingMode string  `json:"billing_mode"`
	Sessions    int     `json:"sessions,omitempty"`
	Amount      float64 `json:"amount"`
	StartDate   string  `json:"start_date"`
}

type extendRequest struct {
	Units int `json:"units"`
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

type subscriptionResponse struct {
	Subscription subscriptionDTO `json:"subscription"`
}

type listSubscriptionsResponse struct {
	Subscriptions []subscriptionDTO `json:"subscriptions"`
}

type usageResponse struct {
	Total     int  `json:"total"`
	Consumed  int  `json:"consumed"`
	Remaining int  `json:"remaining"`
	Unknown   bool `json:"unknown"`
}

type subscriptionDTO struct {
	ID          string  `json:"id"`
	PlayerID    string  `json:"player_id"`
	BranchID    string  `json:"branch_id"`
	BillingMode string  `json:"billing_mode"`
	Sessions    int     `json:"sessions,omitempty"`
	Amount      float64 `json:"amount"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

func toSubscriptionDTO(view application.SubscriptionView) subscriptionDTO {
	dto := subscriptionDTO{
		ID:          view.ID.String(),
		PlayerID:    view.PlayerID.String(),
		BranchID:    view.BranchID.String(),
		BillingMode: view.BillingMode,
		Sessions:    view.Sessions,
		Amount:      view.Amount,
		StartDate:   view.StartDate.Format(dateLayout),
	}
	if view.EndDate != nil {
		end := view.EndDate.Format(dateLayout)
		dto.EndDate = &end
	}
	return dto
}

func toListSubscriptionsResponse(views []application.SubscriptionView) listSubscriptionsResponse {
	out := make([]subscriptionDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toSubscriptionDTO(view))
	}
	return listSubscriptionsResponse{Subscriptions: out}
}
