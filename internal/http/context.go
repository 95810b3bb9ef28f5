package http

import (
	"context"
	"log/slog"

	"github.com/Jasemalbateni/academybase-sub000/internal/application"
	"github.com/Jasemalbateni/academybase-sub000/internal/logging"
)

type contextKey string

const (
	tenantContextKey         contextKey = "tenant"
	subscriptionIDContextKey contextKey = "subscription_id"
	playerIDContextKey       contextKey = "player_id"
)

// ContextWithTenant returns a derived context containing the authenticated tenant.
func ContextWithTenant(ctx context.Context, tenant application.TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenant)
}

// TenantFromContext extracts the authenticated tenant from context if available.
func TenantFromContext(ctx context.Context) (application.TenantContext, bool) {
	tenant, ok := ctx.Value(tenantContextKey).(application.TenantContext)
	return tenant, ok
}

// ContextWithSubscriptionID injects the subscription identifier resolved from the request path.
func ContextWithSubscriptionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, subscriptionIDContextKey, id)
}

// SubscriptionIDFromContext extracts a subscription identifier previously associated with the context.
func SubscriptionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subscriptionIDContextKey).(string)
	return id, ok
}

// ContextWithPlayerID injects the player identifier resolved from the request path.
func ContextWithPlayerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, playerIDContextKey, id)
}

// PlayerIDFromContext extracts a player identifier previously associated with the context.
func PlayerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(playerIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a logger previously attached to the context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
