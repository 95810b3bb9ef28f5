package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// APIKeyVerifier compares a stored hash with a candidate secret.
type APIKeyVerifier func(hashedKey, secret string) error

// TenantService resolves API keys presented on incoming requests to the
// tenant they act for. Keys are "slug.secret": the slug selects the tenant
// row and the secret is checked against its stored hash.
type TenantService struct {
	tenants   persistence.TenantRepository
	verifyKey APIKeyVerifier
	logger    *slog.Logger
}

// NewTenantService constructs a TenantService with the provided dependencies.
func NewTenantService(tenants persistence.TenantRepository, verify APIKeyVerifier) *TenantService {
	return NewTenantServiceWithLogger(tenants, verify, nil)
}

// NewTenantServiceWithLogger constructs a TenantService with a specified logger.
func NewTenantServiceWithLogger(tenants persistence.TenantRepository, verify APIKeyVerifier, logger *slog.Logger) *TenantService {
	if verify == nil {
		verify = VerifyAPIKey
	}
	return &TenantService{tenants: tenants, verifyKey: verify, logger: defaultLogger(logger)}
}

func (s *TenantService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TenantService", operation, attrs...)
}

// ResolveAPIKey authenticates an API key and returns the tenant context it
// grants. Every failure mode collapses to ErrInvalidAPIKey so callers cannot
// probe for tenant slugs.
func (s *TenantService) ResolveAPIKey(ctx context.Context, apiKey string) (tenant TenantContext, err error) {
	if s == nil {
		err = fmt.Errorf("TenantService is nil")
		return
	}
	if s.tenants == nil {
		err = fmt.Errorf("tenant repository not configured")
		return
	}

	trimmed := strings.TrimSpace(apiKey)
	slug, secret, found := strings.Cut(trimmed, ".")

	logger := s.loggerWith(ctx, "ResolveAPIKey",
		"tenant_slug", slug,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "api key resolution failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("tenant_id", tenant.TenantID).InfoContext(ctx, "api key resolved")
	}()

	if !found || slug == "" || secret == "" {
		err = ErrInvalidAPIKey
		return
	}

	var record persistence.Tenant
	record, err = s.tenants.GetTenantBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidAPIKey
		}
		return
	}

	if err = s.verifyKey(record.APIKeyHash, secret); err != nil {
		err = ErrInvalidAPIKey
		return
	}

	tenant = TenantContext{TenantID: record.ID, Slug: record.Slug, Name: record.Name}
	return
}
