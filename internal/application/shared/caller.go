package shared

import (
	"context"

	domain "github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/logger"
)

// ContextCaller reads the caller name the HTTP middleware put on the context
type ContextCaller struct{}

// CurrentUserName returns the username on ctx, or the system user
func (ContextCaller) CurrentUserName(ctx context.Context) string {
	if name := logger.GetUsername(ctx); name != "" {
		return name
	}
	return domain.SystemUserName
}

// FixedCaller always reports the same name. Seeding and batch jobs use it.
type FixedCaller string

func (c FixedCaller) CurrentUserName(context.Context) string {
	if c == "" {
		return domain.SystemUserName
	}
	return string(c)
}
