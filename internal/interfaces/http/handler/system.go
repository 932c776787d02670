package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Profiles loads the stored user behind a principal
type Profiles interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.UserInfo, error)
}

// SystemHandler serves health, build info and the caller's identity
type SystemHandler struct {
	name      string
	version   string
	db        Pinger
	profiles  Profiles
	logger    *zap.Logger
	startTime time.Time
}

// SystemOption configures a SystemHandler
type SystemOption func(*SystemHandler)

// WithProfiles makes WhoAmI answer from the stored user, so role changes
// show before the access token is renewed
func WithProfiles(p Profiles) SystemOption {
	return func(h *SystemHandler) {
		h.profiles = p
	}
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, db Pinger, logger *zap.Logger, opts ...SystemOption) *SystemHandler {
	h := &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		logger:    logger,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse reports liveness and database reachability
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health pings the database with a short deadline
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(HealthResponse{Status: "degraded", Database: "unreachable"}))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{Status: "ok", Database: "ok"}))
}

// GetSystemInfo returns the service name, version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// WhoAmIResponse is the authenticated caller
type WhoAmIResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WhoAmI returns the caller the bearer token resolved to. With profiles
// configured, name, email and roles come from the store.
func (h *SystemHandler) WhoAmI(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
		return
	}
	resp := WhoAmIResponse{
		UserID:    p.UserID.String(),
		Email:     p.Email,
		Name:      p.Name,
		Roles:     p.Roles,
		ExpiresAt: p.ExpiresAt,
	}
	if h.profiles != nil {
		info, err := h.profiles.GetByID(c.Request.Context(), p.UserID)
		if err != nil {
			h.logger.Warn("Profile lookup failed", zap.String("user_id", resp.UserID), zap.Error(err))
			c.JSON(dto.FromError(err))
			return
		}
		resp.Email = info.Email
		resp.Name = info.Name
		resp.Roles = info.Roles
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
