package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/metrics"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type staticAuthenticator map[string]*identity.Principal

func (a staticAuthenticator) Authenticate(_ context.Context, token string) (*identity.Principal, error) {
	if p, ok := a[token]; ok {
		return p, nil
	}
	return nil, shared.ErrUnauthorized
}

func TestNew(t *testing.T) {
	engine := New(Deps{
		System:        handler.NewSystemHandler("stockroom", "test", okPinger{}, zap.NewNop()),
		Authenticator: staticAuthenticator{"tok": {UserID: uuid.New(), Email: "a@example.com"}},
		Metrics:       metrics.New("stockroom").Handler(),
		Logger:        zap.NewNop(),
	})

	get := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get("/health", ""))
	assert.Equal(t, http.StatusOK, get("/metrics", ""))
	assert.Equal(t, http.StatusUnauthorized, get("/api/v1/me", ""))
	assert.Equal(t, http.StatusUnauthorized, get("/api/v1/me", "nope"))
	assert.Equal(t, http.StatusOK, get("/api/v1/me", "tok"))
	assert.Equal(t, http.StatusOK, get("/api/v1/system/info", "tok"))
}
