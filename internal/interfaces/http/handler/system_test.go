package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type profileMap map[uuid.UUID]*identity.UserInfo

func (m profileMap) GetByID(_ context.Context, id uuid.UUID) (*identity.UserInfo, error) {
	if info, ok := m[id]; ok {
		return info, nil
	}
	return nil, shared.ErrNotFound
}

func serve(t *testing.T, r *gin.Engine, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestSystemHandler_Health(t *testing.T) {
	healthy := NewSystemHandler("stockroom", "test", pingFunc(func(context.Context) error { return nil }), zap.NewNop())
	broken := NewSystemHandler("stockroom", "test", pingFunc(func(context.Context) error { return errors.New("down") }), zap.NewNop())

	r := gin.New()
	r.GET("/ok", healthy.Health)
	r.GET("/broken", broken.Health)

	code, body := serve(t, r, "/ok")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["data"].(map[string]any)["database"])

	code, body = serve(t, r, "/broken")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unreachable", body["data"].(map[string]any)["database"])
}

func TestSystemHandler_Info(t *testing.T) {
	h := NewSystemHandler("stockroom", "1.2.3", pingFunc(func(context.Context) error { return nil }), zap.NewNop())
	r := gin.New()
	r.GET("/info", h.GetSystemInfo)

	code, body := serve(t, r, "/info")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "stockroom", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
}

func TestSystemHandler_WhoAmI(t *testing.T) {
	h := NewSystemHandler("stockroom", "test", pingFunc(func(context.Context) error { return nil }), zap.NewNop())
	id := uuid.New()

	r := gin.New()
	r.GET("/anon", h.WhoAmI)
	r.GET("/me", func(c *gin.Context) {
		c.Set(middleware.PrincipalKey, &identity.Principal{UserID: id, Email: "bob@example.com", Roles: []string{"admin"}})
	}, h.WhoAmI)

	code, _ := serve(t, r, "/anon")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := serve(t, r, "/me")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, id.String(), data["user_id"])
	assert.Equal(t, "bob@example.com", data["email"])
}

func TestSystemHandler_WhoAmI_Profiles(t *testing.T) {
	id, gone := uuid.New(), uuid.New()
	h := NewSystemHandler("stockroom", "test", pingFunc(func(context.Context) error { return nil }), zap.NewNop(),
		WithProfiles(profileMap{id: {ID: id, Email: "bob@example.com", Name: "Bob Stone", Roles: []string{"clerk"}}}))

	as := func(userID uuid.UUID) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(middleware.PrincipalKey, &identity.Principal{UserID: userID, Email: "bob@example.com", Roles: []string{"admin"}})
		}
	}
	r := gin.New()
	r.GET("/me", as(id), h.WhoAmI)
	r.GET("/gone", as(gone), h.WhoAmI)

	code, body := serve(t, r, "/me")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Bob Stone", data["name"])
	assert.Equal(t, []any{"clerk"}, data["roles"], "stored roles replace the token's")

	code, body = serve(t, r, "/gone")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
}
