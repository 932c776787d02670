package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, accessToken string) (*identity.Principal, error) {
	args := m.Called(ctx, accessToken)
	if p := args.Get(0); p != nil {
		return p.(*identity.Principal), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRouter(authn Authenticator, handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(BearerAuth(DefaultAuthConfig(authn)))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/test", append(handlers, func(c *gin.Context) { c.Status(http.StatusOK) })...)
	return router
}

func do(router http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestBearerAuth_ValidToken(t *testing.T) {
	principal := &identity.Principal{UserID: uuid.New(), Email: "alice@example.com", Roles: []string{"admin"}}
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, "good-token").Return(principal, nil)

	var seen *identity.Principal
	var username, userID string
	router := newRouter(authn, func(c *gin.Context) {
		seen = GetPrincipal(c)
		username = logger.GetUsername(c.Request.Context())
		userID = logger.GetUserID(c.Request.Context())
	})

	rec := do(router, "Bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, principal, seen)
	assert.Equal(t, "alice@example.com", username)
	assert.Equal(t, principal.UserID.String(), userID)
	authn.AssertExpectations(t)
}

func TestBearerAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
		status int
		code   string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"empty token", "Bearer  ", nil, http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"expired", "Bearer t", fmt.Errorf("%w: %w", shared.ErrUnauthorized, auth.ErrExpiredToken), http.StatusUnauthorized, dto.ErrCodeTokenExpired},
		{"revoked", "Bearer t", fmt.Errorf("%w: %w", shared.ErrUnauthorized, auth.ErrRevokedToken), http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"store failure", "Bearer t", errors.New("redis down"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn := new(MockAuthenticator)
			if tt.err != nil {
				authn.On("Authenticate", mock.Anything, "t").Return(nil, tt.err)
			}
			called := false
			router := newRouter(authn, func(c *gin.Context) { called = true })

			rec := do(router, tt.header)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
			assert.False(t, called)
			authn.AssertExpectations(t)
		})
	}
}

func TestBearerAuth_SkipPaths(t *testing.T) {
	authn := new(MockAuthenticator)
	router := newRouter(authn)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	authn.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestRequireRole(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, "admin").
		Return(&identity.Principal{UserID: uuid.New(), Roles: []string{"Admin"}}, nil)
	authn.On("Authenticate", mock.Anything, "clerk").
		Return(&identity.Principal{UserID: uuid.New(), Roles: []string{"clerk"}}, nil)

	router := newRouter(authn, RequireRole("admin"))

	assert.Equal(t, http.StatusOK, do(router, "Bearer admin").Code)

	rec := do(router, "Bearer clerk")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, rec))

	t.Run("without BearerAuth", func(t *testing.T) {
		r := gin.New()
		r.GET("/test", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })
		assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	})
}
