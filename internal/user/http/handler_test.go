package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, password, name string) (*user.User, error) {
	args := m.Called(ctx, email, password, name)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockService) Login(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func setupRouter(svc user.Service, jwtManager *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewUserHandler(svc, jwtManager), auth.AuthRequired(jwtManager))
	return r
}

func do(r *gin.Engine, method, target, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Minute)

	t.Run("created", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Register", mock.Anything, "ann@example.com", "password1", "Ann").
			Return(&user.User{ID: "u1", Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"}, nil)

		w := do(setupRouter(svc, jwtManager), http.MethodPost, "/v1/auth/register",
			`{"email":"ann@example.com","password":"password1","name":"Ann"}`, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "hash")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Register", mock.Anything, "ann@example.com", "password1", "Ann").Return(nil, user.ErrEmailAlreadyUsed)

		w := do(setupRouter(svc, jwtManager), http.MethodPost, "/v1/auth/register",
			`{"email":"ann@example.com","password":"password1","name":"Ann"}`, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password rejected at binding", func(t *testing.T) {
		svc := new(MockService)
		w := do(setupRouter(svc, jwtManager), http.MethodPost, "/v1/auth/register",
			`{"email":"ann@example.com","password":"short","name":"Ann"}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLoginThenMe(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Minute)
	ann := &user.User{ID: "u1", Email: "ann@example.com", Name: "Ann"}

	svc := new(MockService)
	svc.On("Login", mock.Anything, "ann@example.com", "password1").Return(ann, nil)
	svc.On("GetByID", mock.Anything, "u1").Return(ann, nil)
	r := setupRouter(svc, jwtManager)

	w := do(r, http.MethodPost, "/v1/auth/login", `{"email":"ann@example.com","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "u1", login.User.ID)
	require.NotEmpty(t, login.AccessToken)

	w = do(r, http.MethodGet, "/v1/me", "", login.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ann"`)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, "ann@example.com", "wrong-pass").Return(nil, user.ErrInvalidCredentials)

	w := do(setupRouter(svc, auth.NewJWTManager("secret", time.Minute)), http.MethodPost, "/v1/auth/login",
		`{"email":"ann@example.com","password":"wrong-pass"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestMeRequiresToken(t *testing.T) {
	svc := new(MockService)
	w := do(setupRouter(svc, auth.NewJWTManager("secret", time.Minute)), http.MethodGet, "/v1/me", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
