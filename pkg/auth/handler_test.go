package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"incubator/pkg/apperr"
	"incubator/pkg/middleware"
	"incubator/pkg/response"
	"incubator/pkg/token"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) RegisterFounder(ctx context.Context, email, password, userID, name string) (Founder, error) {
	args := m.Called(ctx, email, password, userID, name)
	out, _ := args.Get(0).(Founder)
	return out, args.Error(1)
}

func (m *mockService) RegisterAdmin(ctx context.Context, email, password string) (Admin, error) {
	args := m.Called(ctx, email, password)
	out, _ := args.Get(0).(Admin)
	return out, args.Error(1)
}

func (m *mockService) LoginFounder(ctx context.Context, email, password string) (LoginResult, error) {
	args := m.Called(ctx, email, password)
	out, _ := args.Get(0).(LoginResult)
	return out, args.Error(1)
}

func (m *mockService) LoginAdmin(ctx context.Context, email, password string) (LoginResult, error) {
	args := m.Called(ctx, email, password)
	out, _ := args.Get(0).(LoginResult)
	return out, args.Error(1)
}

func (m *mockService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *mockService) Logout(ctx context.Context, claims *token.AccessClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func setupRouter(svc Service, tokens *token.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	NewHandler(svc).RegisterRoutes(api, middleware.Authenticate(tokens, nil))
	return r
}

func postJSON(r http.Handler, path, body string, header ...string) (*httptest.ResponseRecorder, response.APIResponse) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(header) == 1 {
		req.Header.Set("Authorization", header[0])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp response.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandler_RegisterFounder(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc, testTokens())

	svc.On("RegisterFounder", mock.Anything, "a@b.co", "secret1", "u-1", "Asha").
		Return(Founder{FounderID: "f-1", Email: "a@b.co", PasswordHash: "hash"}, nil).Once()

	w, resp := postJSON(r, "/api/auth/register-founder", `{"email":"a@b.co","password":"secret1","userId":"u-1","name":"Asha"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, resp.Success)
	require.NotContains(t, w.Body.String(), "hash")
	svc.AssertExpectations(t)
}

func TestHandler_RegisterFounder_Duplicate(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc, testTokens())

	svc.On("RegisterFounder", mock.Anything, "a@b.co", "secret1", "u-1", "").
		Return(Founder{}, apperr.DuplicateEmail("Founder with this email already exists.")).Once()

	w, resp := postJSON(r, "/api/auth/register-founder", `{"email":"a@b.co","password":"secret1","userId":"u-1"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Founder with this email already exists.", resp.Message)
}

func TestHandler_RegisterAdmin_MissingPassword(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc, testTokens())

	w, _ := postJSON(r, "/api/auth/register-admin", `{"email":"root@b.co"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "RegisterAdmin", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_LoginFounder(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc, testTokens())

	svc.On("LoginFounder", mock.Anything, "a@b.co", "secret1").
		Return(LoginResult{AccessToken: "at", RefreshToken: "rt", Email: "a@b.co", FounderID: "f-1"}, nil).Once()

	w, resp := postJSON(r, "/api/auth/login-founder", `{"email":"a@b.co","password":"secret1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Founder signed in successfully", resp.Message)
	data := resp.Data.(map[string]any)
	require.Equal(t, "f-1", data["founder_id"])
	require.NotContains(t, data, "admin_id")
}

func TestHandler_LoginAdmin_InvalidCredentials(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc, testTokens())

	svc.On("LoginAdmin", mock.Anything, "root@b.co", "nope").Return(LoginResult{}, apperr.InvalidCredentials()).Once()

	w, resp := postJSON(r, "/api/auth/login-admin", `{"email":"root@b.co","password":"nope"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid credentials", resp.Message)
}

func TestHandler_Refresh(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc, testTokens())

	svc.On("RefreshAccessToken", mock.Anything, "rt").Return("new-at", nil).Once()
	svc.On("RefreshAccessToken", mock.Anything, "").Return("", apperr.Validation("Refresh token is required")).Once()

	w, resp := postJSON(r, "/api/auth/refresh", `{"refreshToken":"rt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "new-at", resp.Data.(map[string]any)["accessToken"])

	w, _ = postJSON(r, "/api/auth/refresh", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Logout(t *testing.T) {
	svc := new(mockService)
	tokens := token.NewService("access-test", "refresh-test", time.Minute, time.Hour)
	r := setupRouter(svc, tokens)

	access, err := tokens.GenerateAccessToken("f-1", "a@b.co", true)
	require.NoError(t, err)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(c *token.AccessClaims) bool {
		return c.UserID == "f-1"
	})).Return(nil).Once()

	w, _ := postJSON(r, "/api/auth/logout", `{}`, "Bearer "+access)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = postJSON(r, "/api/auth/logout", `{}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertExpectations(t)
}
