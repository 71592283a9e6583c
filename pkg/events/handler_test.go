package events

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

	"incubator/pkg/middleware"
	"incubator/pkg/response"
	"incubator/pkg/token"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) AddEvent(ctx context.Context, name, posterLink, date, description string) (Event, error) {
	args := m.Called(ctx, name, posterLink, date, description)
	out, _ := args.Get(0).(Event)
	return out, args.Error(1)
}

func (m *mockService) UpdateEvent(ctx context.Context, id int64, name, posterLink, date, description string) (Event, error) {
	args := m.Called(ctx, id, name, posterLink, date, description)
	out, _ := args.Get(0).(Event)
	return out, args.Error(1)
}

func (m *mockService) ListEvents(ctx context.Context) ([]Event, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]Event)
	return out, args.Error(1)
}

func (m *mockService) Register(ctx context.Context, eventID int64, name, number, email string) (Registration, error) {
	args := m.Called(ctx, eventID, name, number, email)
	out, _ := args.Get(0).(Registration)
	return out, args.Error(1)
}

func (m *mockService) RegistrationsForEvent(ctx context.Context, eventID int64) ([]Registration, error) {
	args := m.Called(ctx, eventID)
	out, _ := args.Get(0).([]Registration)
	return out, args.Error(1)
}

func (m *mockService) RegistrationsForEmail(ctx context.Context, email string) ([]Registration, error) {
	args := m.Called(ctx, email)
	out, _ := args.Get(0).([]Registration)
	return out, args.Error(1)
}

var tokens = token.NewService("access-test", "refresh-test", time.Minute, time.Hour)

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), middleware.Authenticate(tokens, nil))
	return r
}

func call(r http.Handler, method, path, body string, founder *bool) (*httptest.ResponseRecorder, response.APIResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if founder != nil {
		tok, _ := tokens.GenerateAccessToken("u-1", "x@b.co", *founder)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp response.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

var (
	asAdmin   = func() *bool { b := false; return &b }()
	asFounder = func() *bool { b := true; return &b }()
)

func TestListEvents_Public(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	svc.On("ListEvents", mock.Anything).Return([]Event{{ID: 1, Name: "Demo Day"}}, nil).Once()

	w, resp := call(r, http.MethodGet, "/api/events", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Events fetched successfully", resp.Message)
}

func TestAddEvent_RoleGate(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	body := `{"name":"Demo Day","posterLink":"p","date":"2025-03-01","description":"d"}`

	w, _ := call(r, http.MethodPost, "/api/events", body, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = call(r, http.MethodPost, "/api/events", body, asFounder)
	require.Equal(t, http.StatusForbidden, w.Code)

	svc.On("AddEvent", mock.Anything, "Demo Day", "p", "2025-03-01", "d").Return(Event{ID: 1}, nil).Once()
	w, resp := call(r, http.MethodPost, "/api/events", body, asAdmin)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Event added successfully", resp.Message)
}

func TestUpdateEvent_BadID(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)

	w, _ := call(r, http.MethodPut, "/api/events/abc", `{}`, asAdmin)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_Public(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	svc.On("Register", mock.Anything, int64(3), "Ravi", "9999999999", "r@b.co").Return(Registration{ID: 7, EventID: 3}, nil).Once()

	w, resp := call(r, http.MethodPost, "/api/event-registrations", `{"eventId":3,"name":"Ravi","number":"9999999999","email":"r@b.co"}`, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Event registration successful", resp.Message)
}

func TestRegistrationsByEmail_Public(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	svc.On("RegistrationsForEmail", mock.Anything, "r@b.co").Return([]Registration{}, nil).Once()

	w, _ := call(r, http.MethodGet, "/api/event-registrations/email/r@b.co", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestRegistrationsByEvent_AdminOnly(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)

	w, _ := call(r, http.MethodGet, "/api/event-registrations/3", "", asFounder)
	require.Equal(t, http.StatusForbidden, w.Code)

	svc.On("RegistrationsForEvent", mock.Anything, int64(3)).Return([]Registration{{ID: 1}}, nil).Once()
	w, _ = call(r, http.MethodGet, "/api/event-registrations/3", "", asAdmin)
	require.Equal(t, http.StatusOK, w.Code)
}
