package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"incubator/pkg/config"
	"incubator/pkg/notify"
	"incubator/pkg/token"
)

func testRouter(health func(context.Context) error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return newRouter(routerDeps{
		cfg:      config.Config{CORSAllowedOrigins: []string{"http://localhost:5173"}},
		logger:   logger,
		verifier: token.NewService("a", "r", time.Minute, time.Hour),
		denylist: token.NopDenylist{},
		hub:      notify.NewHub(),
		health:   health,
	})
}

func TestRouter_Healthz(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(func(context.Context) error { return nil }).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	testRouter(func(context.Context) error { return errors.New("down") }).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_ProtectedRouteNeedsToken(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/startups/current", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "No token provided")
}

func TestRouter_Metrics(t *testing.T) {
	r := testRouter(nil)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), "incubator_http_requests_total"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBuildTLSConfig(t *testing.T) {
	cfg, err := buildTLSConfig(config.TLSSettings{EnableTLS: true, AllowSelfSigned: true}, false)
	require.NoError(t, err)
	require.Len(t, cfg.Certificates, 1)

	_, err = buildTLSConfig(config.TLSSettings{EnableTLS: true, AllowSelfSigned: true}, true)
	require.Error(t, err)
}
