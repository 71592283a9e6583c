package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "incubator/docs"
	"incubator/pkg/auth"
	"incubator/pkg/config"
	"incubator/pkg/events"
	"incubator/pkg/logging"
	"incubator/pkg/middleware"
	"incubator/pkg/notify"
	"incubator/pkg/registration"
	"incubator/pkg/response"
	"incubator/pkg/startups"
	"incubator/pkg/token"
)

type routerDeps struct {
	cfg      config.Config
	logger   logrus.FieldLogger
	verifier middleware.AccessVerifier
	denylist token.Denylist
	hub      *notify.Hub

	auth         auth.Service
	startups     startups.Service
	events       events.Service
	registration registration.Service

	// health reports whether backing stores are reachable.
	health func(ctx context.Context) error
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(d.logger), middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     d.cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: d.cfg.CORSAllowCreds,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.Authenticate(d.verifier, d.denylist)

	api := router.Group("/api")
	auth.NewHandler(d.auth).RegisterRoutes(api, requireAuth)
	registration.NewHandler(d.registration).RegisterRoutes(api)
	startups.NewHandler(d.startups).RegisterRoutes(api, requireAuth)
	events.NewHandler(d.events).RegisterRoutes(api, requireAuth)

	notify.NewHandler(d.hub, d.verifier, d.denylist, d.cfg.CORSAllowedOrigins, d.logger).RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if d.health != nil {
			if err := d.health(ctx); err != nil {
				d.logger.WithError(err).Warn("health check failed")
				response.SendAPIResponse(c, http.StatusServiceUnavailable, false, "unavailable", nil)
				return
			}
		}
		response.SendAPIResponse(c, http.StatusOK, true, "ok", nil)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
