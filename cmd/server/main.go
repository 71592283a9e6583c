package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"incubator/pkg/auth"
	"incubator/pkg/config"
	"incubator/pkg/db"
	"incubator/pkg/events"
	"incubator/pkg/logging"
	"incubator/pkg/notify"
	"incubator/pkg/registration"
	"incubator/pkg/sendemail"
	"incubator/pkg/startups"
	"incubator/pkg/token"
)

// @title           Incubator API
// @version         1.0
// @description     Startup incubator backend: founder and admin auth, startup registration and approval, events.

// @BasePath  /api
// @schemes   http https

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.IsProduction(), os.Stdout)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer pool.Close()

	var denylist token.Denylist = token.NopDenylist{}
	if cfg.RedisURL != "" {
		rd, err := token.NewRedisDenylistFromURL(ctx, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("redis connection failed")
		}
		defer rd.Close()
		denylist = rd
		logger.Info("token revocation backed by redis")
	}

	tokens := token.NewService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	hub := notify.NewHub()
	mailer := sendemail.NewMailer(sendemail.NewEmailService(cfg), logger)

	router := newRouter(routerDeps{
		cfg:          cfg,
		logger:       logger,
		verifier:     tokens,
		denylist:     denylist,
		hub:          hub,
		auth:         auth.NewService(auth.NewPostgresRepository(pool), tokens, denylist),
		startups:     startups.NewService(startups.NewPostgresRepository(pool), hub, mailer, logger),
		events:       events.NewService(events.NewPostgresRepository(pool)),
		registration: registration.NewService(registration.NewPostgresStore(pool), hub, mailer, logger),
		health:       pool.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.TLS.EnableTLS {
		tlsConfig, err := buildTLSConfig(cfg.TLS, cfg.IsProduction())
		if err != nil {
			logger.WithError(err).Fatal("TLS setup failed")
		}
		srv.TLSConfig = tlsConfig
	}

	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.ServerPort, "tls": cfg.TLS.EnableTLS}).Info("server listening")
		var err error
		if cfg.TLS.EnableTLS {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exiting")
}
