package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kewgardenflowers/kgf-orders/auth"
	"github.com/kewgardenflowers/kgf-orders/internal/config"
	"github.com/kewgardenflowers/kgf-orders/internal/db"
	"github.com/kewgardenflowers/kgf-orders/internal/logging"
	"github.com/kewgardenflowers/kgf-orders/internal/policy"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Load sample data and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if *migrateOnlyFlag {
		mode := cfg.App.Migrations
		if mode == config.MigrateOff {
			mode = config.MigrateAuto
		}
		if err := db.Migrate(conn, mode); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.Info("migrations completed successfully")
		return
	}

	if err := db.Migrate(conn, cfg.App.Migrations); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	if *seedOnlyFlag || cfg.App.Seed {
		orders := services.NewOrderService(conn, log)
		clients := services.NewClientService(conn, log)
		if err := db.Seed(context.Background(), conn, orders, clients, time.Now()); err != nil {
			log.WithError(err).Fatal("seeding failed")
		}
		log.Info("seed data inserted")
		if *seedOnlyFlag {
			return
		}
	}

	password := auth.NewPassword(cfg.Auth.AdminPassword, cfg.Auth.AdminPasswordHash)
	if !password.Configured() {
		log.Warn("ADMIN_PASSWORD is not set; admin login is disabled")
	}
	if cfg.Auth.UsingDefaultSecret() {
		log.Warn("SECRET_KEY is not set; sessions use a development key")
	}
	sessions := auth.NewSessions(cfg.Auth.SecretKey, cfg.Auth.SessionTTL, !cfg.App.Dev)

	limiter, closeLimiter, err := policy.NewLimiter(cfg.RateLimit, log)
	if err != nil {
		log.WithError(err).Fatal("rate limiter setup failed")
	}
	defer closeLimiter()

	routerCfg := policy.NewRouterConfig(policy.Deps{
		DB:        conn,
		Log:       log,
		Sessions:  sessions,
		Password:  password,
		Limiter:   limiter,
		FormToken: cfg.Auth.PublicFormToken,
	})
	app := NewApp(routerCfg, log, cfg.App.Metrics)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).WithField("dev", cfg.App.Dev).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server stopped gracefully")
}
