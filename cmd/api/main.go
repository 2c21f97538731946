package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hotelops/reclamations-backend/api/routes"
	"github.com/hotelops/reclamations-backend/internal/auth"
	"github.com/hotelops/reclamations-backend/internal/notifications"
	"github.com/hotelops/reclamations-backend/internal/realtime"
	"github.com/hotelops/reclamations-backend/internal/reclamations"
	"github.com/hotelops/reclamations-backend/internal/users"
	"github.com/hotelops/reclamations-backend/pkg/auth/session"
	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/hotelops/reclamations-backend/pkg/db"
	"github.com/hotelops/reclamations-backend/pkg/logger"
	"github.com/hotelops/reclamations-backend/pkg/mail"
	"github.com/hotelops/reclamations-backend/pkg/metrics"
	"github.com/hotelops/reclamations-backend/pkg/migrate"
	"github.com/hotelops/reclamations-backend/pkg/onesignal"
	"github.com/hotelops/reclamations-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mailSender, err := mail.NewSender(cfg.Mail, logg)
	if err != nil {
		logg.Error(ctx, "failed to create mail sender", err)
		os.Exit(1)
	}

	dispatcherParams := notifications.DispatcherParams{
		Mail:    mailSender,
		Logger:  logg,
		Metrics: metrics.NewNotificationMetrics(registry),
	}
	if cfg.Push.Enabled() {
		pushClient, err := onesignal.NewClient(cfg.Push)
		if err != nil {
			logg.Error(ctx, "failed to create push client", err)
			os.Exit(1)
		}
		dispatcherParams.Push = pushClient
	} else {
		logg.Warn(ctx, "push credentials missing, push notifications disabled")
	}
	dispatcher, err := notifications.NewDispatcher(dispatcherParams)
	if err != nil {
		logg.Error(ctx, "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	bus := realtime.NewBus(logg)
	hub := realtime.NewHub(realtime.HubParams{
		Config:         cfg.Realtime,
		AllowedOrigins: cfg.App.AllowedOrigins(),
		Logger:         logg,
		Metrics:        metrics.NewRealtimeMetrics(registry),
	})
	detach := hub.Attach(bus)

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		Repo:           usersRepo,
		Notifier:       dispatcher,
		Sessions:       sessionManager,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create users service", err)
		os.Exit(1)
	}

	reclamationsService, err := reclamations.NewService(reclamations.ServiceParams{
		Repo:      reclamations.NewRepository(dbClient.DB()),
		Users:     usersRepo,
		Notifier:  dispatcher,
		Publisher: bus,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create reclamations service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"driver":       dbClient.Driver(),
		"enforce_auth": cfg.FeatureFlags.EnforceAuth,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:              cfg,
			Logger:              logg,
			DB:                  dbClient,
			Redis:               redisClient,
			Sessions:            sessionManager,
			AuthService:         authService,
			UsersService:        usersService,
			ReclamationsService: reclamationsService,
			Socket:              hub,
			Gatherer:            registry,
			HTTPMetrics:         metrics.NewHTTPMetrics(registry),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "graceful shutdown failed", err)
	}
	detach()
	hub.Close()
	dispatcher.Wait()
}
