package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hotelops/reclamations-backend/internal/notifications"
	"github.com/hotelops/reclamations-backend/internal/users"
	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/hotelops/reclamations-backend/pkg/db"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	pkgerrors "github.com/hotelops/reclamations-backend/pkg/errors"
	"github.com/hotelops/reclamations-backend/pkg/logger"
	"github.com/hotelops/reclamations-backend/pkg/mail"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "create-admin"})
	_ = godotenv.Load()

	name := flag.String("name", "admin", "account name used to log in")
	email := flag.String("email", "", "account email (required)")
	password := flag.String("password", "", "initial password; a temporary one is generated when empty")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "create-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "name": *name})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sender, err := mail.NewSender(cfg.Mail, logg)
	requireResource(ctx, logg, "mail sender", err)
	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{Mail: sender, Logger: logg})
	requireResource(ctx, logg, "notification dispatcher", err)

	svc, err := users.NewService(users.ServiceParams{
		Repo:           users.NewRepository(dbClient.DB()),
		Notifier:       dispatcher,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	requireResource(ctx, logg, "users service", err)

	// The bootstrap account acts as its own admin so a temporary password can
	// be issued.
	bootstrap := &users.Actor{Name: "bootstrap", Role: enums.RoleAdmin}
	dto, temp, err := svc.Create(ctx, bootstrap, users.CreateInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     string(enums.RoleAdmin),
	})
	dispatcher.Wait()
	if err != nil {
		logg.Error(ctx, "failed to create admin", err)
		fmt.Fprintln(os.Stderr, failureMessage(err))
		os.Exit(1)
	}

	fmt.Printf("created admin %s (%s)\n", dto.Name, dto.ID)
	if temp != "" {
		fmt.Println("temporary password:", temp)
	}
}

func failureMessage(err error) string {
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		return "an account with that email already exists"
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return "invalid input: " + err.Error()
	default:
		return "could not create admin: " + err.Error()
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
