package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	identityapp "github.com/cotizador/backend/internal/application/identity"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/cotizador/backend/internal/infrastructure/auth"
	"github.com/cotizador/backend/internal/infrastructure/cache"
	"github.com/cotizador/backend/internal/infrastructure/config"
	"github.com/cotizador/backend/internal/infrastructure/logger"
	"github.com/cotizador/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		email    string
		password string
		name     string
		create   bool
	)

	flag.StringVar(&email, "email", "", "Email of the user")
	flag.StringVar(&password, "password", "", "New password")
	flag.BoolVar(&create, "create", false, "Create an admin with this email when none exists")
	flag.StringVar(&name, "name", "Administrador", "Name of the admin created with -create")
	flag.Parse()

	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Usage: resetpassword -email <email> -password <password> [-create [-name <name>]]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	log, _ := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stderr"})
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Sessions of the user are revoked through the shared store when
	// there is one; local state would die with this process.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, existing sessions stay valid", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			blacklist = auth.NewRedisTokenBlacklist(client)
		}
	}

	users := identityapp.NewUserService(persistence.NewGormUserRepository(db.DB), blacklist, cfg.JWT.AccessTokenExpiration, log)

	err = users.ResetPassword(ctx, email, password)
	switch {
	case err == nil:
		log.Info("Contraseña actualizada", zap.String("email", email))
	case errors.Is(err, shared.ErrNotFound) && create:
		info, err := users.Create(ctx, identityapp.CreateUserInput{
			Name:     name,
			Email:    email,
			Password: password,
			Role:     "admin",
		})
		if err != nil {
			log.Fatal("Failed to create admin", zap.Error(err))
		}
		log.Info("Administrador creado", zap.String("email", info.Email), zap.String("user_id", info.ID.String()))
	case errors.Is(err, shared.ErrNotFound):
		log.Fatal("Usuario no encontrado", zap.String("email", email))
	default:
		log.Fatal("Failed to reset password", zap.Error(err))
	}
}
