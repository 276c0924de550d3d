package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/userdirectory/internal/bootstrap"
	"anoa.com/userdirectory/internal/config"
	userRepo "anoa.com/userdirectory/internal/modules/user/repository"
	"anoa.com/userdirectory/internal/server"
	"anoa.com/userdirectory/pkg/database"
	"anoa.com/userdirectory/pkg/logger"
	"anoa.com/userdirectory/pkg/password"
	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.AppEnv)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := bootstrap.Migrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	hasher := password.NewBcryptHasher(cfg.BcryptCost)

	if err := bootstrap.SeedRootUser(ctx, userRepo.NewUserRepository(db), hasher, cfg.RootUsername, cfg.RootPassword, log); err != nil {
		log.Error("failed to seed root user", "error", err)
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg, db, hasher, log)
	if err != nil {
		log.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
