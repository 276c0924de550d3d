package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"anoa.com/userdirectory/internal/config"
	"anoa.com/userdirectory/internal/middleware"
	"anoa.com/userdirectory/pkg/database"
	"anoa.com/userdirectory/pkg/password"
	"anoa.com/userdirectory/pkg/response"
	"anoa.com/userdirectory/pkg/storage"
	"anoa.com/userdirectory/pkg/validator"

	authHttp "anoa.com/userdirectory/internal/modules/auth/delivery/http"
	authRepo "anoa.com/userdirectory/internal/modules/auth/repository"
	authService "anoa.com/userdirectory/internal/modules/auth/service"

	statHttp "anoa.com/userdirectory/internal/modules/stat/delivery/http"
	statService "anoa.com/userdirectory/internal/modules/stat/service"

	userHttp "anoa.com/userdirectory/internal/modules/user/delivery/http"
	userRepo "anoa.com/userdirectory/internal/modules/user/repository"
	userService "anoa.com/userdirectory/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    *slog.Logger
}

func NewServer(cfg *config.Config, db *gorm.DB, hasher password.Hasher, log *slog.Logger) (*Server, error) {
	if err := validator.Register(); err != nil {
		return nil, err
	}

	fileStore, err := newFileStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize avatar storage: %w", err)
	}

	userRepository := userRepo.NewUserRepository(db)
	tokenRepository := authRepo.NewTokenRepository(db)

	authSvc := authService.NewAuthService(userRepository, tokenRepository, hasher, log)
	userSvc := userService.NewUserService(userRepository, fileStore, hasher, log,
		userService.WithLocation(cfg.Location))

	authHandler := authHttp.NewAuthHandler(authSvc, userSvc)
	userHandler := userHttp.NewUserHandler(userSvc)
	statHandler := statHttp.NewStatHandler(statService.NewStatService(userRepository))
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	s := &Server{
		engine: router,
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	root := router.Group(cfg.ProxyPrefix)
	root.GET("/healthz", s.health)

	if cfg.StaticFiles == config.StaticFilesInternal && cfg.AvatarBackend == config.AvatarBackendLocal {
		root.Static(staticRoute(cfg.UploadDir), cfg.UploadDir)
	}

	// Public routes
	auth := root.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
	}

	// Protected routes
	users := root.Group("/user")
	users.Use(authMiddleware.RequireAuth())
	{
		users.GET("/", userHandler.List)
		users.GET("/get", userHandler.Get)
		users.GET("/group_by_minutes", userHandler.GroupByMinutes)
		users.GET("/group_by_hours", userHandler.GroupByHours)
		users.GET("/count", statHandler.GetTotalUsers)

		admin := users.Group("")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/create", userHandler.Create)
			admin.DELETE("/delete", userHandler.Delete)
			admin.PATCH("/update", userHandler.Replace)
			admin.PATCH("/patch", userHandler.Patch)
		}
	}

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, s.db); err != nil {
		response.Error(c, fmt.Errorf("database ping: %w", err))
		return
	}
	response.OK(c)
}

func newFileStore(cfg *config.Config) (storage.FileStore, error) {
	if cfg.AvatarBackend == config.AvatarBackendCloudinary {
		return storage.NewCloudinaryStore(storage.CloudinaryConfig{
			URL:       cfg.CloudinaryURL,
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		})
	}
	return storage.NewLocalStore(cfg.UploadDir)
}

// staticRoute maps the upload directory to the URL prefix its files are
// served under, so a stored "uploads/x.jpg" is reachable at "/uploads/x.jpg".
func staticRoute(dir string) string {
	return "/" + strings.Trim(filepath.ToSlash(filepath.Clean(dir)), "/")
}

func setupCORS(router *gin.Engine, origins []string) {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.TokenHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}

	router.Use(cors.New(corsConfig))
}
