package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	httpServer "taskmanager/internal/http"
	"taskmanager/internal/http/handlers"
	"taskmanager/internal/http/middleware"
	"taskmanager/internal/logger"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
	"taskmanager/internal/storage"
	"taskmanager/pkg/translator"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogJSON)
	defer logger.Sync()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationDir,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})
	service.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	middleware.UseRedis(rdb)
	var redisPing handlers.Pinger
	if rdb != nil {
		defer rdb.Close()
		redisPing = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	blobs, err := storage.NewLocalStore(cfg.StorageDir)
	if err != nil {
		logger.Fatal("failed to open storage", "dir", cfg.StorageDir, "error", err)
	}

	userRepo := repository.NewUserRepository(dbPool)
	taskRepo := repository.NewTaskRepository(dbPool)
	commentRepo := repository.NewCommentRepository(dbPool)
	attachmentRepo := repository.NewAttachmentRepository(dbPool)
	auditService := service.NewAuditService(repository.NewAuditRepository(dbPool))
	authService := service.NewAuthService(userRepo, service.NewRedisRevoker(rdb), auditService)

	h := handlers.NewHandler(handlers.Services{
		Tasks:       service.NewTaskService(taskRepo, userRepo, commentRepo, attachmentRepo),
		Comments:    service.NewCommentService(taskRepo, commentRepo),
		Attachments: service.NewAttachmentService(taskRepo, attachmentRepo, blobs),
		Users:       service.NewUserService(userRepo, blobs),
		Auth:        authService,
		Audit:       auditService,
	})
	health := handlers.NewHealthHandler(dbPool, blobs, redisPing, cfg.AppVersion)

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", "error", err)
	}
	// multipart bodies above this spill to temp files
	r.MaxMultipartMemory = 12 << 20

	httpServer.RegisterRoutes(r, h, health, authService, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
