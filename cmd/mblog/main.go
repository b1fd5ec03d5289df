package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/mblog/internal/config"
	"github.com/xxxsen/mblog/internal/db"
	"github.com/xxxsen/mblog/internal/filestore"
	"github.com/xxxsen/mblog/internal/handler"
	"github.com/xxxsen/mblog/internal/job"
	"github.com/xxxsen/mblog/internal/middleware"
	"github.com/xxxsen/mblog/internal/repo"
	"github.com/xxxsen/mblog/internal/schedule"
	"github.com/xxxsen/mblog/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mblog",
		Short: "mblog backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run mblog server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
	)

	postRepo := repo.NewPostRepo(database)
	tagRepo := repo.NewTagRepo(database)
	postTagRepo := repo.NewPostTagRepo(database)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	authService := service.NewAuthService(cfg.AdminPasswordHash, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	tagService := service.NewTagService(tagRepo, postTagRepo)
	postService := service.NewPostService(postRepo, postTagRepo, tagService)
	importService := service.NewImportService(postRepo, tagService, postTagRepo)
	exportService := service.NewExportService(postRepo, postTagRepo, store)
	renderService := service.NewRenderService()

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Posts:     handler.NewPostHandler(postService),
		Tags:      handler.NewTagHandler(tagService),
		Imports:   handler.NewImportHandler(importService, cfg.MaxUploadSize),
		Exports:   handler.NewExportHandler(exportService),
		Render:    handler.NewRenderHandler(renderService),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	cleanup := job.NewExportCleanupJob(store, time.Hour*time.Duration(cfg.Export.RetentionHours))
	if err := scheduler.AddJob(cleanup, cfg.Export.CleanupCron); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
