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

	"github.com/DanilaOak/uploader/internal/api"
	"github.com/DanilaOak/uploader/internal/config"
	"github.com/DanilaOak/uploader/internal/database"
	"github.com/DanilaOak/uploader/internal/logging"
	"github.com/DanilaOak/uploader/internal/repository/postgres"
	"github.com/DanilaOak/uploader/internal/service"
	"github.com/DanilaOak/uploader/internal/storage"
	"github.com/DanilaOak/uploader/internal/storage/local"
	"github.com/DanilaOak/uploader/internal/storage/s3"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("配置加载完成，开始启动服务", zap.String("storage_driver", cfg.StorageDriver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	store, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("初始化存储失败", zap.Error(err))
	}

	users := postgres.NewUserRepository(db)
	files := postgres.NewFileRepository(db)

	fileHandler := api.NewFileHandler(
		service.NewUploader(users, files, store, logger.Named("uploader")),
		service.NewFileService(users, files, store),
		cfg.MaxUploadBytes,
		logger.Named("api"),
	)

	router := api.NewRouter(cfg, api.RouterDeps{
		Files:  fileHandler,
		DB:     db,
		Logger: logger.Named("http"),
	})

	// 上传是流式的，不设置写超时
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		Handler:           router,
	}

	logger.Info("服务监听端口", zap.String("addr", srv.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("监听失败", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("优雅关闭失败", zap.Error(err))
	}

	logger.Info("服务已停止")
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return s3.New(ctx, s3.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Prefix:    cfg.UploadFolder,
			UseSSL:    cfg.S3UseSSL,
		})
	case "", "local":
		return local.NewWriter(cfg.UploadFolder, "")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
