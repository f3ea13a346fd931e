package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/plastinin/srtmexport/internal/adapter/earthengine"
	"github.com/plastinin/srtmexport/internal/adapter/queue"
	"github.com/plastinin/srtmexport/internal/adapter/storage"
	"github.com/plastinin/srtmexport/internal/config"
	"github.com/plastinin/srtmexport/internal/usecase"
	"github.com/plastinin/srtmexport/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Инициализируем логгер
	log := logger.Must(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	log.Info("Starting srtmexport worker",
		zap.String("ee_project", cfg.EarthEngine.Project),
		zap.String("destination", cfg.Export.Destination),
		zap.Duration("poll_interval", cfg.Export.PollInterval),
		zap.Duration("timeout", cfg.Export.Timeout),
	)

	ctx := context.Background()

	// Инициализируем клиент Earth Engine
	eeClient := earthengine.NewClient(cfg.EarthEngine, log)
	if err := eeClient.CheckAccess(ctx); err != nil {
		log.Warn("Earth Engine access check failed", zap.Error(err))
	} else {
		log.Info("Earth Engine is reachable")
	}

	// Хранилище результатов нужно только при выгрузке в GCS
	var artifacts usecase.ArtifactStorage
	if cfg.S3.Enabled {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatal("Failed to connect to S3", zap.Error(err))
		}
		log.Info("Connected to S3",
			zap.String("endpoint", cfg.S3.Endpoint),
			zap.String("bucket", cfg.S3.Bucket),
		)
		artifacts = s3Storage
	}

	destination := usecase.Destination{
		Kind:   cfg.Export.Destination,
		Folder: cfg.Export.Folder,
		Bucket: cfg.Export.Bucket,
	}
	if err := destination.Validate(); err != nil {
		log.Fatal("Invalid export destination", zap.Error(err))
	}

	poller := usecase.NewTaskPoller(eeClient, cfg.Export.PollInterval, log)
	exportUC := usecase.NewExportUseCase(eeClient, poller, artifacts, usecase.ExportSettings{
		Destination: destination,
		MaxPixels:   cfg.Export.MaxPixels,
		Timeout:     cfg.Export.Timeout,
	}, log)

	consumer := queue.NewExportConsumer(cfg.Redis, exportUC, log)

	go func() {
		if err := consumer.Start(); err != nil {
			log.Fatal("Failed to start consumer", zap.Error(err))
		}
	}()

	log.Info("Worker started, waiting for exports...")

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")

	consumer.Stop()

	log.Info("Worker stopped")
}
