package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/plastinin/srtmexport/internal/adapter/earthengine"
	"github.com/plastinin/srtmexport/internal/adapter/storage"
	"github.com/plastinin/srtmexport/internal/config"
	"github.com/plastinin/srtmexport/internal/domain"
	"github.com/plastinin/srtmexport/internal/usecase"
	"github.com/plastinin/srtmexport/pkg/logger"
	"go.uber.org/zap"
)

// Область по умолчанию: северное побережье Гондураса
var defaultAOI = domain.NewPolygonAOI([][2]float64{
	{-85.93, 16.08}, {-85.93, 15.69}, {-85.40, 15.69}, {-85.40, 16.08},
})

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Инициализируем логгер
	log := logger.Must(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	// Ctrl+C прекращает ожидание, удалённый экспорт продолжает работать
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exportUC := newExportUseCase(ctx, cfg, log)

	req := domain.NewExportRequest(defaultAOI)
	req.Resolution = domain.Resolution(cfg.Export.Resolution)
	req.CRS = cfg.Export.CRS
	req.NoData = cfg.Export.NoData
	req.ElevationNoData = cfg.Export.ElevationNoData

	var result *usecase.ExportResult
	if cfg.Export.Product == "all" {
		result, err = exportUC.ExportAll(ctx, req)
	} else {
		req.Product, err = domain.ParseProduct(cfg.Export.Product)
		if err != nil {
			log.Fatal("Invalid export parameters", zap.Error(err))
		}
		result, err = exportUC.Export(ctx, req)
	}
	if err != nil {
		log.Fatal("Export failed", zap.Error(err))
	}

	if !result.Finished {
		log.Warn("Export did not finish in time, tasks keep running remotely",
			zap.Strings("task_ids", result.TaskIDs),
		)
		os.Exit(2)
	}

	log.Info("Export finished",
		zap.Strings("task_ids", result.TaskIDs),
		zap.Int("artifacts", len(result.Artifacts)),
	)
}

// newExportUseCase собирает зависимости экспорта
func newExportUseCase(ctx context.Context, cfg *config.Config, log *zap.Logger) *usecase.ExportUseCase {
	eeClient := earthengine.NewClient(cfg.EarthEngine, log)
	if err := eeClient.CheckAccess(ctx); err != nil {
		log.Warn("Earth Engine access check failed", zap.Error(err))
	}

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

	return usecase.NewExportUseCase(eeClient, poller, artifacts, usecase.ExportSettings{
		Destination: destination,
		MaxPixels:   cfg.Export.MaxPixels,
		Timeout:     cfg.Export.Timeout,
	}, log)
}
