package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plastinin/srtmexport/internal/domain"
	"github.com/plastinin/srtmexport/pkg/eexpr"
	"go.uber.org/zap"
)

// ExportSettings параметры экспорта, не зависящие от запроса
type ExportSettings struct {
	Destination Destination
	MaxPixels   float64
	// 0 означает ожидание без ограничения
	Timeout time.Duration
}

// ExportUseCase бизнес-логика экспорта производных растров SRTM
type ExportUseCase struct {
	earthEngine EarthEngine
	poller      *TaskPoller
	storage     ArtifactStorage
	settings    ExportSettings
	logger      *zap.Logger
}

// NewExportUseCase создаёт новый экземпляр ExportUseCase.
// storage может быть nil, тогда результаты в хранилище не ищутся.
func NewExportUseCase(
	earthEngine EarthEngine,
	poller *TaskPoller,
	storage ArtifactStorage,
	settings ExportSettings,
	logger *zap.Logger,
) *ExportUseCase {
	if settings.MaxPixels <= 0 {
		settings.MaxPixels = DefaultMaxPixels
	}
	return &ExportUseCase{
		earthEngine: earthEngine,
		poller:      poller,
		storage:     storage,
		settings:    settings,
		logger:      logger,
	}
}

// Export строит продукт, запускает экспорт и ждёт его завершения
func (uc *ExportUseCase) Export(ctx context.Context, req domain.ExportRequest) (*ExportResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	taskID, err := uc.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	finished, err := uc.poller.WaitForTasks(ctx, []string{taskID}, uc.settings.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for export: %w", err)
	}

	result := &ExportResult{
		TaskIDs:  []string{taskID},
		Finished: finished,
	}
	if finished {
		result.Artifacts = uc.locateArtifacts(ctx, req.Name())
	}

	return result, nil
}

// ExportAll последовательно запускает экспорт всех продуктов и ждёт их вместе.
// Поле Product в запросе игнорируется.
func (uc *ExportUseCase) ExportAll(ctx context.Context, req domain.ExportRequest) (*ExportResult, error) {
	if err := req.Resolution.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	products := domain.AllProducts()
	taskIDs := make([]string, 0, len(products))
	for _, product := range products {
		productReq := req
		productReq.Product = product

		taskID, err := uc.submit(ctx, productReq)
		if err != nil {
			if len(taskIDs) > 0 {
				return nil, fmt.Errorf("%s after starting tasks %s: %w",
					product, strings.Join(taskIDs, ", "), err)
			}
			return nil, err
		}
		taskIDs = append(taskIDs, taskID)
	}

	finished, err := uc.poller.WaitForTasks(ctx, taskIDs, uc.settings.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for exports: %w", err)
	}

	result := &ExportResult{
		TaskIDs:  taskIDs,
		Finished: finished,
	}
	if finished {
		for _, product := range products {
			productReq := req
			productReq.Product = product
			result.Artifacts = append(result.Artifacts, uc.locateArtifacts(ctx, productReq.Name())...)
		}
	}

	return result, nil
}

// submit строит изображение и отправляет запрос на экспорт
func (uc *ExportUseCase) submit(ctx context.Context, req domain.ExportRequest) (string, error) {
	export, err := uc.buildExport(req)
	if err != nil {
		return "", err
	}

	taskID, err := uc.earthEngine.ExportImage(ctx, export)
	if err != nil {
		uc.logger.Error("Failed to start export",
			zap.String("description", export.Description),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to start export: %w", err)
	}

	uc.logger.Info("Exporting",
		zap.String("task_id", taskID),
		zap.String("product", req.Product.String()),
		zap.Int("resolution", int(req.Resolution)),
		zap.String("crs", req.CRS),
	)

	return taskID, nil
}

// buildExport собирает граф вычислений и параметры экспорта
func (uc *ExportUseCase) buildExport(req domain.ExportRequest) (ImageExport, error) {
	dataset, err := req.Resolution.Dataset()
	if err != nil {
		return ImageExport{}, fmt.Errorf("validation error: %w", err)
	}

	aoi := eexpr.Polygon(req.AOI.Coordinates)
	image, err := req.Product.Derive(eexpr.LoadImage(dataset), aoi)
	if err != nil {
		return ImageExport{}, fmt.Errorf("validation error: %w", err)
	}

	image = image.
		Unmask(req.NoDataValue()).
		ClipToBoundsAndScale(aoi, req.Resolution.Meters())

	uc.logger.Debug("Export image built",
		zap.String("dataset", dataset),
		zap.String("product", req.Product.String()),
		zap.Float64("no_data", req.NoDataValue()),
	)

	return ImageExport{
		RequestID:   uuid.New(),
		Image:       image,
		Description: req.Description(),
		FilePrefix:  req.Name(),
		FileFormat:  FileFormatGeoTIFF,
		CRS:         req.CRS,
		MaxPixels:   uc.settings.MaxPixels,
		Destination: uc.settings.Destination,
	}, nil
}

// locateArtifacts ищет выгруженные файлы в хранилище
func (uc *ExportUseCase) locateArtifacts(ctx context.Context, prefix string) []domain.Artifact {
	if uc.storage == nil || uc.settings.Destination.Kind != DestinationGCS {
		return nil
	}

	artifacts, err := uc.storage.List(ctx, prefix)
	if err != nil {
		uc.logger.Warn("Failed to list exported files",
			zap.String("prefix", prefix),
			zap.Error(err),
		)
		return nil
	}

	if len(artifacts) == 0 {
		uc.logger.Warn("No exported files found", zap.String("prefix", prefix))
	}
	for _, a := range artifacts {
		uc.logger.Info("Exported file",
			zap.String("key", a.Key),
			zap.Int64("size", a.Size),
			zap.String("url", a.URL),
		)
	}

	return artifacts
}
