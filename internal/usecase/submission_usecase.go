package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/plastinin/srtmexport/internal/domain"
	"go.uber.org/zap"
)

// SubmissionUseCase постановка экспортов в очередь и просмотр статуса задач
type SubmissionUseCase struct {
	queue    ExportQueue
	statuses TaskStatusSource
	logger   *zap.Logger
}

// NewSubmissionUseCase создаёт новый экземпляр SubmissionUseCase
func NewSubmissionUseCase(queue ExportQueue, statuses TaskStatusSource, logger *zap.Logger) *SubmissionUseCase {
	return &SubmissionUseCase{
		queue:    queue,
		statuses: statuses,
		logger:   logger,
	}
}

// Submit проверяет параметры и ставит экспорт в очередь
func (uc *SubmissionUseCase) Submit(ctx context.Context, input SubmitExportInput) (string, domain.ExportRequest, error) {
	req := domain.NewExportRequest(input.AOI)
	req.Resolution = domain.Resolution(input.Resolution)

	if err := req.Resolution.Validate(); err != nil {
		return "", req, fmt.Errorf("validation error: %w", err)
	}

	product, err := domain.ParseProduct(input.Product)
	if err != nil {
		return "", req, fmt.Errorf("validation error: %w", err)
	}
	req.Product = product

	if crs := strings.TrimSpace(input.CRS); crs != "" {
		req.CRS = crs
	}
	if input.NoData != nil {
		req.NoData = *input.NoData
	}
	if input.ElevationNoData != nil {
		req.ElevationNoData = *input.ElevationNoData
	}

	jobID, err := uc.queue.Enqueue(ctx, req)
	if err != nil {
		uc.logger.Error("Failed to enqueue export",
			zap.String("name", req.Name()),
			zap.Error(err),
		)
		return "", req, fmt.Errorf("failed to enqueue export: %w", err)
	}

	uc.logger.Info("Export enqueued",
		zap.String("job_id", jobID),
		zap.String("name", req.Name()),
		zap.String("crs", req.CRS),
	)

	return jobID, req, nil
}

// TaskStatus возвращает состояние удалённой задачи
func (uc *SubmissionUseCase) TaskStatus(ctx context.Context, taskID string) (*domain.Task, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, domain.ErrEmptyTaskID
	}
	return uc.statuses.TaskStatus(ctx, taskID)
}
