package usecase

import (
	"context"

	"github.com/plastinin/srtmexport/internal/domain"
)

// TaskStatusSource получение статуса удалённой задачи
type TaskStatusSource interface {
	TaskStatus(ctx context.Context, taskID string) (*domain.Task, error)
}

// EarthEngine клиент удалённого сервиса: запуск экспорта и статус задач
type EarthEngine interface {
	TaskStatusSource
	ExportImage(ctx context.Context, export ImageExport) (taskID string, err error)
}

// ArtifactStorage облачное хранилище, куда сервис кладёт результаты
type ArtifactStorage interface {
	List(ctx context.Context, prefix string) ([]domain.Artifact, error)
}

// ExportQueue очередь отложенных экспортов
type ExportQueue interface {
	Enqueue(ctx context.Context, req domain.ExportRequest) (jobID string, err error)
}
