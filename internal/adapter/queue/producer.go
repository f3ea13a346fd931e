package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/plastinin/srtmexport/internal/config"
	"github.com/plastinin/srtmexport/internal/domain"
)

// Типы задач
const (
	TypeTerrainExport = "terrain:export"

	queueExports = "exports"

	// Запас сверх ожидания экспорта на запуск задачи и поиск файлов
	taskTimeoutMargin = 10 * time.Minute
	// Срок жизни задачи при ожидании без ограничения
	unboundedTaskLifetime = 30 * 24 * time.Hour
)

// TerrainExportPayload данные задачи на экспорт
type TerrainExportPayload struct {
	Request domain.ExportRequest `json:"request"`
}

// ExportProducer отправляет экспорты в очередь
type ExportProducer struct {
	client *asynq.Client
	// Сколько обработчик ждёт удалённую задачу, 0 означает без ограничения
	exportTimeout time.Duration
}

// NewExportProducer создаёт новый экземпляр ExportProducer
func NewExportProducer(cfg config.RedisConfig, exportTimeout time.Duration) *ExportProducer {
	client := asynq.NewClient(redisOpt(cfg))

	return &ExportProducer{client: client, exportTimeout: exportTimeout}
}

// Enqueue добавляет экспорт в очередь и возвращает идентификатор задания
func (p *ExportProducer) Enqueue(ctx context.Context, req domain.ExportRequest) (string, error) {
	task, err := newTerrainExportTask(req)
	if err != nil {
		return "", err
	}

	info, err := p.client.EnqueueContext(ctx, task, exportTaskOptions(p.exportTimeout, time.Now())...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	return info.ID, nil
}

// Close закрывает соединение
func (p *ExportProducer) Close() error {
	return p.client.Close()
}

// newTerrainExportTask упаковывает запрос в задачу asynq
func newTerrainExportTask(req domain.ExportRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(TerrainExportPayload{Request: req})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return asynq.NewTask(TypeTerrainExport, payload), nil
}

// exportTaskOptions параметры постановки экспорта в очередь.
// Повторов нет: упавший экспорт не перезапускается.
// Контекст обработчика должен пережить ожидание экспорта, иначе asynq
// прервёт его через 30 минут по умолчанию.
func exportTaskOptions(exportTimeout time.Duration, now time.Time) []asynq.Option {
	opts := []asynq.Option{
		asynq.TaskID(uuid.New().String()),
		asynq.MaxRetry(0),
		asynq.Queue(queueExports),
	}

	if exportTimeout > 0 {
		return append(opts, asynq.Timeout(exportTimeout+taskTimeoutMargin))
	}
	return append(opts, asynq.Deadline(now.Add(unboundedTaskLifetime)))
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
