package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/plastinin/srtmexport/internal/config"
	"github.com/plastinin/srtmexport/internal/usecase"
	"go.uber.org/zap"
)

// ExportConsumer выполняет экспорты из очереди
type ExportConsumer struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	exportUC *usecase.ExportUseCase
	logger   *zap.Logger
}

// NewExportConsumer создаёт новый экземпляр ExportConsumer
func NewExportConsumer(
	cfg config.RedisConfig,
	exportUC *usecase.ExportUseCase,
	logger *zap.Logger,
) *ExportConsumer {
	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			// Экспорты запускаются строго по одному
			Concurrency: 1,
			Queues: map[string]int{
				queueExports: 10,
				"default":    1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	consumer := &ExportConsumer{
		server:   server,
		mux:      asynq.NewServeMux(),
		exportUC: exportUC,
		logger:   logger,
	}

	consumer.mux.HandleFunc(TypeTerrainExport, consumer.handleTerrainExport)

	return consumer
}

// Start запускает обработку задач
func (c *ExportConsumer) Start() error {
	c.logger.Info("Starting export consumer")
	return c.server.Start(c.mux)
}

// Stop останавливает обработку задач
func (c *ExportConsumer) Stop() {
	c.logger.Info("Stopping export consumer")
	c.server.Stop()
	c.server.Shutdown()
}

// handleTerrainExport выполняет экспорт и ждёт его завершения
func (c *ExportConsumer) handleTerrainExport(ctx context.Context, t *asynq.Task) error {
	var payload TerrainExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		c.logger.Error("Failed to unmarshal payload",
			zap.Error(err),
			zap.ByteString("payload", t.Payload()),
		)
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	req := payload.Request
	c.logger.Info("Processing terrain export",
		zap.String("name", req.Name()),
		zap.String("crs", req.CRS),
	)

	result, err := c.exportUC.Export(ctx, req)
	if err != nil {
		c.logger.Error("Failed to export",
			zap.String("name", req.Name()),
			zap.Error(err),
		)
		return err
	}

	if !result.Finished {
		c.logger.Warn("Export still running remotely",
			zap.Strings("task_ids", result.TaskIDs),
		)
	}

	return nil
}

// asynqLogger адаптер логгера для asynq
type asynqLogger struct {
	logger *zap.Logger
}

func newAsynqLogger(logger *zap.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.Named("asynq")}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Fatal(fmt.Sprint(args...))
}
