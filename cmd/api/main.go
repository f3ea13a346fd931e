package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/plastinin/srtmexport/internal/adapter/earthengine"
	"github.com/plastinin/srtmexport/internal/adapter/http/handler"
	"github.com/plastinin/srtmexport/internal/adapter/queue"
	"github.com/plastinin/srtmexport/internal/config"
	"github.com/plastinin/srtmexport/internal/usecase"
	"github.com/plastinin/srtmexport/pkg/logger"
	"go.uber.org/zap"

	apphttp "github.com/plastinin/srtmexport/internal/adapter/http"
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

	log.Info("Starting srtmexport API",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	// Инициализируем Queue Producer
	exportProducer := queue.NewExportProducer(cfg.Redis, cfg.Export.Timeout)
	defer exportProducer.Close()
	log.Info("Connected to Redis",
		zap.String("addr", cfg.Redis.Addr()),
	)

	// Клиент Earth Engine для статусов задач и health check
	eeClient := earthengine.NewClient(cfg.EarthEngine, log)

	submissionUC := usecase.NewSubmissionUseCase(exportProducer, eeClient, log)

	exportHandler := handler.NewExportHandler(submissionUC, log)
	healthHandler := handler.NewHealthHandler(eeClient)

	router := apphttp.NewRouter(exportHandler, healthHandler, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", cfg.Server.Addr()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
