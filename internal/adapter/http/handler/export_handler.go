package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plastinin/srtmexport/internal/adapter/http/dto"
	"github.com/plastinin/srtmexport/internal/domain"
	"github.com/plastinin/srtmexport/internal/usecase"
	"go.uber.org/zap"
)

const (
	maxRequestSize = 1 << 20 // 1 MB
)

// ExportHandler обработчик HTTP запросов для экспортов
type ExportHandler struct {
	submissionUC *usecase.SubmissionUseCase
	logger       *zap.Logger
}

// NewExportHandler создаёт новый ExportHandler
func NewExportHandler(submissionUC *usecase.SubmissionUseCase, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		submissionUC: submissionUC,
		logger:       logger,
	}
}

// Create ставит экспорт в очередь
// POST /api/v1/exports
func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req dto.CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode export request", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "invalid_request", "Request body must be a JSON object")
		return
	}

	jobID, exportReq, err := h.submissionUC.Submit(r.Context(), usecase.SubmitExportInput{
		AOI:             req.AOI,
		Resolution:      req.Resolution,
		Product:         req.Product,
		CRS:             req.CRS,
		NoData:          req.NoData,
		ElevationNoData: req.ElevationNoData,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidResolution):
			h.respondError(w, http.StatusBadRequest, "invalid_resolution", domain.ErrInvalidResolution.Error())
		case errors.Is(err, domain.ErrInvalidProduct):
			h.respondError(w, http.StatusBadRequest, "invalid_product", domain.ErrInvalidProduct.Error())
		default:
			h.logger.Error("Failed to submit export", zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "internal_error", "Failed to submit export")
		}
		return
	}

	h.respondJSON(w, http.StatusAccepted, dto.ExportAcceptedFromDomain(jobID, exportReq))
}

// GetTask возвращает состояние удалённой задачи
// GET /api/v1/tasks/{id}
func (h *ExportHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.submissionUC.TaskStatus(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyTaskID):
			h.respondError(w, http.StatusBadRequest, "invalid_id", "Task ID is required")
		case errors.Is(err, domain.ErrTaskNotFound):
			h.respondError(w, http.StatusNotFound, "not_found", "Task not found")
		default:
			h.logger.Error("Failed to get task", zap.String("task_id", id), zap.Error(err))
			h.respondError(w, http.StatusBadGateway, "upstream_error", "Failed to get task status")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, dto.TaskFromDomain(task))
}

// respondJSON отправляет JSON ответ
func (h *ExportHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError отправляет ответ с ошибкой
func (h *ExportHandler) respondError(w http.ResponseWriter, status int, errCode string, message string) {
	h.respondJSON(w, status, dto.NewErrorResponse(errCode, message))
}
