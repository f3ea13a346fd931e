package dto

import (
	"github.com/plastinin/srtmexport/internal/domain"
)

// CreateExportRequest запрос на экспорт производного растра
type CreateExportRequest struct {
	AOI             domain.AOI `json:"aoi"`
	Resolution      int        `json:"resolution"`
	Product         string     `json:"product"`
	CRS             string     `json:"crs,omitempty"`
	NoData          *float64   `json:"no_data,omitempty"`
	ElevationNoData *float64   `json:"elevation_no_data,omitempty"`
}

// ExportAcceptedResponse ответ на постановку экспорта в очередь
type ExportAcceptedResponse struct {
	JobID      string  `json:"job_id"`
	Name       string  `json:"name"`
	Product    string  `json:"product"`
	Resolution int     `json:"resolution"`
	CRS        string  `json:"crs"`
	NoData     float64 `json:"no_data"`
}

// ExportAcceptedFromDomain конвертирует запрос в DTO
func ExportAcceptedFromDomain(jobID string, req domain.ExportRequest) *ExportAcceptedResponse {
	return &ExportAcceptedResponse{
		JobID:      jobID,
		Name:       req.Name(),
		Product:    req.Product.String(),
		Resolution: int(req.Resolution),
		CRS:        req.CRS,
		NoData:     req.NoDataValue(),
	}
}

// TaskResponse ответ с состоянием удалённой задачи
type TaskResponse struct {
	ID           string `json:"id"`
	State        string `json:"state"`
	Finished     bool   `json:"finished"`
	Description  string `json:"description,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// TaskFromDomain конвертирует доменную модель в DTO
func TaskFromDomain(task *domain.Task) *TaskResponse {
	return &TaskResponse{
		ID:           task.ID,
		State:        task.State.String(),
		Finished:     task.Finished(),
		Description:  task.Description,
		ErrorMessage: task.ErrorMessage,
	}
}

// ErrorResponse ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewErrorResponse создаёт ответ с ошибкой
func NewErrorResponse(err string, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   err,
		Message: message,
	}
}
