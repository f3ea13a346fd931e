package earthengine

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/plastinin/srtmexport/internal/domain"
	"github.com/plastinin/srtmexport/internal/usecase"
	"github.com/plastinin/srtmexport/pkg/eexpr"
)

// exportImageRequest тело запроса image:export
type exportImageRequest struct {
	Expression        eexpr.Expression  `json:"expression"`
	Description       string            `json:"description,omitempty"`
	FileExportOptions fileExportOptions `json:"fileExportOptions"`
	Grid              *pixelGrid        `json:"grid,omitempty"`
	MaxPixels         int64             `json:"maxPixels,string,omitempty"`
	RequestID         string            `json:"requestId,omitempty"`
}

type fileExportOptions struct {
	FileFormat              string                   `json:"fileFormat"`
	DriveDestination        *driveDestination        `json:"driveDestination,omitempty"`
	CloudStorageDestination *cloudStorageDestination `json:"cloudStorageDestination,omitempty"`
}

type driveDestination struct {
	Folder         string `json:"folder,omitempty"`
	FilenamePrefix string `json:"filenamePrefix"`
}

type cloudStorageDestination struct {
	Bucket         string `json:"bucket"`
	FilenamePrefix string `json:"filenamePrefix"`
}

type pixelGrid struct {
	CRSCode string `json:"crsCode"`
}

// newExportImageRequest переводит запрос экспорта в формат REST API
func newExportImageRequest(export usecase.ImageExport) (*exportImageRequest, error) {
	if export.Image.Node() == nil {
		return nil, fmt.Errorf("export image is empty")
	}

	if err := export.Destination.Validate(); err != nil {
		return nil, err
	}

	opts := fileExportOptions{FileFormat: export.FileFormat}
	if export.Destination.Kind == usecase.DestinationGCS {
		opts.CloudStorageDestination = &cloudStorageDestination{
			Bucket:         export.Destination.Bucket,
			FilenamePrefix: export.FilePrefix,
		}
	} else {
		opts.DriveDestination = &driveDestination{
			Folder:         export.Destination.Folder,
			FilenamePrefix: export.FilePrefix,
		}
	}

	req := &exportImageRequest{
		Expression:        export.Image.Expression(),
		Description:       export.Description,
		FileExportOptions: opts,
		MaxPixels:         int64(export.MaxPixels),
		RequestID:         export.RequestID.String(),
	}
	if export.CRS != "" {
		req.Grid = &pixelGrid{CRSCode: export.CRS}
	}

	return req, nil
}

// operation долгоиграющая операция Earth Engine
type operation struct {
	Name     string            `json:"name"`
	Done     bool              `json:"done"`
	Metadata operationMetadata `json:"metadata"`
	Error    *status           `json:"error,omitempty"`
}

type operationMetadata struct {
	State       string `json:"state"`
	Description string `json:"description"`
}

type status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Состояния операций в REST API
var operationStates = map[string]domain.TaskState{
	"PENDING":    domain.TaskStatePending,
	"RUNNING":    domain.TaskStateRunning,
	"CANCELLING": domain.TaskStateCancelling,
	"SUCCEEDED":  domain.TaskStateCompleted,
	"CANCELLED":  domain.TaskStateCancelled,
	"FAILED":     domain.TaskStateFailed,
}

// toTask переводит операцию в доменную задачу
func (op operation) toTask(taskID string) *domain.Task {
	state, ok := operationStates[op.Metadata.State]
	if !ok {
		// Неизвестное состояние у незавершённой операции считаем ожиданием
		state = domain.TaskStatePending
		if op.Done {
			state = domain.TaskStateCompleted
		}
	}
	if op.Error != nil && state != domain.TaskStateCancelled {
		state = domain.TaskStateFailed
	}

	task := &domain.Task{
		ID:          taskID,
		State:       state,
		Description: op.Metadata.Description,
	}
	if op.Error != nil {
		task.ErrorMessage = op.Error.Message
	}
	return task
}

// APIError ошибка, возвращённая API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("earth engine returned status %d: %s", e.StatusCode, e.Message)
}

func newAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Error status `json:"error"`
	}
	msg := string(body)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		msg = payload.Error.Message
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
